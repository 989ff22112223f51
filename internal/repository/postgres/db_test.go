package postgres

import "testing"

func TestDB_Rebind(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		query  string
		want   string
	}{
		{
			name:   "postgres converts placeholders to positional",
			driver: "postgres",
			query:  "UPDATE users SET plan = ?, updated_at = ? WHERE id = ?",
			want:   "UPDATE users SET plan = $1, updated_at = $2 WHERE id = $3",
		},
		{
			name:   "postgres leaves placeholder-free queries alone",
			driver: "postgres",
			query:  "SELECT COUNT(*) FROM users",
			want:   "SELECT COUNT(*) FROM users",
		},
		{
			name:   "sqlite keeps question marks",
			driver: "sqlite",
			query:  "DELETE FROM feedback WHERE id = ?",
			want:   "DELETE FROM feedback WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := Wrap(nil, tt.driver)
			if got := db.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}

package postgres

import (
	"context"
	"testing"

	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewUserRepository(db)

	tests := []struct {
		name    string
		user    *user.User
		wantErr bool
	}{
		{
			name:    "create user successfully",
			user:    &user.User{Email: "test@example.com"},
			wantErr: false,
		},
		{
			name:    "create another user",
			user:    &user.User{Email: "another@example.com", Plan: user.PlanPro},
			wantErr: false,
		},
		{
			name:    "duplicate email fails",
			user:    &user.User{Email: "test@example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			err := repo.Create(ctx, tt.user)

			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if tt.user.ID == "" {
					t.Error("Create() did not set user ID")
				}
				if tt.user.Plan == "" {
					t.Error("Create() did not default the plan")
				}
			}
		})
	}
}

func TestUserRepository_CreateIfAbsent(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewUserRepository(db)
	ctx := context.Background()

	first, created, err := repo.CreateIfAbsent(ctx, "owner@example.com", user.PlanFree)
	if err != nil {
		t.Fatalf("CreateIfAbsent() error = %v", err)
	}
	if !created {
		t.Error("CreateIfAbsent() created = false on first call, want true")
	}
	if first.ID == "" {
		t.Error("CreateIfAbsent() did not set user ID")
	}

	second, created, err := repo.CreateIfAbsent(ctx, "owner@example.com", user.PlanFree)
	if err != nil {
		t.Fatalf("CreateIfAbsent() second call error = %v", err)
	}
	if created {
		t.Error("CreateIfAbsent() created = true on second call, want false")
	}
	if second.ID != first.ID {
		t.Errorf("CreateIfAbsent() returned different user: got %v, want %v", second.ID, first.ID)
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "test@example.com"}
	repo.Create(ctx, u)

	tests := []struct {
		name    string
		userID  string
		wantErr bool
	}{
		{
			name:    "get existing user",
			userID:  u.ID,
			wantErr: false,
		},
		{
			name:    "get non-existing user",
			userID:  "missing-id",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByID(ctx, tt.userID)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetByID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if got == nil {
					t.Error("GetByID() returned nil user")
					return
				}
				if got.Email != u.Email {
					t.Errorf("GetByID() Email = %v, want %v", got.Email, u.Email)
				}
			}
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewUserRepository(db)
	ctx := context.Background()

	email := "test@example.com"
	u := &user.User{Email: email}
	repo.Create(ctx, u)

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "get existing user by email",
			email:   email,
			wantErr: false,
		},
		{
			name:    "get non-existing user by email",
			email:   "nonexistent@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByEmail(ctx, tt.email)

			if (err != nil) != tt.wantErr {
				t.Errorf("GetByEmail() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if got == nil {
					t.Error("GetByEmail() returned nil user")
					return
				}
				if got.Email != tt.email {
					t.Errorf("GetByEmail() Email = %v, want %v", got.Email, tt.email)
				}
			}
		})
	}
}

func TestUserRepository_UpdatePlan(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Email: "test@example.com"}
	repo.Create(ctx, u)

	tests := []struct {
		name     string
		key      user.LookupKey
		plan     string
		wantRows int64
		wantErr  bool
	}{
		{
			name:     "update by ID",
			key:      user.ByID(u.ID),
			plan:     user.PlanPro,
			wantRows: 1,
		},
		{
			name:     "update by email",
			key:      user.ByEmail(u.Email),
			plan:     user.PlanLifetime,
			wantRows: 1,
		},
		{
			name:     "update missing user",
			key:      user.ByEmail("nonexistent@example.com"),
			plan:     user.PlanPro,
			wantRows: 0,
		},
		{
			name:    "empty lookup key",
			key:     user.LookupKey{},
			plan:    user.PlanPro,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := repo.UpdatePlan(ctx, tt.key, tt.plan)

			if (err != nil) != tt.wantErr {
				t.Errorf("UpdatePlan() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if rows != tt.wantRows {
				t.Errorf("UpdatePlan() rows = %v, want %v", rows, tt.wantRows)
			}

			if tt.wantRows > 0 {
				updated, err := repo.GetByID(ctx, u.ID)
				if err != nil {
					t.Fatalf("GetByID() after update error = %v", err)
				}
				if updated.Plan != tt.plan {
					t.Errorf("UpdatePlan() plan = %v, want %v", updated.Plan, tt.plan)
				}
			}
		})
	}
}

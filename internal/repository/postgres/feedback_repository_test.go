package postgres

import (
	"context"
	"testing"

	"github.com/fatitalo/quickfeedback/internal/domain/feedback"
	"github.com/fatitalo/quickfeedback/internal/testutil"
)

func TestFeedbackRepository_Create(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	siteURL := "https://example.com"
	tests := []struct {
		name    string
		fb      *feedback.Feedback
		wantErr bool
	}{
		{
			name: "create feedback with site url",
			fb: &feedback.Feedback{
				Name:    "Jane",
				Email:   "jane@example.com",
				Message: "Love the product",
				SiteURL: &siteURL,
				UserID:  "owner-1",
			},
		},
		{
			name: "create feedback without site url",
			fb: &feedback.Feedback{
				Name:    "Sam",
				Email:   "sam@example.com",
				Message: "Found a bug",
				UserID:  "owner-1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.fb)

			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && tt.fb.ID == "" {
				t.Error("Create() did not set feedback ID")
			}
		})
	}
}

// seedFeedback inserts a row with an explicit created_at so ordering
// tests do not depend on the clock.
func seedFeedback(t *testing.T, db *DB, id, userID string, createdAt int64) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO feedback (id, name, email, message, site_url, user_id, created_at)
		 VALUES (?, ?, ?, ?, NULL, ?, ?)`,
		id, "Name "+id, id+"@example.com", "Message "+id, userID, createdAt,
	)
	if err != nil {
		t.Fatalf("Failed to seed feedback %s: %v", id, err)
	}
}

func TestFeedbackRepository_List(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	seedFeedback(t, db, "fb-1", "owner-1", 1000)
	seedFeedback(t, db, "fb-2", "owner-2", 2000)
	seedFeedback(t, db, "fb-3", "owner-1", 3000)

	tests := []struct {
		name    string
		ownerID string
		wantIDs []string
	}{
		{
			name:    "list all newest first",
			ownerID: "",
			wantIDs: []string{"fb-3", "fb-2", "fb-1"},
		},
		{
			name:    "list filtered by owner",
			ownerID: "owner-1",
			wantIDs: []string{"fb-3", "fb-1"},
		},
		{
			name:    "list unknown owner",
			ownerID: "owner-999",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := repo.List(ctx, tt.ownerID)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}

			if len(items) != len(tt.wantIDs) {
				t.Fatalf("List() returned %d items, want %d", len(items), len(tt.wantIDs))
			}

			for i, want := range tt.wantIDs {
				if items[i].ID != want {
					t.Errorf("List()[%d].ID = %v, want %v", i, items[i].ID, want)
				}
			}
		})
	}
}

func TestFeedbackRepository_List_SiteURL(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	siteURL := "https://example.com"
	withURL := &feedback.Feedback{
		Name: "Jane", Email: "jane@example.com", Message: "hi",
		SiteURL: &siteURL, UserID: "owner-1",
	}
	withoutURL := &feedback.Feedback{
		Name: "Sam", Email: "sam@example.com", Message: "hi",
		UserID: "owner-1",
	}
	repo.Create(ctx, withURL)
	repo.Create(ctx, withoutURL)

	items, err := repo.List(ctx, "owner-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("List() returned %d items, want 2", len(items))
	}

	for _, fb := range items {
		switch fb.ID {
		case withURL.ID:
			if fb.SiteURL == nil || *fb.SiteURL != siteURL {
				t.Errorf("List() SiteURL = %v, want %v", fb.SiteURL, siteURL)
			}
		case withoutURL.ID:
			if fb.SiteURL != nil {
				t.Errorf("List() SiteURL = %v, want nil", *fb.SiteURL)
			}
		}
	}
}

func TestFeedbackRepository_Delete(t *testing.T) {
	db := Wrap(testutil.NewTestDB(t), "sqlite")
	defer testutil.CleanupDB(db.DB)

	repo := NewFeedbackRepository(db)
	ctx := context.Background()

	fb := &feedback.Feedback{
		Name: "Jane", Email: "jane@example.com", Message: "hi", UserID: "owner-1",
	}
	repo.Create(ctx, fb)

	rows, err := repo.Delete(ctx, fb.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if rows != 1 {
		t.Errorf("Delete() rows = %v, want 1", rows)
	}

	// Deleting again matches nothing but does not fail.
	rows, err = repo.Delete(ctx, fb.ID)
	if err != nil {
		t.Fatalf("Delete() second call error = %v", err)
	}
	if rows != 0 {
		t.Errorf("Delete() second call rows = %v, want 0", rows)
	}
}

package services

import (
	"context"
	"testing"

	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/testutil"
)

func TestUserService_Bootstrap(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewUserService(mockRepo, log)

	ctx := context.Background()

	first, err := service.Bootstrap(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if first == nil {
		t.Fatal("Bootstrap() returned nil user")
	}
	if first.Email != "owner@example.com" {
		t.Errorf("Bootstrap() email = %v, want owner@example.com", first.Email)
	}
	if first.Plan != user.PlanFree {
		t.Errorf("Bootstrap() plan = %v, want %v", first.Plan, user.PlanFree)
	}

	// Repeated bootstrap for the same email returns the same row.
	second, err := service.Bootstrap(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("Bootstrap() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Bootstrap() returned different user: got %v, want %v", second.ID, first.ID)
	}
}

func TestUserService_SetPlan(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewUserService(mockRepo, log)

	ctx := context.Background()
	u, _ := service.Bootstrap(ctx, "owner@example.com")

	tests := []struct {
		name    string
		key     user.LookupKey
		plan    string
		wantErr bool
	}{
		{
			name: "set plan by ID",
			key:  user.ByID(u.ID),
			plan: user.PlanLifetime,
		},
		{
			name: "set plan by email",
			key:  user.ByEmail(u.Email),
			plan: user.PlanPro,
		},
		{
			name:    "unknown plan rejected",
			key:     user.ByID(u.ID),
			plan:    "platinum",
			wantErr: true,
		},
		{
			name:    "missing user",
			key:     user.ByEmail("nonexistent@example.com"),
			plan:    user.PlanPro,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.SetPlan(ctx, tt.key, tt.plan)

			if (err != nil) != tt.wantErr {
				t.Errorf("SetPlan() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				updated, _ := service.GetByID(ctx, u.ID)
				if updated.Plan != tt.plan {
					t.Errorf("SetPlan() plan = %v, want %v", updated.Plan, tt.plan)
				}
			}
		})
	}
}

func TestUserService_GetByEmail(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	service := NewUserService(mockRepo, log)

	ctx := context.Background()
	service.Bootstrap(ctx, "owner@example.com")

	u, err := service.GetByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if u.Email != "owner@example.com" {
		t.Errorf("GetByEmail() email = %v, want owner@example.com", u.Email)
	}

	if _, err := service.GetByEmail(ctx, "nonexistent@example.com"); err == nil {
		t.Error("GetByEmail() expected error for missing user")
	}
}

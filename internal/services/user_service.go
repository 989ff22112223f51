package services

import (
	"context"

	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/pkg/errors"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo   user.Repository
	logger *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, log *logger.Logger) user.Service {
	return &UserService{
		repo:   repo,
		logger: log,
	}
}

// Bootstrap finds the user with the given email, creating a free
// account when none exists. The dashboard calls this on every sign-in,
// so repeated calls for the same email must return the same row.
func (s *UserService) Bootstrap(ctx context.Context, email string) (*user.User, error) {
	u, created, err := s.repo.CreateIfAbsent(ctx, email, user.PlanFree)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to bootstrap user")
		return nil, err
	}

	if created {
		s.logger.WithFields(map[string]interface{}{
			"user_id": u.ID,
			"email":   u.Email,
		}).Info("User created")
	}

	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// SetPlan sets the plan of the user matched by key
func (s *UserService) SetPlan(ctx context.Context, key user.LookupKey, plan string) error {
	if !user.ValidPlan(plan) {
		return errors.BadRequest("Unknown plan: " + plan)
	}

	rows, err := s.repo.UpdatePlan(ctx, key, plan)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to update plan")
		return err
	}

	if rows == 0 {
		return errors.NotFound("User")
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": key.ID,
		"email":   key.Email,
		"plan":    plan,
	}).Info("User plan updated")

	return nil
}

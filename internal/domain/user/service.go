package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Bootstrap finds the user with the given email, creating a free
	// account if none exists.
	Bootstrap(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// SetPlan sets the plan of the user matched by key. It returns
	// a not-found error when no user matched.
	SetPlan(ctx context.Context, key LookupKey, plan string) error
}

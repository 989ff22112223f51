package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// CreateIfAbsent creates a user with the given email and plan
	// unless one already exists. It returns the stored user and
	// whether this call created it. Safe under concurrent callers.
	CreateIfAbsent(ctx context.Context, email, plan string) (*User, bool, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePlan sets the plan of the user matched by key and returns
	// the number of rows affected. Zero rows means no matching user.
	UpdatePlan(ctx context.Context, key LookupKey, plan string) (int64, error)
}

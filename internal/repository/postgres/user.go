package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/pkg/errors"
	"github.com/fatitalo/quickfeedback/internal/pkg/metrics"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("create", "users", time.Since(start)) }()

	now := time.Now()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Plan == "" {
		u.Plan = user.PlanFree
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO users (id, email, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Plan, now.Unix(), now.Unix(),
	)
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	return nil
}

// CreateIfAbsent creates a user unless one with the email exists.
// The conflict-tolerant insert plus re-read makes concurrent
// bootstraps for the same email converge on a single row.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, email, plan string) (*user.User, bool, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("create_if_absent", "users", time.Since(start)) }()

	now := time.Now()
	id := uuid.NewString()

	query := r.db.Rebind(`
		INSERT INTO users (id, email, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`)

	result, err := r.db.ExecContext(ctx, query, id, email, plan, now.Unix(), now.Unix())
	if err != nil {
		return nil, false, errors.DatabaseError("Failed to create user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, errors.DatabaseError("Failed to get affected rows", err)
	}

	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}

	return u, rows > 0, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := r.db.Rebind(`
		SELECT id, email, plan, created_at, updated_at
		FROM users WHERE id = ?
	`)
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := r.db.Rebind(`
		SELECT id, email, plan, created_at, updated_at
		FROM users WHERE email = ?
	`)
	return r.getOne(ctx, query, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get", "users", time.Since(start)) }()

	var u user.User
	var createdAt, updatedAt int64

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Plan, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	u.CreatedAt = time.Unix(createdAt, 0)
	u.UpdatedAt = time.Unix(updatedAt, 0)

	return &u, nil
}

// UpdatePlan sets the plan of the user matched by key
func (r *UserRepository) UpdatePlan(ctx context.Context, key user.LookupKey, plan string) (int64, error) {
	if key.IsZero() {
		return 0, errors.BadRequest("User lookup key is empty")
	}

	start := time.Now()
	defer func() { metrics.RecordDBQuery("update_plan", "users", time.Since(start)) }()

	query := `UPDATE users SET plan = ?, updated_at = ? WHERE id = ?`
	arg := key.ID
	if key.ID == "" {
		query = `UPDATE users SET plan = ?, updated_at = ? WHERE email = ?`
		arg = key.Email
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), plan, time.Now().Unix(), arg)
	if err != nil {
		return 0, errors.DatabaseError("Failed to update plan", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}

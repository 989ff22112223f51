package user

import "time"

// User represents a website owner collecting feedback
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Plans
const (
	PlanFree     = "free"
	PlanPro      = "pro"
	PlanLifetime = "lifetime"
)

// ValidPlan reports whether p is a known plan value.
func ValidPlan(p string) bool {
	return p == PlanFree || p == PlanPro || p == PlanLifetime
}

// LookupKey identifies a user either by ID or by email. Stripe webhook
// events carry one or the other depending on how the session was
// created, so the key is resolved once and threaded through.
type LookupKey struct {
	ID    string
	Email string
}

// ByID returns a key that matches on the user ID.
func ByID(id string) LookupKey {
	return LookupKey{ID: id}
}

// ByEmail returns a key that matches on the email address.
func ByEmail(email string) LookupKey {
	return LookupKey{Email: email}
}

// IsZero reports whether the key carries neither an ID nor an email.
func (k LookupKey) IsZero() bool {
	return k.ID == "" && k.Email == ""
}

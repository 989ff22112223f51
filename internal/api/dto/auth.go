package dto

// BootstrapRequest identifies a dashboard user by email. No password:
// the dashboard authenticates upstream and this endpoint only
// materializes the account row.
type BootstrapRequest struct {
	Email string `json:"email" validate:"required"`
}

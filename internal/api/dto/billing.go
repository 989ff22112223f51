package dto

// CreateCheckoutSessionRequest starts a Stripe Checkout flow.
type CreateCheckoutSessionRequest struct {
	UserID     string `json:"userId" validate:"required"`
	Email      string `json:"email" validate:"required"`
	PlanType   string `json:"planType,omitempty"`
	CouponCode string `json:"couponCode,omitempty"`
}

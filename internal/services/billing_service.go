package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"github.com/fatitalo/quickfeedback/internal/config"
	"github.com/fatitalo/quickfeedback/internal/domain/user"
	"github.com/fatitalo/quickfeedback/internal/pkg/errors"
	"github.com/fatitalo/quickfeedback/internal/pkg/logger"
	"github.com/fatitalo/quickfeedback/internal/pkg/metrics"
)

// Plan identifiers accepted by the checkout endpoint.
const (
	CheckoutPlanLifetime   = "lifetime"
	CheckoutPlanProMonthly = "pro-monthly"
)

// Prices in US cents.
const (
	lifetimePriceCents   = 4900
	proMonthlyPriceCents = 1000
)

// CheckoutRequest carries the fields the dashboard sends when a user
// starts an upgrade.
type CheckoutRequest struct {
	UserID     string
	Email      string
	PlanType   string
	CouponCode string
}

// CheckoutSession is the subset of the Stripe session the dashboard
// needs to redirect the browser.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// BillingService creates checkout sessions and applies the plan
// transitions driven by Stripe webhook events.
type BillingService struct {
	sc        *stripe.Client
	users     user.Service
	cfg       config.StripeConfig
	publicURL string
	logger    *logger.Logger
}

// NewBillingService creates a new billing service. sc may be nil when
// no Stripe key is configured; checkout then fails with a config
// error instead of a panic.
func NewBillingService(sc *stripe.Client, users user.Service, cfg config.StripeConfig, publicURL string, log *logger.Logger) *BillingService {
	return &BillingService{
		sc:        sc,
		users:     users,
		cfg:       cfg,
		publicURL: publicURL,
		logger:    log,
	}
}

// NormalizePlan maps any requested plan type onto one of the two
// sellable plans. Everything that is not the lifetime deal is the
// monthly subscription.
func NormalizePlan(planType string) string {
	if planType == CheckoutPlanLifetime {
		return CheckoutPlanLifetime
	}
	return CheckoutPlanProMonthly
}

// LaunchCouponMatches reports whether the typed coupon code matches
// the configured launch code, ignoring case and surrounding space.
func LaunchCouponMatches(typed, configured string) bool {
	if typed == "" || configured == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(typed), strings.TrimSpace(configured))
}

// BuildCheckoutParams assembles the Stripe session parameters for a
// checkout request. Pure function so pricing and coupon rules stay
// testable without the network.
func (s *BillingService) BuildCheckoutParams(req CheckoutRequest) (*stripe.CheckoutSessionCreateParams, string) {
	plan := NormalizePlan(req.PlanType)

	metadata := map[string]string{
		"userId":   req.UserID,
		"planType": plan,
	}

	params := &stripe.CheckoutSessionCreateParams{
		PaymentMethodTypes: []*string{stripe.String("card")},
		CustomerEmail:      stripe.String(req.Email),
		SuccessURL:         stripe.String(s.publicURL + "/dashboard?success=true"),
		CancelURL:          stripe.String(s.publicURL + "/dashboard"),
		Metadata:           metadata,
	}

	if plan == CheckoutPlanLifetime {
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		params.LineItems = []*stripe.CheckoutSessionCreateLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
						Name:        stripe.String("QuickFeedback Lifetime Deal"),
						Description: stripe.String("One-time payment for lifetime access"),
					},
					UnitAmount: stripe.Int64(lifetimePriceCents),
				},
				Quantity: stripe.Int64(1),
			},
		}
		return params, plan
	}

	params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
	params.LineItems = []*stripe.CheckoutSessionCreateLineItemParams{
		{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name:        stripe.String("QuickFeedback PRO"),
					Description: stripe.String("Monthly subscription with premium features"),
				},
				UnitAmount: stripe.Int64(proMonthlyPriceCents),
				Recurring: &stripe.CheckoutSessionCreateLineItemPriceDataRecurringParams{
					Interval: stripe.String("month"),
				},
			},
			Quantity: stripe.Int64(1),
		},
	}

	if s.cfg.LaunchCouponID != "" && LaunchCouponMatches(req.CouponCode, s.cfg.LaunchCouponCode) {
		params.Discounts = []*stripe.CheckoutSessionCreateDiscountParams{
			{Coupon: stripe.String(s.cfg.LaunchCouponID)},
		}
		metadata["couponCode"] = strings.TrimSpace(req.CouponCode)
	}

	return params, plan
}

// CreateCheckoutSession creates a Stripe Checkout session for the
// requested plan.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if s.sc == nil || s.cfg.SecretKey == "" {
		return nil, errors.ConfigError("STRIPE_SECRET_KEY")
	}
	if s.publicURL == "" {
		return nil, errors.ConfigError("PUBLIC_URL")
	}
	if req.UserID == "" || req.Email == "" {
		return nil, errors.BadRequest("userId and email are required")
	}

	params, plan := s.BuildCheckoutParams(req)

	session, err := s.sc.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		metrics.RecordCheckoutSession(plan, "error")
		return nil, mapStripeError(err)
	}

	if session.URL == "" {
		metrics.RecordCheckoutSession(plan, "error")
		return nil, errors.PaymentError("Could not generate the payment URL. Please try again.", nil)
	}

	metrics.RecordCheckoutSession(plan, "ok")
	s.logger.WithFields(map[string]interface{}{
		"session_id": session.ID,
		"plan":       plan,
		"user_id":    req.UserID,
	}).Info("Stripe session created")

	return &CheckoutSession{SessionID: session.ID, URL: session.URL}, nil
}

// mapStripeError translates Stripe API failures into AppErrors with
// operator-actionable messages.
func mapStripeError(err error) *errors.AppError {
	var stripeErr *stripe.Error
	if stderrors.As(err, &stripeErr) {
		// Stripe reports bad keys as a 401, not a dedicated error type.
		if stripeErr.HTTPStatusCode == http.StatusUnauthorized {
			return errors.PaymentError(
				"Stripe authentication error. Please verify that STRIPE_SECRET_KEY is configured correctly.", err)
		}
		if stripeErr.Type == stripe.ErrorTypeAPI {
			return errors.PaymentError("Stripe API error: "+stripeErr.Msg, err)
		}
		if stripeErr.Msg != "" {
			return errors.PaymentError(stripeErr.Msg, err)
		}
	}
	return errors.PaymentError("Error processing payment", err)
}

// VerifyEvent checks the Stripe-Signature header against the webhook
// secret and parses the event. API version mismatches are tolerated;
// Stripe bumps the event payload version independently of the SDK.
func (s *BillingService) VerifyEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
}

// HandleEvent applies a verified webhook event. Errors during
// processing are logged, not returned: the caller always acknowledges
// with 200 so Stripe does not retry events we cannot act on.
func (s *BillingService) HandleEvent(ctx context.Context, event stripe.Event) {
	switch string(event.Type) {
	case "checkout.session.completed":
		s.handleCheckoutCompleted(ctx, event)
		metrics.RecordWebhookEvent(string(event.Type), "handled")
	case "customer.subscription.deleted", "customer.subscription.updated":
		s.handleSubscriptionChanged(ctx, event)
		metrics.RecordWebhookEvent(string(event.Type), "handled")
	default:
		metrics.RecordWebhookEvent(string(event.Type), "ignored")
	}
}

func (s *BillingService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		s.logger.ErrorWithErr(err, "Failed to parse checkout session")
		return
	}

	key := checkoutLookupKey(&session)
	if key.IsZero() {
		s.logger.Error("No userId or email found in checkout session")
		return
	}

	plan := checkoutTargetPlan(&session)

	if err := s.users.SetPlan(ctx, key, plan); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"user_id": key.ID,
			"email":   key.Email,
			"plan":    plan,
		}).WithError(err).Error("Error updating user plan")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": key.ID,
		"email":   key.Email,
		"plan":    plan,
	}).Info("User upgraded")
}

// checkoutLookupKey prefers the userId the checkout endpoint stamped
// into metadata; sessions created outside the API only carry an email.
func checkoutLookupKey(session *stripe.CheckoutSession) user.LookupKey {
	if id := session.Metadata["userId"]; id != "" {
		return user.ByID(id)
	}
	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	if email != "" {
		return user.ByEmail(email)
	}
	return user.LookupKey{}
}

// checkoutTargetPlan resolves the plan a completed session grants.
// Payment-mode sessions correspond to the lifetime deal.
func checkoutTargetPlan(session *stripe.CheckoutSession) string {
	switch session.Metadata["planType"] {
	case user.PlanLifetime:
		return user.PlanLifetime
	case user.PlanPro, CheckoutPlanProMonthly:
		return user.PlanPro
	}
	if session.Mode == stripe.CheckoutSessionModePayment {
		return user.PlanLifetime
	}
	return user.PlanPro
}

func (s *BillingService) handleSubscriptionChanged(ctx context.Context, event stripe.Event) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to parse subscription")
		return
	}

	if sub.Customer == nil || sub.Customer.ID == "" {
		s.logger.Error("No customer ID found in subscription")
		return
	}

	if !shouldDowngrade(sub.Status) {
		return
	}

	if s.sc == nil {
		s.logger.Error("Stripe client not configured, cannot resolve customer email")
		return
	}

	customer, err := s.sc.V1Customers.Retrieve(ctx, sub.Customer.ID, nil)
	if err != nil {
		s.logger.ErrorWithErr(err, "Error retrieving customer from Stripe")
		return
	}
	if customer.Deleted || customer.Email == "" {
		s.logger.WithFields(map[string]interface{}{
			"customer_id": sub.Customer.ID,
		}).Warn("Stripe customer has no usable email")
		return
	}

	if err := s.users.SetPlan(ctx, user.ByEmail(customer.Email), user.PlanFree); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"email": customer.Email,
		}).WithError(err).Error("Error downgrading user plan")
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"email": customer.Email,
	}).Info("User downgraded to free")
}

// shouldDowngrade reports whether a subscription status means the
// customer no longer pays for pro.
func shouldDowngrade(status stripe.SubscriptionStatus) bool {
	switch status {
	case stripe.SubscriptionStatusCanceled,
		stripe.SubscriptionStatusUnpaid,
		stripe.SubscriptionStatusPastDue:
		return true
	}
	return false
}

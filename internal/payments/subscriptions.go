package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

// FindAllPlans returns the merchant's billing plans in the vendor's
// order.
func (s *Service) FindAllPlans(ctx context.Context) (_ *PlansResult, err error) {
	const op = "find_all_plans"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	plans, gwErr := s.gw.ListPlans(ctx)
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return &PlansResult{Success: true, Plans: plans}, nil
}

// CreateSubscription starts billing a vaulted payment method on a plan.
// A fresh subscription reports the Active status.
func (s *Service) CreateSubscription(ctx context.Context, input SubscriptionInput) (_ *SubscriptionResult, err error) {
	const op = "create_subscription"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	// decimal.Zero is numerically zero but not the struct zero value, so
	// omitempty alone would still send it to the amount rule.
	if input.Price.IsZero() {
		input.Price = decimal.Decimal{}
	}
	if err := validate.Struct(input); err != nil {
		return nil, invalidInput(op, err)
	}
	req := gateway.SubscriptionRequest{
		PlanID:             input.PlanID,
		PaymentMethodToken: input.PaymentMethodToken,
	}
	if !input.Price.IsZero() {
		req.Price = input.Price.StringFixed(2)
	}
	sub, gwErr := s.gw.CreateSubscription(ctx, req)
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	s.logger.Info("subscription created",
		"subscription_id", sub.ID, "plan_id", sub.PlanID, "status", sub.Status)
	return &SubscriptionResult{Success: true, Subscription: *sub}, nil
}

// FindSubscription fetches one subscription by id.
func (s *Service) FindSubscription(ctx context.Context, id string) (_ *SubscriptionResult, err error) {
	const op = "find_subscription"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if id == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "subscription id is required"}
	}
	sub, gwErr := s.gw.FindSubscription(ctx, id)
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return &SubscriptionResult{Success: true, Subscription: *sub}, nil
}

// CancelSubscription moves a subscription to Canceled. Canceling one
// that is already canceled succeeds and returns it unchanged; there is
// no path back to Active.
func (s *Service) CancelSubscription(ctx context.Context, id string) (_ *SubscriptionResult, err error) {
	const op = "cancel_subscription"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if id == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "subscription id is required"}
	}
	sub, gwErr := s.gw.CancelSubscription(ctx, id)
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	s.logger.Info("subscription canceled", "subscription_id", sub.ID)
	return &SubscriptionResult{Success: true, Subscription: *sub}, nil
}

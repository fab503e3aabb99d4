package gateway

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// CreateSubscription starts billing a vaulted payment method on a plan.
// New subscriptions come back Active.
func (c *Client) CreateSubscription(ctx context.Context, req SubscriptionRequest) (*Subscription, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.create_subscription")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.plan_id", req.PlanID))

	var sub Subscription
	if err := c.do(ctx, http.MethodPost, c.merchantPath("subscriptions"), req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindSubscription fetches one subscription by id.
func (c *Client) FindSubscription(ctx context.Context, id string) (*Subscription, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.find_subscription")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.subscription_id", id))

	if id == "" {
		return nil, fmt.Errorf("gateway: subscription id is required")
	}
	var sub Subscription
	if err := c.do(ctx, http.MethodGet, c.merchantPath("subscriptions", id), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription stops billing. Canceling an already-canceled
// subscription succeeds and returns the record unchanged.
func (c *Client) CancelSubscription(ctx context.Context, id string) (*Subscription, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.cancel_subscription")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.subscription_id", id))

	if id == "" {
		return nil, fmt.Errorf("gateway: subscription id is required")
	}
	var sub Subscription
	if err := c.do(ctx, http.MethodPost, c.merchantPath("subscriptions", id, "cancel"), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

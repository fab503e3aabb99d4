package gateway

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// CreatePaymentMethod vaults a single-use nonce against an existing
// customer. The nonce is consumed whether or not vaulting succeeds.
func (c *Client) CreatePaymentMethod(ctx context.Context, req PaymentMethodRequest) (*PaymentMethod, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.create_payment_method")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.customer_id", req.CustomerID))

	var method PaymentMethod
	if err := c.do(ctx, http.MethodPost, c.merchantPath("payment_methods"), req, &method); err != nil {
		return nil, err
	}
	return &method, nil
}

// FindPaymentMethod fetches one vaulted payment method by token.
func (c *Client) FindPaymentMethod(ctx context.Context, token string) (*PaymentMethod, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.find_payment_method")
	defer span.End()

	if token == "" {
		return nil, fmt.Errorf("gateway: payment method token is required")
	}
	var method PaymentMethod
	if err := c.do(ctx, http.MethodGet, c.merchantPath("payment_methods", token), nil, &method); err != nil {
		return nil, err
	}
	return &method, nil
}

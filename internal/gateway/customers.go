package gateway

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// CreateCustomer registers a new customer. The vendor rejects an id that
// is already taken with a duplicate error.
func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*Customer, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.create_customer")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.customer_id", req.ID))

	var customer Customer
	if err := c.do(ctx, http.MethodPost, c.merchantPath("customers"), req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindCustomer fetches one customer with its vaulted payment methods.
func (c *Client) FindCustomer(ctx context.Context, id string) (*Customer, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.find_customer")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.customer_id", id))

	if id == "" {
		return nil, fmt.Errorf("gateway: customer id is required")
	}
	var customer Customer
	if err := c.do(ctx, http.MethodGet, c.merchantPath("customers", id), nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer merges the non-empty fields of req into the stored
// record and returns the result.
func (c *Client) UpdateCustomer(ctx context.Context, id string, req CustomerRequest) (*Customer, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.update_customer")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.customer_id", id))

	if id == "" {
		return nil, fmt.Errorf("gateway: customer id is required")
	}
	req.ID = ""
	var customer Customer
	if err := c.do(ctx, http.MethodPut, c.merchantPath("customers", id), req, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes a customer and its payment methods. Deleting an
// unknown id returns the vendor's not-found error.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "vaultpay.delete_customer")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.customer_id", id))

	if id == "" {
		return fmt.Errorf("gateway: customer id is required")
	}
	return c.do(ctx, http.MethodDelete, c.merchantPath("customers", id), nil, nil)
}

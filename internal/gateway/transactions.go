package gateway

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// CreateTransaction authorizes a charge. The vendor responds with the
// canonical two-decimal rendering of the amount and the resulting status.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*Transaction, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.create_transaction")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.amount", req.Amount))

	var txn Transaction
	if err := c.do(ctx, http.MethodPost, c.merchantPath("transactions"), req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// CloneTransaction creates a new transaction under a fresh id reusing the
// source transaction's payment context.
func (c *Client) CloneTransaction(ctx context.Context, id string, req TransactionCloneRequest) (*Transaction, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.clone_transaction")
	defer span.End()
	span.SetAttributes(
		attribute.String("vaultpay.transaction_id", id),
		attribute.String("vaultpay.amount", req.Amount),
	)

	if id == "" {
		return nil, fmt.Errorf("gateway: transaction id is required")
	}
	var txn Transaction
	if err := c.do(ctx, http.MethodPost, c.merchantPath("transactions", id, "clone"), req, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindTransaction fetches one transaction by id.
func (c *Client) FindTransaction(ctx context.Context, id string) (*Transaction, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.find_transaction")
	defer span.End()
	span.SetAttributes(attribute.String("vaultpay.transaction_id", id))

	if id == "" {
		return nil, fmt.Errorf("gateway: transaction id is required")
	}
	var txn Transaction
	if err := c.do(ctx, http.MethodGet, c.merchantPath("transactions", id), nil, &txn); err != nil {
		return nil, err
	}
	return &txn, nil
}

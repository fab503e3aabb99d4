package gateway

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// CreateClientToken asks the vendor for a short-lived token that a browser
// or mobile client uses to initialize its payment form.
func (c *Client) CreateClientToken(ctx context.Context, req ClientTokenRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.create_client_token")
	defer span.End()
	if req.CustomerID != "" {
		span.SetAttributes(attribute.String("vaultpay.customer_id", req.CustomerID))
	}

	var parsed clientTokenResponse
	if err := c.do(ctx, http.MethodPost, c.merchantPath("client_tokens"), req, &parsed); err != nil {
		return "", err
	}
	if parsed.ClientToken == "" {
		return "", fmt.Errorf("gateway: response missing client_token")
	}
	return parsed.ClientToken, nil
}

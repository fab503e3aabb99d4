package gateway

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

// ListPlans fetches every billing plan configured on the merchant
// account, in the vendor's order.
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	ctx, span := c.tracer.Start(ctx, "vaultpay.list_plans")
	defer span.End()

	var parsed planListResponse
	if err := c.do(ctx, http.MethodGet, c.merchantPath("plans"), nil, &parsed); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("vaultpay.plan_count", len(parsed.Plans)))
	return parsed.Plans, nil
}

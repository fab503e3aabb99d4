// Package payments is the caller-facing facade over the Vaultpay
// gateway. Each operation validates its input locally, makes exactly one
// pass at the vendor (no implicit retries) and normalizes the outcome
// into a result envelope or a typed *Error.
package payments

import (
	"context"
	"time"

	"github.com/harborline/vaultpay-go/internal/gateway"
	"github.com/harborline/vaultpay-go/internal/observability/metrics"
	"github.com/harborline/vaultpay-go/pkg/logging"
)

// Gateway is the vendor surface the service needs. *gateway.Client
// implements it; unit tests substitute stubs.
type Gateway interface {
	CreateClientToken(ctx context.Context, req gateway.ClientTokenRequest) (string, error)
	CreateCustomer(ctx context.Context, req gateway.CustomerRequest) (*gateway.Customer, error)
	FindCustomer(ctx context.Context, id string) (*gateway.Customer, error)
	UpdateCustomer(ctx context.Context, id string, req gateway.CustomerRequest) (*gateway.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
	CreatePaymentMethod(ctx context.Context, req gateway.PaymentMethodRequest) (*gateway.PaymentMethod, error)
	FindPaymentMethod(ctx context.Context, token string) (*gateway.PaymentMethod, error)
	CreateTransaction(ctx context.Context, req gateway.TransactionRequest) (*gateway.Transaction, error)
	CloneTransaction(ctx context.Context, id string, req gateway.TransactionCloneRequest) (*gateway.Transaction, error)
	FindTransaction(ctx context.Context, id string) (*gateway.Transaction, error)
	ListPlans(ctx context.Context) ([]gateway.Plan, error)
	CreateSubscription(ctx context.Context, req gateway.SubscriptionRequest) (*gateway.Subscription, error)
	FindSubscription(ctx context.Context, id string) (*gateway.Subscription, error)
	CancelSubscription(ctx context.Context, id string) (*gateway.Subscription, error)
}

// TokenResult wraps a generated client token.
type TokenResult struct {
	Success     bool
	ClientToken string
}

// CustomerResult wraps a customer returned by a successful operation.
type CustomerResult struct {
	Success  bool
	Customer gateway.Customer
}

// PaymentMethodResult wraps a vaulted payment method.
type PaymentMethodResult struct {
	Success       bool
	PaymentMethod gateway.PaymentMethod
}

// TransactionResult wraps a transaction. Success is false when the
// processor declined the charge even though the call itself succeeded.
type TransactionResult struct {
	Success     bool
	Transaction gateway.Transaction
}

// PlansResult wraps the merchant's plan catalog in vendor order.
type PlansResult struct {
	Success bool
	Plans   []gateway.Plan
}

// SubscriptionResult wraps a subscription.
type SubscriptionResult struct {
	Success      bool
	Subscription gateway.Subscription
}

// Service exposes the payment operations callers use. All methods are
// safe for concurrent use.
type Service struct {
	gw      Gateway
	logger  *logging.Logger
	metrics *metrics.GatewayMetrics
}

// NewService wires the facade to a gateway.
func NewService(gw Gateway, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{gw: gw, logger: logger.Component("payments")}
}

// WithMetrics attaches operation counters. Without it the service runs
// unmetered.
func (s *Service) WithMetrics(m *metrics.GatewayMetrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.ObserveOperation(op, result, time.Since(start).Seconds())
}

// GenerateClientToken returns a token for initializing a client-side
// payment form. customerID may be empty for an unscoped token.
func (s *Service) GenerateClientToken(ctx context.Context, customerID string) (_ *TokenResult, err error) {
	const op = "generate_client_token"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	token, gwErr := s.gw.CreateClientToken(ctx, gateway.ClientTokenRequest{CustomerID: customerID})
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return &TokenResult{Success: true, ClientToken: token}, nil
}

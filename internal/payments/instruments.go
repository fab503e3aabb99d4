package payments

import (
	"context"
	"time"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

// CreatePaymentMethod exchanges a single-use nonce for a durable token
// vaulted against the customer. The nonce cannot be used again.
func (s *Service) CreatePaymentMethod(ctx context.Context, input PaymentMethodInput) (_ *PaymentMethodResult, err error) {
	const op = "create_payment_method"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if err := validate.Struct(input); err != nil {
		return nil, invalidInput(op, err)
	}
	method, gwErr := s.gw.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
		CustomerID:         input.CustomerID,
		PaymentMethodNonce: input.PaymentMethodNonce,
		MakeDefault:        input.MakeDefault,
	})
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	s.logger.Info("payment method vaulted",
		"customer_id", method.CustomerID, "token", method.Token, "card_type", method.CardType)
	return &PaymentMethodResult{Success: true, PaymentMethod: *method}, nil
}

// FindPaymentMethod fetches a vaulted payment method by its token.
func (s *Service) FindPaymentMethod(ctx context.Context, token string) (_ *PaymentMethodResult, err error) {
	const op = "find_payment_method"
	start := time.Now()
	defer func() { s.observe(op, start, err) }()

	if token == "" {
		return nil, &Error{Type: ErrValidation, Op: op, Message: "payment method token is required"}
	}
	method, gwErr := s.gw.FindPaymentMethod(ctx, token)
	if gwErr != nil {
		return nil, classify(op, gwErr)
	}
	return &PaymentMethodResult{Success: true, PaymentMethod: *method}, nil
}

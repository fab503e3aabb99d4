package payments

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

var validate = newValidator()

// newValidator registers the "amount" rule: a positive decimal with at
// most two fraction digits, the only amount shape the vendor accepts.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		amount, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && amount.IsPositive() && amount.Exponent() >= -2
	})
	return v
}

// CustomerInput is the caller-facing shape for creating a customer. A
// nonce, when present, vaults a payment method in the same call.
type CustomerInput struct {
	ID                 string `validate:"required"`
	FirstName          string
	LastName           string
	Company            string
	Email              string `validate:"omitempty,email"`
	Phone              string
	PaymentMethodNonce string
}

// CustomerPatch carries partial updates; zero fields are left unchanged.
type CustomerPatch struct {
	FirstName          string
	LastName           string
	Company            string
	Email              string `validate:"omitempty,email"`
	Phone              string
	PaymentMethodNonce string
}

// TransactionInput describes a new charge from a single-use nonce or a
// vaulted token.
type TransactionInput struct {
	Amount              decimal.Decimal `validate:"amount"`
	PaymentMethodNonce  string          `validate:"required_without=PaymentMethodToken"`
	PaymentMethodToken  string          `validate:"required_without=PaymentMethodNonce"`
	CustomerID          string
	OrderID             string
	SubmitForSettlement bool
}

// PaymentMethodInput vaults a single-use nonce against a customer.
type PaymentMethodInput struct {
	CustomerID         string `validate:"required"`
	PaymentMethodNonce string `validate:"required"`
	MakeDefault        bool
}

// SubscriptionInput starts billing a vaulted token on a plan. A zero
// Price means the plan's own price.
type SubscriptionInput struct {
	PlanID             string          `validate:"required"`
	PaymentMethodToken string          `validate:"required"`
	Price              decimal.Decimal `validate:"omitempty,amount"`
}

func customerRequest(input CustomerInput) gateway.CustomerRequest {
	return gateway.CustomerRequest{
		ID:                 input.ID,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Company:            input.Company,
		Email:              input.Email,
		Phone:              input.Phone,
		PaymentMethodNonce: input.PaymentMethodNonce,
	}
}

func patchRequest(patch CustomerPatch) gateway.CustomerRequest {
	return gateway.CustomerRequest{
		FirstName:          patch.FirstName,
		LastName:           patch.LastName,
		Company:            patch.Company,
		Email:              patch.Email,
		Phone:              patch.Phone,
		PaymentMethodNonce: patch.PaymentMethodNonce,
	}
}

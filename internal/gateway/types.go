package gateway

import "time"

// Transaction statuses reported by the vendor.
const (
	TransactionStatusAuthorized             = "authorized"
	TransactionStatusSubmittedForSettlement = "submitted_for_settlement"
	TransactionStatusProcessorDeclined      = "processor_declined"
)

// Subscription statuses reported by the vendor.
const (
	SubscriptionStatusActive   = "Active"
	SubscriptionStatusCanceled = "Canceled"
	SubscriptionStatusPastDue  = "Past Due"
)

// Customer is the vendor's customer record.
type Customer struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"first_name,omitempty"`
	LastName       string          `json:"last_name,omitempty"`
	Company        string          `json:"company,omitempty"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	PaymentMethods []PaymentMethod `json:"payment_methods,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CustomerRequest is the create payload for a customer. On update the
// vendor merges non-empty fields into the stored record.
type CustomerRequest struct {
	ID                 string `json:"id,omitempty"`
	FirstName          string `json:"first_name,omitempty"`
	LastName           string `json:"last_name,omitempty"`
	Company            string `json:"company,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	PaymentMethodNonce string `json:"payment_method_nonce,omitempty"`
}

// PaymentMethod is a vaulted, chargeable instrument owned by one customer.
type PaymentMethod struct {
	Token           string    `json:"token"`
	CustomerID      string    `json:"customer_id"`
	CardType        string    `json:"card_type,omitempty"`
	Last4           string    `json:"last_4,omitempty"`
	ExpirationMonth string    `json:"expiration_month,omitempty"`
	ExpirationYear  string    `json:"expiration_year,omitempty"`
	Default         bool      `json:"default"`
	CreatedAt       time.Time `json:"created_at"`
}

// PaymentMethodRequest exchanges a single-use nonce for a vaulted token.
type PaymentMethodRequest struct {
	CustomerID         string `json:"customer_id"`
	PaymentMethodNonce string `json:"payment_method_nonce"`
	MakeDefault        bool   `json:"make_default,omitempty"`
}

// Transaction is a charge. Amounts are decimal strings with exactly two
// fraction digits, the vendor's canonical rendering.
type Transaction struct {
	ID                    string    `json:"id"`
	Amount                string    `json:"amount"`
	CurrencyISOCode       string    `json:"currency_iso_code"`
	Status                string    `json:"status"`
	CustomerID            string    `json:"customer_id,omitempty"`
	PaymentMethodToken    string    `json:"payment_method_token,omitempty"`
	CardType              string    `json:"card_type,omitempty"`
	Last4                 string    `json:"last_4,omitempty"`
	OrderID               string    `json:"order_id,omitempty"`
	ProcessorResponseCode string    `json:"processor_response_code,omitempty"`
	ProcessorResponseText string    `json:"processor_response_text,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

// TransactionRequest authorizes a new charge from either a single-use
// nonce or a vaulted token.
type TransactionRequest struct {
	Amount              string `json:"amount"`
	PaymentMethodNonce  string `json:"payment_method_nonce,omitempty"`
	PaymentMethodToken  string `json:"payment_method_token,omitempty"`
	CustomerID          string `json:"customer_id,omitempty"`
	OrderID             string `json:"order_id,omitempty"`
	SubmitForSettlement bool   `json:"submit_for_settlement,omitempty"`
}

// TransactionCloneRequest re-runs an existing transaction's payment
// context under a new amount.
type TransactionCloneRequest struct {
	Amount              string `json:"amount"`
	SubmitForSettlement bool   `json:"submit_for_settlement,omitempty"`
}

// Plan is a recurring-billing template configured on the merchant account.
type Plan struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	Price             string `json:"price"`
	CurrencyISOCode   string `json:"currency_iso_code"`
	BillingFrequency  int    `json:"billing_frequency"`
	TrialPeriod       bool   `json:"trial_period"`
	TrialDuration     int    `json:"trial_duration,omitempty"`
	TrialDurationUnit string `json:"trial_duration_unit,omitempty"`
}

// Subscription bills a vaulted payment method on a plan's schedule.
type Subscription struct {
	ID                     string    `json:"id"`
	PlanID                 string    `json:"plan_id"`
	PaymentMethodToken     string    `json:"payment_method_token"`
	Status                 string    `json:"status"`
	Price                  string    `json:"price"`
	BillingPeriodStartDate string    `json:"billing_period_start_date,omitempty"`
	BillingPeriodEndDate   string    `json:"billing_period_end_date,omitempty"`
	CreatedAt              time.Time `json:"created_at"`
}

// SubscriptionRequest starts billing a vaulted payment method on a plan.
type SubscriptionRequest struct {
	PlanID             string `json:"plan_id"`
	PaymentMethodToken string `json:"payment_method_token"`
	Price              string `json:"price,omitempty"` // overrides the plan price
}

// ClientTokenRequest optionally scopes a generated token to a customer.
type ClientTokenRequest struct {
	CustomerID string `json:"customer_id,omitempty"`
}

// clientTokenResponse is the subset of the vendor response we need.
type clientTokenResponse struct {
	ClientToken string `json:"client_token"`
}

// planListResponse wraps the vendor's plan collection.
type planListResponse struct {
	Plans []Plan `json:"plans"`
}

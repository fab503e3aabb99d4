// Package gatewaytest runs an in-memory Vaultpay lookalike for offline
// tests and demos. It speaks the hosted sandbox's routes, auth scheme and
// error envelope while keeping every record in process memory.
//
// The fake is gated by ALLOW_FAKE_GATEWAY and must never be pointed at
// by production configuration; config.Validate enforces that.
package gatewaytest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborline/vaultpay-go/internal/gateway"
)

// Credentials the fake accepts.
const (
	MerchantID = "sandbox_merchant"
	PublicKey  = "sandbox_public"
	PrivateKey = "sandbox_private"
)

// Well-known nonces mirroring the hosted sandbox. The fake-* constants are
// replayable; nonces minted with MintNonce burn on first use.
const (
	NonceValid             = "fake-valid-nonce"
	NonceValidVisa         = "fake-valid-visa-nonce"
	NonceValidMastercard   = "fake-valid-mastercard-nonce"
	NonceConsumed          = "fake-consumed-nonce"
	NonceProcessorDeclined = "fake-processor-declined-visa-nonce"
	NonceLuhnInvalid       = "fake-luhn-invalid-nonce"
)

// Server is an http.Handler implementing the merchant-scoped Vaultpay API.
type Server struct {
	latency time.Duration
	handler http.Handler

	mu             sync.Mutex
	customers      map[string]*gateway.Customer
	paymentMethods map[string]*gateway.PaymentMethod
	methodOrder    map[string][]string // customer id -> tokens in vaulting order
	transactions   map[string]*gateway.Transaction
	subscriptions  map[string]*gateway.Subscription
	plans          []gateway.Plan
	mintedNonces   map[string]bool // false once consumed
}

// Option tweaks a Server under construction.
type Option func(*Server)

// WithLatency delays every response, for exercising caller timeouts.
func WithLatency(d time.Duration) Option {
	return func(s *Server) { s.latency = d }
}

// WithPlans replaces the default plan catalog.
func WithPlans(plans []gateway.Plan) Option {
	return func(s *Server) { s.plans = plans }
}

// New builds a fake with a small default plan catalog and no stored
// records.
func New(opts ...Option) *Server {
	s := &Server{
		customers:      make(map[string]*gateway.Customer),
		paymentMethods: make(map[string]*gateway.PaymentMethod),
		methodOrder:    make(map[string][]string),
		transactions:   make(map[string]*gateway.Transaction),
		subscriptions:  make(map[string]*gateway.Subscription),
		mintedNonces:   make(map[string]bool),
		plans: []gateway.Plan{
			{ID: "starter-monthly", Name: "Starter (Monthly)", Price: "9.99", CurrencyISOCode: "USD", BillingFrequency: 1},
			{ID: "pro-annual", Name: "Pro (Annual)", Price: "199.00", CurrencyISOCode: "USD", BillingFrequency: 12, TrialPeriod: true, TrialDuration: 14, TrialDurationUnit: "day"},
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Route("/v1/merchants/{merchantID}", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/client_tokens", s.createClientToken)
		r.Post("/customers", s.createCustomer)
		r.Get("/customers/{customerID}", s.findCustomer)
		r.Put("/customers/{customerID}", s.updateCustomer)
		r.Delete("/customers/{customerID}", s.deleteCustomer)
		r.Post("/payment_methods", s.createPaymentMethod)
		r.Get("/payment_methods/{token}", s.findPaymentMethod)
		r.Post("/transactions", s.createTransaction)
		r.Get("/transactions/{transactionID}", s.findTransaction)
		r.Post("/transactions/{transactionID}/clone", s.cloneTransaction)
		r.Get("/plans", s.listPlans)
		r.Post("/subscriptions", s.createSubscription)
		r.Get("/subscriptions/{subscriptionID}", s.findSubscription)
		r.Post("/subscriptions/{subscriptionID}/cancel", s.cancelSubscription)
	})
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "no route for %s %s", req.Method, req.URL.Path)
	})
	s.handler = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-r.Context().Done():
			return
		}
	}
	s.handler.ServeHTTP(w, r)
}

// MintNonce registers a fresh single-use nonce, standing in for the
// client-side tokenization that produces one in production.
func (s *Server) MintNonce() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	nonce := "tok_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.mintedNonces[nonce] = true
	return nonce
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != PublicKey || pass != PrivateKey {
			writeError(w, http.StatusUnauthorized, gateway.ErrorTypeAuthentication, "invalid api keys")
			return
		}
		if got := chi.URLParam(r, "merchantID"); got != MerchantID {
			writeError(w, http.StatusUnauthorized, gateway.ErrorTypeAuthentication, "merchant %s not recognized", got)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createClientToken(w http.ResponseWriter, r *http.Request) {
	var req gateway.ClientTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.CustomerID != "" {
		if _, ok := s.customers[req.CustomerID]; !ok {
			writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "customer %s not found", req.CustomerID)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"client_token": "vpct_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	})
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req gateway.CustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := req.ID
	if id == "" {
		id = newID("cust")
	}
	if _, ok := s.customers[id]; ok {
		writeError(w, http.StatusConflict, gateway.ErrorTypeDuplicate, "customer id %s is already taken", id)
		return
	}

	now := time.Now().UTC()
	customer := &gateway.Customer{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.PaymentMethodNonce != "" {
		card, ferr := s.redeemNonce(req.PaymentMethodNonce)
		if ferr != nil {
			ferr.write(w)
			return
		}
		s.vaultCard(id, card, false)
	}

	s.customers[id] = customer
	writeJSON(w, http.StatusCreated, s.customerView(customer))
}

func (s *Server) findCustomer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "customerID")
	customer, ok := s.customers[id]
	if !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "customer %s not found", id)
		return
	}
	writeJSON(w, http.StatusOK, s.customerView(customer))
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req gateway.CustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "customerID")
	customer, ok := s.customers[id]
	if !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "customer %s not found", id)
		return
	}

	if req.FirstName != "" {
		customer.FirstName = req.FirstName
	}
	if req.LastName != "" {
		customer.LastName = req.LastName
	}
	if req.Company != "" {
		customer.Company = req.Company
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.PaymentMethodNonce != "" {
		card, ferr := s.redeemNonce(req.PaymentMethodNonce)
		if ferr != nil {
			ferr.write(w)
			return
		}
		s.vaultCard(id, card, false)
	}
	customer.UpdatedAt = time.Now().UTC()

	writeJSON(w, http.StatusOK, s.customerView(customer))
}

func (s *Server) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "customerID")
	if _, ok := s.customers[id]; !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "customer %s not found", id)
		return
	}
	for _, token := range s.methodOrder[id] {
		delete(s.paymentMethods, token)
	}
	delete(s.methodOrder, id)
	delete(s.customers, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req gateway.PaymentMethodRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[req.CustomerID]; !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "customer %s not found", req.CustomerID)
		return
	}
	card, ferr := s.redeemNonce(req.PaymentMethodNonce)
	if ferr != nil {
		ferr.write(w)
		return
	}
	method := s.vaultCard(req.CustomerID, card, req.MakeDefault)
	writeJSON(w, http.StatusCreated, method)
}

func (s *Server) findPaymentMethod(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := chi.URLParam(r, "token")
	method, ok := s.paymentMethods[token]
	if !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "payment method %s not found", token)
		return
	}
	writeJSON(w, http.StatusOK, method)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req gateway.TransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, ferr := parseAmount(req.Amount)
	if ferr != nil {
		ferr.write(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var card cardMeta
	var customerID, token string
	switch {
	case req.PaymentMethodNonce != "":
		c, ferr := s.redeemNonce(req.PaymentMethodNonce)
		if ferr != nil {
			ferr.write(w)
			return
		}
		card = c
		customerID = req.CustomerID
	case req.PaymentMethodToken != "":
		method, ok := s.paymentMethods[req.PaymentMethodToken]
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "unknown payment method token %s", req.PaymentMethodToken)
			return
		}
		card = cardMeta{cardType: method.CardType, last4: method.Last4}
		customerID = method.CustomerID
		token = method.Token
	default:
		writeError(w, http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "either payment_method_nonce or payment_method_token is required")
		return
	}

	txn := &gateway.Transaction{
		ID:                 newID("txn"),
		Amount:             amount.StringFixed(2),
		CurrencyISOCode:    "USD",
		Status:             gateway.TransactionStatusAuthorized,
		CustomerID:         customerID,
		PaymentMethodToken: token,
		CardType:           card.cardType,
		Last4:              card.last4,
		OrderID:            req.OrderID,
		CreatedAt:          time.Now().UTC(),
	}
	if req.SubmitForSettlement {
		txn.Status = gateway.TransactionStatusSubmittedForSettlement
	}
	if card.declined {
		txn.Status = gateway.TransactionStatusProcessorDeclined
		txn.ProcessorResponseCode = "2000"
		txn.ProcessorResponseText = "Do Not Honor"
	}
	s.transactions[txn.ID] = txn
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) findTransaction(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "transactionID")
	txn, ok := s.transactions[id]
	if !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "transaction %s not found", id)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}

func (s *Server) cloneTransaction(w http.ResponseWriter, r *http.Request) {
	var req gateway.TransactionCloneRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, ferr := parseAmount(req.Amount)
	if ferr != nil {
		ferr.write(w)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "transactionID")
	src, ok := s.transactions[id]
	if !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "transaction %s not found", id)
		return
	}

	clone := *src
	clone.ID = newID("txn")
	clone.Amount = amount.StringFixed(2)
	clone.Status = gateway.TransactionStatusAuthorized
	if req.SubmitForSettlement {
		clone.Status = gateway.TransactionStatusSubmittedForSettlement
	}
	clone.ProcessorResponseCode = ""
	clone.ProcessorResponseText = ""
	clone.CreatedAt = time.Now().UTC()
	s.transactions[clone.ID] = &clone
	writeJSON(w, http.StatusCreated, &clone)
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string][]gateway.Plan{"plans": s.plans})
}

func (s *Server) createSubscription(w http.ResponseWriter, r *http.Request) {
	var req gateway.SubscriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var plan *gateway.Plan
	for i := range s.plans {
		if s.plans[i].ID == req.PlanID {
			plan = &s.plans[i]
			break
		}
	}
	if plan == nil {
		writeError(w, http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "plan %s not found", req.PlanID)
		return
	}
	method, ok := s.paymentMethods[req.PaymentMethodToken]
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "unknown payment method token %s", req.PaymentMethodToken)
		return
	}

	price := req.Price
	if price == "" {
		price = plan.Price
	}
	amount, ferr := parseAmount(price)
	if ferr != nil {
		ferr.write(w)
		return
	}

	now := time.Now().UTC()
	sub := &gateway.Subscription{
		ID:                     newID("sub"),
		PlanID:                 plan.ID,
		PaymentMethodToken:     method.Token,
		Status:                 gateway.SubscriptionStatusActive,
		Price:                  amount.StringFixed(2),
		BillingPeriodStartDate: now.Format("2006-01-02"),
		BillingPeriodEndDate:   now.AddDate(0, plan.BillingFrequency, 0).Format("2006-01-02"),
		CreatedAt:              now,
	}
	s.subscriptions[sub.ID] = sub
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) findSubscription(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "subscriptionID")
	sub, ok := s.subscriptions[id]
	if !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "subscription %s not found", id)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "subscriptionID")
	sub, ok := s.subscriptions[id]
	if !ok {
		writeError(w, http.StatusNotFound, gateway.ErrorTypeNotFound, "subscription %s not found", id)
		return
	}
	// Canceling twice is a no-op, not an error.
	sub.Status = gateway.SubscriptionStatusCanceled
	writeJSON(w, http.StatusOK, sub)
}

// cardMeta is what redeeming a nonce reveals about the tokenized card.
type cardMeta struct {
	cardType string
	last4    string
	declined bool
}

// redeemNonce exchanges a nonce for card details. Callers must hold mu.
func (s *Server) redeemNonce(nonce string) (cardMeta, *fakeErr) {
	switch nonce {
	case "":
		return cardMeta{}, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "payment_method_nonce is required"}
	case NonceConsumed:
		return cardMeta{}, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "payment method nonce has already been consumed"}
	case NonceLuhnInvalid:
		return cardMeta{}, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "credit card number failed the luhn checksum"}
	case NonceValid, NonceValidVisa:
		return cardMeta{cardType: "Visa", last4: "1881"}, nil
	case NonceValidMastercard:
		return cardMeta{cardType: "Mastercard", last4: "4444"}, nil
	case NonceProcessorDeclined:
		return cardMeta{cardType: "Visa", last4: "0004", declined: true}, nil
	}
	if live, ok := s.mintedNonces[nonce]; ok {
		if !live {
			return cardMeta{}, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "payment method nonce has already been consumed"}
		}
		s.mintedNonces[nonce] = false
		return cardMeta{cardType: "Visa", last4: "1881"}, nil
	}
	return cardMeta{}, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "unknown payment method nonce"}
}

// vaultCard stores a new payment method. The first method a customer
// vaults becomes the default. Callers must hold mu.
func (s *Server) vaultCard(customerID string, card cardMeta, makeDefault bool) *gateway.PaymentMethod {
	method := &gateway.PaymentMethod{
		Token:           newID("vpm"),
		CustomerID:      customerID,
		CardType:        card.cardType,
		Last4:           card.last4,
		ExpirationMonth: "12",
		ExpirationYear:  fmt.Sprintf("%d", time.Now().Year()+3),
		CreatedAt:       time.Now().UTC(),
	}
	existing := s.methodOrder[customerID]
	if len(existing) == 0 || makeDefault {
		for _, token := range existing {
			s.paymentMethods[token].Default = false
		}
		method.Default = true
	}
	s.paymentMethods[method.Token] = method
	s.methodOrder[customerID] = append(existing, method.Token)
	return method
}

// customerView renders a customer with payment methods in vaulting order.
// Callers must hold mu.
func (s *Server) customerView(c *gateway.Customer) gateway.Customer {
	view := *c
	view.PaymentMethods = nil
	for _, token := range s.methodOrder[c.ID] {
		view.PaymentMethods = append(view.PaymentMethods, *s.paymentMethods[token])
	}
	return view
}

// fakeErr carries an error envelope before it is written.
type fakeErr struct {
	status  int
	typ     string
	message string
}

func (e *fakeErr) write(w http.ResponseWriter) {
	writeError(w, e.status, e.typ, "%s", e.message)
}

func parseAmount(raw string) (decimal.Decimal, *fakeErr) {
	if raw == "" {
		return decimal.Zero, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "amount is required"}
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, fmt.Sprintf("amount %q is not a decimal", raw)}
	}
	if !amount.IsPositive() {
		return decimal.Zero, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "amount must be greater than zero"}
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, &fakeErr{http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "amount has more than two decimal places"}
	}
	return amount, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusUnprocessableEntity, gateway.ErrorTypeValidation, "malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, typ, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"type": typ, "message": fmt.Sprintf(format, args...)},
	})
}

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/harborline/vaultpay-go/internal/config"
	"github.com/harborline/vaultpay-go/internal/fixtures"
	"github.com/harborline/vaultpay-go/internal/gateway"
	"github.com/harborline/vaultpay-go/internal/gatewaytest"
	"github.com/harborline/vaultpay-go/internal/observability/metrics"
	"github.com/harborline/vaultpay-go/internal/payments"
	"github.com/harborline/vaultpay-go/pkg/logging"
)

// vaultpay-smoke walks every facade operation once, against the in-memory
// fake by default (ALLOW_FAKE_GATEWAY=true) or the hosted sandbox when
// credentials are configured.
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	banner := strings.Repeat("=", 60)
	fmt.Println(banner)
	fmt.Println("Vaultpay Facade Smoke Test")
	fmt.Println(banner)

	// Validate gates both paths: it rejects the fake gateway outside of
	// sandbox and missing credentials on the live one.
	if err := cfg.Validate(); err != nil {
		if cfg.AllowFakeGateway {
			log.Fatalf("%v", err)
		}
		log.Fatalf("%v (set ALLOW_FAKE_GATEWAY=true to run offline)", err)
	}

	var client *gateway.Client
	if cfg.AllowFakeGateway {
		fake := gatewaytest.New()
		srv := httptest.NewServer(fake)
		defer srv.Close()
		client = gateway.New(gateway.Config{
			MerchantID: gatewaytest.MerchantID,
			PublicKey:  gatewaytest.PublicKey,
			PrivateKey: gatewaytest.PrivateKey,
			Logger:     logger,
		}).WithBaseURL(srv.URL)
		fmt.Printf("\nGateway: in-memory fake at %s\n", srv.URL)
	} else {
		client = gateway.New(gateway.Config{
			Environment: cfg.Environment,
			MerchantID:  cfg.MerchantID,
			PublicKey:   cfg.PublicKey,
			PrivateKey:  cfg.PrivateKey,
			Timeout:     cfg.Timeout,
			Logger:      logger,
		})
		if cfg.BaseURL != "" {
			client = client.WithBaseURL(cfg.BaseURL)
		}
		fmt.Printf("\nGateway: %s environment\n", cfg.Environment)
	}

	svc := payments.NewService(client, logger).WithMetrics(metrics.NewGatewayMetrics(nil))

	set, err := fixtures.Sandbox()
	if err != nil {
		log.Fatalf("fixtures: %v", err)
	}

	fmt.Println("\n[1] Generating client token...")
	token, err := svc.GenerateClientToken(ctx, "")
	if err != nil {
		log.Fatalf("    client token: %v", err)
	}
	fmt.Printf("    token %s...\n", token.ClientToken[:12])

	customerID := "smoke-" + uuid.NewString()[:8]
	fmt.Printf("\n[2] Creating customer %s with a vaulted card...\n", customerID)
	created, err := svc.CreateCustomer(ctx, payments.CustomerInput{
		ID:                 customerID,
		FirstName:          "Smoke",
		LastName:           "Runner",
		Email:              "smoke@example.com",
		PaymentMethodNonce: set.Nonces.ValidVisa,
	})
	if err != nil {
		log.Fatalf("    create customer: %v", err)
	}
	card := created.Customer.PaymentMethods[0]
	fmt.Printf("    vaulted %s ending %s (token %s)\n", card.CardType, card.Last4, card.Token)

	fmt.Println("\n[3] Finding the customer back...")
	found, err := svc.FindCustomer(ctx, customerID)
	if err != nil {
		log.Fatalf("    find customer: %v", err)
	}
	fmt.Printf("    %s %s <%s>\n", found.Customer.FirstName, found.Customer.LastName, found.Customer.Email)

	fmt.Println("\n[4] Vaulting a second card as the default...")
	second, err := svc.CreatePaymentMethod(ctx, payments.PaymentMethodInput{
		CustomerID:         customerID,
		PaymentMethodNonce: set.Nonces.ValidMastercard,
		MakeDefault:        true,
	})
	if err != nil {
		log.Fatalf("    vault card: %v", err)
	}
	fmt.Printf("    %s ending %s, default=%t\n", second.PaymentMethod.CardType, second.PaymentMethod.Last4, second.PaymentMethod.Default)

	fmt.Printf("\n[5] Charging %s and submitting for settlement...\n", set.Amounts.Charge)
	charge, err := svc.CreateTransaction(ctx, payments.TransactionInput{
		Amount:              decimal.RequireFromString(set.Amounts.Charge),
		PaymentMethodToken:  card.Token,
		SubmitForSettlement: true,
	})
	if err != nil {
		log.Fatalf("    charge: %v", err)
	}
	fmt.Printf("    %s %s %s (%s)\n", charge.Transaction.ID, charge.Transaction.Amount, charge.Transaction.CurrencyISOCode, charge.Transaction.Status)

	fmt.Printf("\n[6] Cloning it at %s...\n", set.Amounts.Clone)
	clone, err := svc.CloneTransaction(ctx, charge.Transaction.ID, decimal.RequireFromString(set.Amounts.Clone))
	if err != nil {
		log.Fatalf("    clone: %v", err)
	}
	fmt.Printf("    %s %s (%s)\n", clone.Transaction.ID, clone.Transaction.Amount, clone.Transaction.Status)

	fmt.Println("\n[7] Forcing a processor decline...")
	declined, err := svc.CreateTransaction(ctx, payments.TransactionInput{
		Amount:             decimal.RequireFromString(set.Amounts.Charge),
		PaymentMethodNonce: set.Nonces.ProcessorDeclined,
	})
	if err != nil {
		log.Fatalf("    decline: %v", err)
	}
	if declined.Success {
		log.Fatalf("    decline unexpectedly succeeded: %+v", declined.Transaction)
	}
	fmt.Printf("    declined as expected: %s %s\n", declined.Transaction.ProcessorResponseCode, declined.Transaction.ProcessorResponseText)

	fmt.Println("\n[8] Listing plans...")
	plans, err := svc.FindAllPlans(ctx)
	if err != nil {
		log.Fatalf("    plans: %v", err)
	}
	for _, plan := range plans.Plans {
		fmt.Printf("    %s: %s %s every %d month(s)\n", plan.ID, plan.Price, plan.CurrencyISOCode, plan.BillingFrequency)
	}
	if len(plans.Plans) == 0 {
		log.Fatalf("    no plans configured on the merchant account")
	}

	fmt.Printf("\n[9] Subscribing to %s and canceling...\n", plans.Plans[0].ID)
	sub, err := svc.CreateSubscription(ctx, payments.SubscriptionInput{
		PlanID:             plans.Plans[0].ID,
		PaymentMethodToken: card.Token,
	})
	if err != nil {
		log.Fatalf("    subscribe: %v", err)
	}
	fmt.Printf("    %s status %s price %s\n", sub.Subscription.ID, sub.Subscription.Status, sub.Subscription.Price)
	canceled, err := svc.CancelSubscription(ctx, sub.Subscription.ID)
	if err != nil {
		log.Fatalf("    cancel: %v", err)
	}
	fmt.Printf("    now %s\n", canceled.Subscription.Status)

	fmt.Println("\n[10] Cleaning up...")
	if err := svc.DeleteCustomer(ctx, customerID); err != nil {
		log.Fatalf("    delete customer: %v", err)
	}
	fmt.Printf("    customer %s deleted\n", customerID)

	fmt.Println("\n" + banner)
	fmt.Println("Operation counts")
	fmt.Println(banner)
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		log.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "vaultpay_gateway_operations_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			var operation, result string
			for _, label := range metric.GetLabel() {
				switch label.GetName() {
				case "operation":
					operation = label.GetValue()
				case "result":
					result = label.GetValue()
				}
			}
			fmt.Printf("  %-24s %-6s %.0f\n", operation, result, metric.GetCounter().GetValue())
		}
	}
	fmt.Println("\nAll operations completed.")
}

package gatewaytest_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/vaultpay-go/internal/gateway"
	"github.com/harborline/vaultpay-go/internal/gatewaytest"
	"github.com/harborline/vaultpay-go/pkg/logging"
)

func quietLogger() *logging.Logger {
	return logging.NewWithWriter(io.Discard, "error")
}

func newFake(t *testing.T, opts ...gatewaytest.Option) (*gateway.Client, *gatewaytest.Server) {
	t.Helper()
	fake := gatewaytest.New(opts...)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client := gateway.New(gateway.Config{
		MerchantID: gatewaytest.MerchantID,
		PublicKey:  gatewaytest.PublicKey,
		PrivateKey: gatewaytest.PrivateKey,
		Logger:     quietLogger(),
	}).WithBaseURL(srv.URL)
	return client, fake
}

func TestRejectsBadCredentials(t *testing.T) {
	srv := httptest.NewServer(gatewaytest.New())
	t.Cleanup(srv.Close)

	client := gateway.New(gateway.Config{
		MerchantID: gatewaytest.MerchantID,
		PublicKey:  "pub_wrong",
		PrivateKey: "prv_wrong",
		Logger:     quietLogger(),
	}).WithBaseURL(srv.URL)

	_, err := client.ListPlans(context.Background())

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, gateway.ErrorTypeAuthentication, apiErr.Type)
}

func TestRejectsUnknownMerchant(t *testing.T) {
	srv := httptest.NewServer(gatewaytest.New())
	t.Cleanup(srv.Close)

	client := gateway.New(gateway.Config{
		MerchantID: "someone_else",
		PublicKey:  gatewaytest.PublicKey,
		PrivateKey: gatewaytest.PrivateKey,
		Logger:     quietLogger(),
	}).WithBaseURL(srv.URL)

	_, err := client.ListPlans(context.Background())

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, gateway.ErrorTypeAuthentication, apiErr.Type)
}

func TestDuplicateCustomerID(t *testing.T) {
	client, _ := newFake(t)
	ctx := context.Background()

	_, err := client.CreateCustomer(ctx, gateway.CustomerRequest{ID: "c1"})
	require.NoError(t, err)

	_, err = client.CreateCustomer(ctx, gateway.CustomerRequest{ID: "c1"})

	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, gateway.ErrorTypeDuplicate, apiErr.Type)
}

func TestCreateCustomerWithNonceVaultsCard(t *testing.T) {
	client, _ := newFake(t)

	customer, err := client.CreateCustomer(context.Background(), gateway.CustomerRequest{
		ID:                 "c1",
		FirstName:          "Jen",
		PaymentMethodNonce: gatewaytest.NonceValidMastercard,
	})
	require.NoError(t, err)
	require.Len(t, customer.PaymentMethods, 1)
	assert.NotEmpty(t, customer.PaymentMethods[0].Token)
	assert.Equal(t, "Mastercard", customer.PaymentMethods[0].CardType)
	assert.True(t, customer.PaymentMethods[0].Default)
}

func TestNonceSemantics(t *testing.T) {
	client, fake := newFake(t)
	ctx := context.Background()

	_, err := client.CreateCustomer(ctx, gateway.CustomerRequest{ID: "c1"})
	require.NoError(t, err)

	t.Run("consumed nonce rejected", func(t *testing.T) {
		_, err := client.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
			CustomerID:         "c1",
			PaymentMethodNonce: gatewaytest.NonceConsumed,
		})
		var apiErr *gateway.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, gateway.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("luhn invalid rejected", func(t *testing.T) {
		_, err := client.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
			CustomerID:         "c1",
			PaymentMethodNonce: gatewaytest.NonceLuhnInvalid,
		})
		var apiErr *gateway.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, gateway.ErrorTypeValidation, apiErr.Type)
	})

	t.Run("minted nonce burns on first use", func(t *testing.T) {
		nonce := fake.MintNonce()

		_, err := client.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
			CustomerID:         "c1",
			PaymentMethodNonce: nonce,
		})
		require.NoError(t, err)

		_, err = client.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
			CustomerID:         "c1",
			PaymentMethodNonce: nonce,
		})
		var apiErr *gateway.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, gateway.ErrorTypeValidation, apiErr.Type)
		assert.Contains(t, apiErr.Message, "consumed")
	})

	t.Run("well-known nonces replay like the hosted sandbox", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := client.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
				CustomerID:         "c1",
				PaymentMethodNonce: gatewaytest.NonceValid,
			})
			require.NoError(t, err)
		}
	})
}

func TestProcessorDeclineSurfacesOnTransaction(t *testing.T) {
	client, _ := newFake(t)

	txn, err := client.CreateTransaction(context.Background(), gateway.TransactionRequest{
		Amount:             "10.00",
		PaymentMethodNonce: gatewaytest.NonceProcessorDeclined,
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.TransactionStatusProcessorDeclined, txn.Status)
	assert.Equal(t, "2000", txn.ProcessorResponseCode)
	assert.Equal(t, "Do Not Honor", txn.ProcessorResponseText)
}

func TestAmountValidation(t *testing.T) {
	client, _ := newFake(t)
	ctx := context.Background()

	for _, amount := range []string{"", "0", "-5.00", "12.345", "abc"} {
		_, err := client.CreateTransaction(ctx, gateway.TransactionRequest{
			Amount:             amount,
			PaymentMethodNonce: gatewaytest.NonceValid,
		})
		var apiErr *gateway.APIError
		require.ErrorAs(t, err, &apiErr, "amount %q should be rejected", amount)
		assert.Equal(t, gateway.ErrorTypeValidation, apiErr.Type, "amount %q", amount)
	}
}

func TestDeleteCustomerCascadesToPaymentMethods(t *testing.T) {
	client, _ := newFake(t)
	ctx := context.Background()

	customer, err := client.CreateCustomer(ctx, gateway.CustomerRequest{
		ID:                 "c1",
		PaymentMethodNonce: gatewaytest.NonceValid,
	})
	require.NoError(t, err)
	require.Len(t, customer.PaymentMethods, 1)
	token := customer.PaymentMethods[0].Token

	require.NoError(t, client.DeleteCustomer(ctx, "c1"))

	var apiErr *gateway.APIError
	_, err = client.FindCustomer(ctx, "c1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, gateway.ErrorTypeNotFound, apiErr.Type)

	_, err = client.FindPaymentMethod(ctx, token)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, gateway.ErrorTypeNotFound, apiErr.Type)
}

func TestDefaultPaymentMethodTracking(t *testing.T) {
	client, _ := newFake(t)
	ctx := context.Background()

	_, err := client.CreateCustomer(ctx, gateway.CustomerRequest{ID: "c1"})
	require.NoError(t, err)

	first, err := client.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
		CustomerID:         "c1",
		PaymentMethodNonce: gatewaytest.NonceValid,
	})
	require.NoError(t, err)
	assert.True(t, first.Default, "first vaulted method becomes the default")

	second, err := client.CreatePaymentMethod(ctx, gateway.PaymentMethodRequest{
		CustomerID:         "c1",
		PaymentMethodNonce: gatewaytest.NonceValidMastercard,
		MakeDefault:        true,
	})
	require.NoError(t, err)
	assert.True(t, second.Default)

	demoted, err := client.FindPaymentMethod(ctx, first.Token)
	require.NoError(t, err)
	assert.False(t, demoted.Default, "make_default demotes the previous default")

	customer, err := client.FindCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, customer.PaymentMethods, 2)
	assert.Equal(t, first.Token, customer.PaymentMethods[0].Token, "methods keep vaulting order")
	assert.Equal(t, second.Token, customer.PaymentMethods[1].Token)
}

func TestSubscriptionLifecycle(t *testing.T) {
	client, _ := newFake(t)
	ctx := context.Background()

	customer, err := client.CreateCustomer(ctx, gateway.CustomerRequest{
		ID:                 "c1",
		PaymentMethodNonce: gatewaytest.NonceValid,
	})
	require.NoError(t, err)
	token := customer.PaymentMethods[0].Token

	t.Run("unknown plan is a validation error", func(t *testing.T) {
		_, err := client.CreateSubscription(ctx, gateway.SubscriptionRequest{
			PlanID:             "no-such-plan",
			PaymentMethodToken: token,
		})
		var apiErr *gateway.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, gateway.ErrorTypeValidation, apiErr.Type)
	})

	sub, err := client.CreateSubscription(ctx, gateway.SubscriptionRequest{
		PlanID:             "starter-monthly",
		PaymentMethodToken: token,
	})
	require.NoError(t, err)
	assert.Equal(t, gateway.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, "9.99", sub.Price, "price defaults from the plan")
	assert.NotEmpty(t, sub.BillingPeriodStartDate)
	assert.NotEmpty(t, sub.BillingPeriodEndDate)

	t.Run("cancel twice is idempotent", func(t *testing.T) {
		canceled, err := client.CancelSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, gateway.SubscriptionStatusCanceled, canceled.Status)

		again, err := client.CancelSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, gateway.SubscriptionStatusCanceled, again.Status)

		found, err := client.FindSubscription(ctx, sub.ID)
		require.NoError(t, err)
		assert.Equal(t, gateway.SubscriptionStatusCanceled, found.Status)
	})
}

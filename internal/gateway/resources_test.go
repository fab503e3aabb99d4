package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// recordedRequest captures the route a resource method hit. The path is
// kept in escaped form so tests can tell an escaped id from a spliced one.
type recordedRequest struct {
	method string
	path   string
}

func recordingServer(t *testing.T, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func assertRoute(t *testing.T, rec *recordedRequest, method, path string) {
	t.Helper()
	if rec.method != method || rec.path != path {
		t.Errorf("hit %s %s, want %s %s", rec.method, rec.path, method, path)
	}
}

func TestCustomerRoutes(t *testing.T) {
	ctx := context.Background()

	t.Run("find", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"cust_9","first_name":"Ana"}`)
		customer, err := testClient(srv.URL).FindCustomer(ctx, "cust_9")
		if err != nil {
			t.Fatalf("FindCustomer: %v", err)
		}
		assertRoute(t, rec, http.MethodGet, "/v1/merchants/m_test/customers/cust_9")
		if customer.FirstName != "Ana" {
			t.Errorf("FirstName = %q", customer.FirstName)
		}
	})

	t.Run("update", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"cust_9","last_name":"Smith"}`)
		_, err := testClient(srv.URL).UpdateCustomer(ctx, "cust_9", CustomerRequest{LastName: "Smith"})
		if err != nil {
			t.Fatalf("UpdateCustomer: %v", err)
		}
		assertRoute(t, rec, http.MethodPut, "/v1/merchants/m_test/customers/cust_9")
	})

	t.Run("delete", func(t *testing.T) {
		srv, rec := recordingServer(t, `{}`)
		if err := testClient(srv.URL).DeleteCustomer(ctx, "cust_9"); err != nil {
			t.Fatalf("DeleteCustomer: %v", err)
		}
		assertRoute(t, rec, http.MethodDelete, "/v1/merchants/m_test/customers/cust_9")
	})

	t.Run("ids are path escaped", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"a/b"}`)
		if _, err := testClient(srv.URL).FindCustomer(ctx, "a/b"); err != nil {
			t.Fatalf("FindCustomer: %v", err)
		}
		assertRoute(t, rec, http.MethodGet, "/v1/merchants/m_test/customers/a%2Fb")
	})
}

func TestPaymentMethodRoutes(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"token":"vpm_1","customer_id":"cust_9","card_type":"Visa","last_4":"1881"}`)
		method, err := testClient(srv.URL).CreatePaymentMethod(ctx, PaymentMethodRequest{
			CustomerID:         "cust_9",
			PaymentMethodNonce: "fake-valid-nonce",
		})
		if err != nil {
			t.Fatalf("CreatePaymentMethod: %v", err)
		}
		assertRoute(t, rec, http.MethodPost, "/v1/merchants/m_test/payment_methods")
		if method.Token != "vpm_1" || method.CardType != "Visa" {
			t.Errorf("method = %+v", method)
		}
	})

	t.Run("find", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"token":"vpm_1","customer_id":"cust_9"}`)
		method, err := testClient(srv.URL).FindPaymentMethod(ctx, "vpm_1")
		if err != nil {
			t.Fatalf("FindPaymentMethod: %v", err)
		}
		assertRoute(t, rec, http.MethodGet, "/v1/merchants/m_test/payment_methods/vpm_1")
		if method.CustomerID != "cust_9" {
			t.Errorf("CustomerID = %q", method.CustomerID)
		}
	})
}

func TestTransactionRoutes(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"txn_1","amount":"15.00","status":"authorized"}`)
		txn, err := testClient(srv.URL).CreateTransaction(ctx, TransactionRequest{
			Amount:             "15.00",
			PaymentMethodNonce: "fake-valid-nonce",
		})
		if err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
		assertRoute(t, rec, http.MethodPost, "/v1/merchants/m_test/transactions")
		if txn.Amount != "15.00" || txn.Status != TransactionStatusAuthorized {
			t.Errorf("txn = %+v", txn)
		}
	})

	t.Run("clone", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"txn_2","amount":"35.00","status":"authorized"}`)
		txn, err := testClient(srv.URL).CloneTransaction(ctx, "txn_1", TransactionCloneRequest{Amount: "35.00"})
		if err != nil {
			t.Fatalf("CloneTransaction: %v", err)
		}
		assertRoute(t, rec, http.MethodPost, "/v1/merchants/m_test/transactions/txn_1/clone")
		if txn.ID != "txn_2" || txn.Amount != "35.00" {
			t.Errorf("txn = %+v", txn)
		}
	})

	t.Run("find", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"txn_1","amount":"15.00","status":"submitted_for_settlement"}`)
		txn, err := testClient(srv.URL).FindTransaction(ctx, "txn_1")
		if err != nil {
			t.Fatalf("FindTransaction: %v", err)
		}
		assertRoute(t, rec, http.MethodGet, "/v1/merchants/m_test/transactions/txn_1")
		if txn.Status != TransactionStatusSubmittedForSettlement {
			t.Errorf("Status = %q", txn.Status)
		}
	})
}

func TestPlanAndSubscriptionRoutes(t *testing.T) {
	ctx := context.Background()

	t.Run("list plans keeps vendor order", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"plans":[{"id":"starter","price":"9.99"},{"id":"pro","price":"29.99"}]}`)
		plans, err := testClient(srv.URL).ListPlans(ctx)
		if err != nil {
			t.Fatalf("ListPlans: %v", err)
		}
		assertRoute(t, rec, http.MethodGet, "/v1/merchants/m_test/plans")
		if len(plans) != 2 || plans[0].ID != "starter" || plans[1].ID != "pro" {
			t.Errorf("plans = %+v", plans)
		}
	})

	t.Run("create subscription", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"sub_1","plan_id":"pro","status":"Active"}`)
		sub, err := testClient(srv.URL).CreateSubscription(ctx, SubscriptionRequest{
			PlanID:             "pro",
			PaymentMethodToken: "vpm_1",
		})
		if err != nil {
			t.Fatalf("CreateSubscription: %v", err)
		}
		assertRoute(t, rec, http.MethodPost, "/v1/merchants/m_test/subscriptions")
		if sub.Status != SubscriptionStatusActive {
			t.Errorf("Status = %q", sub.Status)
		}
	})

	t.Run("cancel subscription", func(t *testing.T) {
		srv, rec := recordingServer(t, `{"id":"sub_1","plan_id":"pro","status":"Canceled"}`)
		sub, err := testClient(srv.URL).CancelSubscription(ctx, "sub_1")
		if err != nil {
			t.Fatalf("CancelSubscription: %v", err)
		}
		assertRoute(t, rec, http.MethodPost, "/v1/merchants/m_test/subscriptions/sub_1/cancel")
		if sub.Status != SubscriptionStatusCanceled {
			t.Errorf("Status = %q", sub.Status)
		}
	})
}

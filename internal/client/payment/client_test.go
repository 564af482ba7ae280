package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/mlindqvist/order-service/internal/domain"
)

func testLogger() *log.Entry {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "payment-client-test")
}

var testCred = domain.Credential{Token: "jwt-token"}

func TestClient_ProcessPayment(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody paymentRequestDTO

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(paymentResponseDTO{TransactionID: "tx-123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, testLogger())

	txID, err := client.ProcessPayment(context.Background(), testCred, 11, domain.PaymentDetails{
		AmountMinor: 50000,
		Currency:    "SEK",
		Method:      "card",
	})
	if err != nil {
		t.Fatalf("process payment: %v", err)
	}
	if txID != "tx-123" {
		t.Fatalf("unexpected transaction id: %s", txID)
	}

	if gotPath != "/payments" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer jwt-token" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotBody.OrderID != 11 || gotBody.AmountMinor != 50000 || gotBody.Currency != "SEK" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestClient_ProcessPayment_Declined(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, testLogger())

	_, err := client.ProcessPayment(context.Background(), testCred, 11, domain.PaymentDetails{AmountMinor: 100, Currency: "SEK"})
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestClient_ProcessPayment_EmptyTransactionID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(paymentResponseDTO{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 0, testLogger())

	_, err := client.ProcessPayment(context.Background(), testCred, 11, domain.PaymentDetails{AmountMinor: 100, Currency: "SEK"})
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService for empty transaction id, got %v", err)
	}
}

package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateInvoiceSendsAuthenticatedRequest(t *testing.T) {
	var gotReq CreateInvoiceRequest
	var gotPath, gotUser string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, _, ok := r.BasicAuth()
		if !ok {
			t.Error("expected basic auth")
		}
		gotUser = user
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ProviderInvoice{
			ID:         "inv-abc123",
			ExternalID: gotReq.ExternalID,
			Status:     "PENDING",
			Amount:     gotReq.Amount,
			InvoiceURL: "https://checkout.xendit.co/web/inv-abc123",
		})
	}))
	defer srv.Close()

	client := NewClient(Config{SecretKey: "xnd_secret", BaseURL: srv.URL})
	invoice, err := client.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ExternalID:         "INV-202406-00001",
		Amount:             100,
		PayerEmail:         "payer@test.dev",
		SuccessRedirectURL: "https://shop.example.com/thanks",
		ShouldSendEmail:    true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v2/invoices" {
		t.Fatalf("expected /v2/invoices, got %s", gotPath)
	}
	if gotUser != "xnd_secret" {
		t.Fatalf("expected secret key as basic auth user, got %s", gotUser)
	}
	if gotReq.PayerEmail != "payer@test.dev" || !gotReq.ShouldSendEmail {
		t.Fatalf("unexpected payload: %+v", gotReq)
	}
	if invoice.ID != "inv-abc123" || invoice.Status != "PENDING" {
		t.Fatalf("unexpected provider invoice: %+v", invoice)
	}
}

func TestCreateInvoiceProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_code":"DUPLICATE_EXTERNAL_ID"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{SecretKey: "xnd_secret", BaseURL: srv.URL})
	if _, err := client.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ExternalID: "INV-202406-00001",
		Amount:     100,
	}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

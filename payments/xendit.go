// payments/xendit.go
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.xendit.co"

// CreateInvoiceRequest is the payload sent to the provider's invoice API.
type CreateInvoiceRequest struct {
	ExternalID         string  `json:"external_id"`
	Amount             float64 `json:"amount"`
	PayerEmail         string  `json:"payer_email"`
	SuccessRedirectURL string  `json:"success_redirect_url,omitempty"`
	ShouldSendEmail    bool    `json:"should_send_email"`
}

// ProviderInvoice is the remote invoice handle returned by the provider.
// Opaque to the rest of the system beyond its identifier and status.
type ProviderInvoice struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"external_id"`
	Status     string  `json:"status"`
	Amount     float64 `json:"amount"`
	InvoiceURL string  `json:"invoice_url"`
	ExpiryDate string  `json:"expiry_date"`
	PayerEmail string  `json:"payer_email"`
}

// InvoiceAPI is the narrow surface the invoice controller depends on.
// Tests substitute a fake implementation.
type InvoiceAPI interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*ProviderInvoice, error)
}

type Config struct {
	SecretKey  string
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the Xendit invoice REST API using basic auth with the
// account secret key.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*ProviderInvoice, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode invoice request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/invoices", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build invoice request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.secretKey, "")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create provider invoice: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(snippet))
	}

	var invoice ProviderInvoice
	if err := json.NewDecoder(resp.Body).Decode(&invoice); err != nil {
		return nil, fmt.Errorf("decode provider invoice: %w", err)
	}
	return &invoice, nil
}

package pdf

import (
	"bytes"
	"testing"
	"time"

	"payhub-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRenderInvoiceSummary(t *testing.T) {
	user := models.User{ID: uuid.New(), Name: "Test User", Email: "test@test.dev"}
	invoices := []models.Invoice{
		{
			ExternalID:    "INV-202406-00002",
			PaymentAmount: decimal.NewFromInt(250),
			PaymentStatus: models.PaymentStatusPaid,
			CreatedAt:     time.Now(),
		},
		{
			ExternalID:    "INV-202406-00001",
			PaymentAmount: decimal.NewFromFloat(99.5),
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     time.Now().Add(-time.Hour),
		},
	}

	buf, err := RenderInvoiceSummary(user, invoices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(buf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF: %q", buf[:8])
	}
}

func TestRenderInvoiceSummaryEmpty(t *testing.T) {
	user := models.User{ID: uuid.New(), Name: "Empty", Email: "empty@test.dev"}

	buf, err := RenderInvoiceSummary(user, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf, []byte("%PDF")) {
		t.Fatal("expected a PDF even with no invoices")
	}
}

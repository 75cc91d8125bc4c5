package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"payhub-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSequenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedInvoice(t *testing.T, db *gorm.DB, externalID string, createdAt time.Time) {
	t.Helper()
	inv := models.Invoice{
		UserID:        uuid.New(),
		ExternalID:    externalID,
		PaymentAmount: decimal.NewFromInt(100),
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     createdAt,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice %s: %v", externalID, err)
	}
}

func TestNextInvoiceNumberFirstOfMonth(t *testing.T) {
	db := setupSequenceTestDB(t)

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	got, err := nextInvoiceNumberAt(db, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "INV-202406-00001" {
		t.Fatalf("expected INV-202406-00001, got %s", got)
	}
}

func TestNextInvoiceNumberIncrements(t *testing.T) {
	db := setupSequenceTestDB(t)

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		seedInvoice(t, db, fmt.Sprintf("INV-202406-%05d", i), now.Add(time.Duration(i)*time.Minute))
	}

	got, err := nextInvoiceNumberAt(db, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "INV-202406-00004" {
		t.Fatalf("expected INV-202406-00004, got %s", got)
	}
}

func TestNextInvoiceNumberUsesNewestRow(t *testing.T) {
	db := setupSequenceTestDB(t)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	seedInvoice(t, db, "INV-202406-00009", base.Add(2*time.Hour))
	seedInvoice(t, db, "INV-202406-00003", base.Add(time.Hour))

	got, err := nextInvoiceNumberAt(db, base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "INV-202406-00010" {
		t.Fatalf("expected INV-202406-00010, got %s", got)
	}
}

func TestNextInvoiceNumberRestartsEachMonth(t *testing.T) {
	db := setupSequenceTestDB(t)

	may := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	seedInvoice(t, db, "INV-202405-00042", may)

	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	got, err := nextInvoiceNumberAt(db, june)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "INV-202406-00001" {
		t.Fatalf("expected sequence to restart in the new month, got %s", got)
	}

	// The old month keeps counting from its own latest row.
	got, err = nextInvoiceNumberAt(db, may.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "INV-202405-00043" {
		t.Fatalf("expected INV-202405-00043, got %s", got)
	}
}

func TestNextInvoiceNumberMatchesPattern(t *testing.T) {
	db := setupSequenceTestDB(t)

	pattern := regexp.MustCompile(`^INV-\d{6}-\d{5}$`)
	now := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)

	got, err := nextInvoiceNumberAt(db, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pattern.MatchString(got) {
		t.Fatalf("%s does not match INV-YYYYMM-NNNNN", got)
	}
}

func TestNextInvoiceNumberCorruptSuffix(t *testing.T) {
	db := setupSequenceTestDB(t)

	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	seedInvoice(t, db, "INV-202406-abcde", now)

	if _, err := nextInvoiceNumberAt(db, now.Add(time.Minute)); err == nil {
		t.Fatal("expected an allocation error for a corrupt suffix, got none")
	}
}

// services/sequence.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"payhub-backend/models"

	"gorm.io/gorm"
)

const invoiceNumberPrefix = "INV"

// NextInvoiceNumber derives the next invoice number for the current UTC
// calendar month, e.g. INV-202409-00007. The numbering restarts at 1 each
// month; the month window is determined by prefix match on external_id.
//
// The read-then-increment is not atomic. Concurrent allocations can collide
// and must be caught by the unique index on external_id; the caller retries
// on gorm.ErrDuplicatedKey.
func NextInvoiceNumber(db *gorm.DB) (string, error) {
	return nextInvoiceNumberAt(db, time.Now().UTC())
}

func nextInvoiceNumberAt(db *gorm.DB, now time.Time) (string, error) {
	yearMonth := now.Format("200601")
	prefix := fmt.Sprintf("%s-%s", invoiceNumberPrefix, yearMonth)

	var last models.Invoice
	err := db.Where("external_id LIKE ?", prefix+"%").
		Order("created_at DESC").
		First(&last).Error

	next := 1
	switch {
	case err == nil:
		parts := strings.Split(last.ExternalID, "-")
		if len(parts) != 3 {
			return "", fmt.Errorf("malformed invoice number %q", last.ExternalID)
		}
		n, parseErr := strconv.Atoi(parts[2])
		if parseErr != nil {
			// Corrupt data must surface as an allocation error, never a
			// silent restart at 1.
			return "", fmt.Errorf("parse invoice number %q: %w", last.ExternalID, parseErr)
		}
		next = n + 1
	case errors.Is(err, gorm.ErrRecordNotFound):
		// first invoice of the month
	default:
		return "", err
	}

	return fmt.Sprintf("%s-%05d", prefix, next), nil
}

// services/reminder_service.go
package services

import (
	"fmt"
	"os"
	"time"

	"payhub-backend/config"
	"payhub-backend/models"
	"payhub-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// pendingReminderAfter is how long an invoice may stay PENDING before the
// daily sweep sends the payer a reminder.
const pendingReminderAfter = 3 * 24 * time.Hour

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendPaymentReminders)

	c.Start()
	config.GetLogger().Info("payment reminder scheduler started")
}

// SendPaymentReminders finds invoices stuck in PENDING past the threshold
// and sends their owners an SMS. Each invoice is reminded at most once.
// The sweep is also the place where long-pending invoices become visible
// for manual reconciliation against the provider's ledger.
func (s *ReminderService) SendPaymentReminders() {
	log := config.GetLogger()
	log.Info("starting payment reminder sweep")

	cutoff := time.Now().Add(-pendingReminderAfter)

	var invoices []models.Invoice
	if err := s.db.Preload("User").
		Where("payment_status = ? AND created_at < ?", models.PaymentStatusPending, cutoff).
		Find(&invoices).Error; err != nil {
		config.LogError(log, "services", "SendPaymentReminders", "fetch pending invoices", nil, err)
		return
	}

	for _, invoice := range invoices {
		s.remind(invoice)
	}

	log.WithField("pending", len(invoices)).Info("payment reminder sweep completed")
}

func (s *ReminderService) remind(invoice models.Invoice) {
	log := config.GetLogger()

	var count int64
	if err := s.db.Model(&models.ReminderLog{}).
		Where("invoice_id = ?", invoice.ID).
		Count(&count).Error; err != nil {
		config.LogError(log, "services", "remind", "check reminder log", invoice.ExternalID, err)
		return
	}
	if count > 0 {
		return
	}

	if invoice.User.Phone == "" {
		return
	}

	days := utils.DaysBetween(invoice.CreatedAt, time.Now())
	message := fmt.Sprintf(
		"Hi %s, your invoice %s for %s has been awaiting payment for %d days. Pay here: %s",
		invoice.User.Name, invoice.ExternalID,
		invoice.PaymentAmount.StringFixed(2), days, invoice.ProviderInvoiceURL,
	)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(invoice.User.Phone)
	params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	status := "sent"
	errorMsg := ""

	if err != nil {
		config.LogError(log, "services", "remind", "send sms", invoice.ExternalID, err)
		status = "failed"
		errorMsg = err.Error()
	} else if resp.Sid != nil {
		log.WithField("externalId", invoice.ExternalID).WithField("sid", *resp.Sid).
			Info("payment reminder sent")
	} else {
		log.WithField("externalId", invoice.ExternalID).
			Info("payment reminder sent, but no SID returned")
	}

	reminderLog := models.ReminderLog{
		InvoiceID:    invoice.ID,
		UserID:       invoice.UserID,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		Channel:      "sms",
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		config.LogError(log, "services", "remind", "log reminder", invoice.ExternalID, err)
	}
}

// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"os"

	"payhub-backend/config"
	"payhub-backend/models"
	"payhub-backend/payments"
	"payhub-backend/pdf"
	"payhub-backend/services"
	"payhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// allocationAttempts bounds the retry loop when two requests race for the
// same invoice number and the unique index rejects the second insert.
const allocationAttempts = 3

// ProductInput defines one invoice line sent by the client. Prices are
// taken as-is, not validated against the product catalog.
type ProductInput struct {
	ProductID uuid.UUID       `json:"productId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"min=1"`
	Price     decimal.Decimal `json:"price"`
}

// CreateInvoiceInput defines the expected JSON structure for creating an invoice
type CreateInvoiceInput struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Products []ProductInput  `json:"products"`
}

// WebhookInput is the provider callback body.
type WebhookInput struct {
	ExternalID string `json:"external_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

type InvoiceController struct {
	payments payments.InvoiceAPI
}

func NewInvoiceController(api payments.InvoiceAPI) *InvoiceController {
	return &InvoiceController{payments: api}
}

// currentUser loads the authenticated user placed in context by the auth
// middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	rawID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return nil, false
	}
	idStr, ok := rawID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID in context")
		return nil, false
	}
	userID, err := uuid.Parse(idStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID format")
		return nil, false
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return nil, false
	}
	return &user, true
}

// CreateInvoice allocates an invoice number, creates the remote provider
// invoice, then persists the local invoice and its items. Partial failures
// after the remote create are not compensated; they are logged with both
// identifiers so the orphaned remote invoice can be traced.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if !input.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	var invoice models.Invoice
	var remote *payments.ProviderInvoice
	created := false

	for attempt := 0; attempt < allocationAttempts; attempt++ {
		externalID, err := services.NextInvoiceNumber(config.DB)
		if err != nil {
			config.LogError(config.GetLogger(), "controllers", "CreateInvoice", "allocate invoice number", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		providerInvoice, err := ic.payments.CreateInvoice(c.Request.Context(), payments.CreateInvoiceRequest{
			ExternalID:         externalID,
			Amount:             input.Amount.InexactFloat64(),
			PayerEmail:         user.Email,
			SuccessRedirectURL: os.Getenv("XENDIT_SUCCESS_REDIRECT_URL"),
			ShouldSendEmail:    true,
		})
		if err != nil {
			config.LogError(config.GetLogger(), "controllers", "CreateInvoice", "create provider invoice", externalID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		items := make([]models.InvoiceItem, 0, len(input.Products))
		for _, product := range input.Products {
			quantity := decimal.NewFromInt(int64(product.Quantity))
			items = append(items, models.InvoiceItem{
				ProductID: product.ProductID,
				Quantity:  product.Quantity,
				Price:     product.Price,
				Subtotal:  product.Price.Mul(quantity),
			})
		}

		invoice = models.Invoice{
			UserID:             user.ID,
			ExternalID:         externalID,
			PaymentAmount:      input.Amount,
			PaymentStatus:      models.PaymentStatusPending,
			ProviderInvoiceID:  providerInvoice.ID,
			ProviderInvoiceURL: providerInvoice.InvoiceURL,
			Items:              items,
		}

		err = config.DB.Create(&invoice).Error
		if err == nil {
			created = true
			remote = providerInvoice
			break
		}

		// Whatever happens next, the remote invoice already exists and
		// nothing cancels it. Record both ids for reconciliation.
		config.LogError(config.GetLogger(), "controllers", "CreateInvoice", "orphaned remote invoice",
			gin.H{"externalId": externalID, "providerInvoiceId": providerInvoice.ID}, err)

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the allocation race; take the next number.
			continue
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if !created {
		c.JSON(http.StatusConflict, gin.H{"error": "Invoice number conflict, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Invoice created successfully",
		"invoice":         invoice,
		"providerInvoice": remote,
	})
}

// Webhook applies a provider-reported status change to the matching local
// invoice. Repeated deliveries overwrite idempotently; last write wins.
func (ic *InvoiceController) Webhook(c *gin.Context) {
	receivedToken := c.GetHeader("x-callback-token")
	if receivedToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized! Missing callback token."})
		return
	}

	if receivedToken != os.Getenv("XENDIT_CALLBACK_TOKEN") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Callback token doesn't match."})
		return
	}

	var input WebhookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("external_id = ?", input.ExternalID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Can legitimately race an in-flight creation; the provider
			// retries the callback.
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found."})
		} else {
			config.LogError(config.GetLogger(), "controllers", "Webhook", "find invoice", input.ExternalID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	status := models.PaymentStatus(input.Status)
	if !status.Known() {
		config.GetLogger().WithField("status", input.Status).
			WithField("externalId", input.ExternalID).
			Warn("unknown payment status from provider, storing verbatim")
	}

	if err := config.DB.Model(&invoice).Update("payment_status", status).Error; err != nil {
		config.LogError(config.GetLogger(), "controllers", "Webhook", "update status", input.ExternalID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	invoice.PaymentStatus = status

	c.JSON(http.StatusOK, gin.H{
		"message": "Webhook received and invoice updated successfully",
		"invoice": invoice,
	})
}

// GetInvoices returns the caller's invoices, newest first.
func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Preload("Items").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		config.LogError(config.GetLogger(), "controllers", "GetInvoices", "list invoices", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice returns one invoice with its items and each item's product.
func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID format"})
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items.Product").Preload("User").
		Where("user_id = ? AND id = ?", user.ID, invoiceID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		} else {
			config.LogError(config.GetLogger(), "controllers", "GetInvoice", "find invoice", invoiceID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// InvoicePDF renders the caller's invoice summary as a downloadable PDF.
func (ic *InvoiceController) InvoicePDF(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		config.LogError(config.GetLogger(), "controllers", "InvoicePDF", "list invoices", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	buf, err := pdf.RenderInvoiceSummary(*user, invoices)
	if err != nil {
		config.LogError(config.GetLogger(), "controllers", "InvoicePDF", "render pdf", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="invoices.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf)
}

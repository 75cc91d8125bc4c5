// controllers/product.go
package controllers

import (
	"errors"
	"net/http"

	"payhub-backend/config"
	"payhub-backend/models"
	"payhub-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateProductInput defines the expected JSON structure for creating a product
type CreateProductInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// CreateProduct creates a new product owned by the caller
func CreateProduct(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Price.IsPositive() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must be positive")
		return
	}

	product := models.Product{
		UserID:      user.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts retrieves all products owned by the caller
func GetProducts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := config.DB.Where("user_id = ?", user.ID).Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a specific product by ID
func GetProduct(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product models.Product
	if err := config.DB.Where("user_id = ? AND id = ?", user.ID, productID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

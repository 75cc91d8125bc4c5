package routes

import (
	"os"

	"payhub-backend/config"
	"payhub-backend/controllers"
	"payhub-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ic *controllers.InvoiceController) *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		allowedOrigins = append(allowedOrigins, frontend)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "x-callback-token"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	invoices := r.Group("/invoices")
	{
		// Provider callback authenticates via x-callback-token, not JWT.
		invoices.POST("/webhook", ic.Webhook)

		authed := invoices.Group("")
		authed.Use(utils.AuthMiddleware())
		{
			authed.POST("/create-invoice", ic.CreateInvoice)
			authed.GET("", ic.GetInvoices)
			authed.GET("/pdf", ic.InvoicePDF)
			authed.GET("/:id", ic.GetInvoice)
		}
	}

	products := r.Group("/products")
	products.Use(utils.AuthMiddleware())
	{
		products.POST("", controllers.CreateProduct)
		products.GET("", controllers.GetProducts)
		products.GET("/:id", controllers.GetProduct)
	}

	return r
}

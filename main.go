package main

import (
	"fmt"
	"os"

	"payhub-backend/config"
	"payhub-backend/controllers"
	"payhub-backend/models"
	"payhub-backend/payments"
	"payhub-backend/routes"
	"payhub-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		config.GetLogger().Info("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.ReminderLog{},
	)
}

func main() {
	xenditClient := payments.NewClient(payments.Config{
		SecretKey: os.Getenv("XENDIT_SECRET_KEY"),
	})
	invoiceController := controllers.NewInvoiceController(xenditClient)

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter(invoiceController)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}

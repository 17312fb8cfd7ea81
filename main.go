package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/eventhub-api/cmd/app"
)

// @title        Event management API
// @version      1.0
// @description  Events, ticket payments with admin approval, and feedback.
// @BasePath     /api
//
// @contact.name  EventHub maintainers
// @contact.url   https://github.com/vietanh2810/eventhub-api/issues
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT returned by /auth/login.
func main() {
	if err := app.Start(); err != nil {
		log.Fatalf("eventhub-api: %v", err)
	}
}

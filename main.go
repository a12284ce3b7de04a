package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mdrsisme/lisan-sign/config"
	"github.com/mdrsisme/lisan-sign/routes"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	// Initialize database
	config.ConnectDB()

	// Initialize router
	app := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

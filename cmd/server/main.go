package main

import (
	"log"
	"os"

	"github.com/cliniccore/clinic-appointment-service/internal/config"
)

func main() {
	config.LoadEnv()
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = ":8080"
	}
	router := config.ServerSetup()
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to serve HTTP server: %v", err)
	}
}

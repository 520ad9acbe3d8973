package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"distlab/internal/config"
	"distlab/internal/container"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting distlab: API on :%s, explorer on :%s", appConfig.Server.APIPort, appConfig.Server.UIPort)
	if err := appContainer.Run(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Shut down cleanly")
}

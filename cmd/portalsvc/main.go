package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/you/portalsvc/internal/app"
	"github.com/you/portalsvc/internal/config"
)

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}

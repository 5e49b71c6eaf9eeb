package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/libris/internal/server"
	"github.com/dmitrijs2005/libris/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/avisos/internal/app"
	"github.com/dmitrijs2005/avisos/internal/config"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("config: %v", err)
		os.Exit(2)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Printf("logger: %v", err)
		os.Exit(2)
	}

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := a.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

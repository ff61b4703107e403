package main

import (
	"context"
	"log"

	"github.com/locvowork/compensation_dashboard/internal/bootstrap"
	"github.com/locvowork/compensation_dashboard/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		log.Fatal(err)
	}

	if !app.Store.Available() {
		logger.WarnLog(ctx, "Serving without data: %v", app.Store.LoadError())
	}
	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
	}
}

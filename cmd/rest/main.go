package main

import (
	"context"
	"log"

	"bill-research-be/internal/bootstrap"
	"bill-research-be/internal/config"
	"bill-research-be/internal/server"
	"bill-research-be/internal/tracer"
	"bill-research-be/pkg/database"
)

func main() {
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer()
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	container := bootstrap.NewContainer(db, cfg)
	defer container.SysLogger.Sync()

	srv := server.New(cfg, container)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

package main

import (
	"context"
	"log"

	"litsearch-be/internal/bootstrap"
	"litsearch-be/internal/config"
	"litsearch-be/internal/server"
	"litsearch-be/internal/tracer"
	"litsearch-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer func() {
		_ = container.Queue.Close()
		_ = container.Logger.Sync()
	}()

	// 4. Start Background Workers
	if err := container.StartWorkers(context.Background()); err != nil {
		log.Panicf("Unable to start processing workers: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}

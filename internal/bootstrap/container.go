package bootstrap

import (
	"context"
	"log"

	"litsearch-be/internal/config"
	"litsearch-be/internal/controller"
	"litsearch-be/internal/pkg/logger"
	"litsearch-be/internal/pkg/runlock"
	"litsearch-be/internal/repository/unitofwork"
	"litsearch-be/internal/service"
	"litsearch-be/pkg/taskqueue"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PipelineController controller.IPipelineController

	// Background Services (Exposed for main.go to run)
	WorkerService service.IWorkerService

	// Queue is exposed so main.go can close it on shutdown.
	Queue taskqueue.Queue

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Task Queue
	queue := taskqueue.NewGoChannelQueue()

	// 3. Run Lock (Redis, with in-process fallback)
	var locker runlock.Locker
	redisLocker, err := runlock.NewRedisLocker(cfg.App.RedisURL, cfg.Pipeline.HeartbeatTimeout)
	if err != nil {
		log.Printf("[WARN] Failed to connect to Redis for run locking: %v. Falling back to no-op locker", err)
		locker = runlock.NoopLocker{}
	} else {
		locker = redisLocker
	}

	// 4. Status Cache
	statusCache := gocache.New(cfg.Pipeline.StatusCacheTTL, 5*cfg.Pipeline.StatusCacheTTL)

	// 5. Services
	progressSink := service.NewMultiSink(
		service.NewLogProgressSink(sysLogger),
		service.NewCacheInvalidationSink(statusCache),
	)
	pipelineService := service.NewPipelineService(
		uowFactory,
		queue,
		locker,
		statusCache,
		progressSink,
		cfg.Pipeline,
		sysLogger,
	)
	workerService := service.NewWorkerService(queue, pipelineService, cfg.Pipeline.WorkerCount, sysLogger)

	// 6. Controllers
	return &Container{
		PipelineController: controller.NewPipelineController(pipelineService),
		WorkerService:      workerService,
		Queue:              queue,
		Logger:             sysLogger,
	}
}

// StartWorkers attaches the background worker pool. Call once after
// construction.
func (c *Container) StartWorkers(ctx context.Context) error {
	return c.WorkerService.Start(ctx)
}

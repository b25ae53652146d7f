package service

import (
	"context"
	"encoding/json"
	"fmt"

	"litsearch-be/internal/pkg/logger"
	"litsearch-be/pkg/taskqueue"
)

type IWorkerService interface {
	// Start attaches the worker pool to the processing topic. Returns
	// once the subscription is established; workers run until ctx ends.
	Start(ctx context.Context) error
}

// WorkerService consumes processing tasks off the queue and hands them
// to the pipeline.
type WorkerService struct {
	queue    taskqueue.Queue
	pipeline IPipelineService
	workers  int
	log      logger.ILogger
}

func NewWorkerService(queue taskqueue.Queue, pipeline IPipelineService, workers int, log logger.ILogger) *WorkerService {
	return &WorkerService{
		queue:    queue,
		pipeline: pipeline,
		workers:  workers,
		log:      log,
	}
}

func (w *WorkerService) Start(ctx context.Context) error {
	err := w.queue.Subscribe(ctx, TopicProcessSession, w.workers, w.handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicProcessSession, err)
	}
	w.log.Info("worker", "processing workers started", map[string]interface{}{
		"topic":   TopicProcessSession,
		"workers": w.workers,
	})
	return nil
}

func (w *WorkerService) handle(ctx context.Context, task taskqueue.Task) error {
	var payload processTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		w.log.Error("worker", "invalid task payload", map[string]interface{}{
			"task_id": task.ID,
			"error":   err.Error(),
		})
		return err
	}
	if err := w.pipeline.Run(ctx, payload.ProcessingSessionId); err != nil {
		w.log.Error("worker", "processing run failed", map[string]interface{}{
			"processing_session_id": payload.ProcessingSessionId.String(),
			"error":                 err.Error(),
		})
		return err
	}
	return nil
}

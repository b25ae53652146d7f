// Package taskqueue is a minimal submit/subscribe/cancel abstraction
// over a message bus so callers stay agnostic to the concurrency
// runtime underneath.
package taskqueue

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const taskIDMetadataKey = "task_id"

// Task is one unit of background work.
type Task struct {
	ID      string
	Payload []byte
}

// Handler processes one task. The context is cancelled when the task
// is cancelled or the queue shuts down.
type Handler func(ctx context.Context, task Task) error

type Queue interface {
	Submit(ctx context.Context, topic string, task Task) error
	// Subscribe consumes the topic with a bounded pool of workers.
	Subscribe(ctx context.Context, topic string, workers int, h Handler) error
	// Cancel signals a running task's context. Returns false when the
	// task is not currently running.
	Cancel(taskID string) bool
	Close() error
}

// GoChannelQueue runs tasks on an in-process watermill pub/sub.
type GoChannelQueue struct {
	pubSub  *gochannel.GoChannel
	running sync.Map // taskID -> context.CancelFunc
}

func NewGoChannelQueue() *GoChannelQueue {
	return &GoChannelQueue{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{},
			watermill.NewStdLogger(false, false),
		),
	}
}

func (q *GoChannelQueue) Submit(ctx context.Context, topic string, task Task) error {
	msg := message.NewMessage(watermill.NewUUID(), task.Payload)
	msg.Metadata.Set(taskIDMetadataKey, task.ID)
	return q.pubSub.Publish(topic, msg)
}

func (q *GoChannelQueue) Subscribe(ctx context.Context, topic string, workers int, h Handler) error {
	messages, err := q.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}
	if workers < 1 {
		workers = 1
	}

	for i := 0; i < workers; i++ {
		go func() {
			for msg := range messages {
				q.handleMessage(ctx, msg, h)
			}
		}()
	}
	return nil
}

func (q *GoChannelQueue) handleMessage(ctx context.Context, msg *message.Message, h Handler) {
	taskID := msg.Metadata.Get(taskIDMetadataKey)

	taskCtx, cancel := context.WithCancel(ctx)
	if taskID != "" {
		q.running.Store(taskID, cancel)
		defer q.running.Delete(taskID)
	}
	defer cancel()

	// The handler owns its errors; a failed task must not wedge the
	// subscription, so the message is always acked.
	_ = h(taskCtx, Task{ID: taskID, Payload: msg.Payload})
	msg.Ack()
}

func (q *GoChannelQueue) Cancel(taskID string) bool {
	if cancel, ok := q.running.Load(taskID); ok {
		cancel.(context.CancelFunc)()
		return true
	}
	return false
}

func (q *GoChannelQueue) Close() error {
	return q.pubSub.Close()
}

package worker

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/segmentio/kafka-go"

	"taskdeck/internal/cache"
	"taskdeck/internal/config"
	"taskdeck/internal/models"
	"taskdeck/internal/queue"
	"taskdeck/pkg/logger"
)

// Run starts the Kafka consumer: reads task events and invalidates the
// owning user's cached task list. Invalidation rides the event stream
// rather than the request path so every replica sharing the cache
// converges, and the stream doubles as a mutation audit log.
// One consumer per process; the consumer group shares partitions across
// replicas.
func Run(ctx context.Context) {
	cfg := config.Get()
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info(ctx, "Worker disabled (no Kafka brokers)")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  queue.Brokers(),
		Topic:    queue.Topic(),
		GroupID:  "task-event-workers",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	var processed int64
	logger.Info(ctx, "Kafka consumer started", "topic", queue.Topic())
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Worker fetch failed", "error", err)
			continue
		}
		if err := handleMessage(ctx, msg.Value); err != nil {
			logger.Error(ctx, "Worker handle failed", "error", err, "payload", string(msg.Value))
			// Commit anyway to avoid a poison pill blocking the partition
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "Worker commit failed", "error", err)
		}
		atomic.AddInt64(&processed, 1)
	}
}

func handleMessage(ctx context.Context, payload []byte) error {
	var event models.TaskEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	if event.UserName == "" {
		return nil
	}
	cache.InvalidateTasks(ctx, event.UserName)
	logger.Debug(ctx, "Task event applied",
		"event_id", event.EventID,
		"action", event.Action,
		"task_id", event.TaskID,
		"user", event.UserName)
	return nil
}

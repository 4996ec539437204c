package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/miniteen-shop/internal/logger"
	"github.com/miniteen-shop/internal/metrics"
	"github.com/miniteen-shop/internal/provider"
	"github.com/miniteen-shop/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.Use(observeTask)
	mux.HandleFunc(queue.TaskAvatarCleanup, c.handleAvatarCleanup)
	mux.HandleFunc(queue.TaskProductStatsWarm, c.handleProductStatsWarm)
}

// observeTask 记录每个任务的处理结果
func observeTask(next asynq.Handler) asynq.Handler {
	return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
		err := next.ProcessTask(ctx, task)
		metrics.RecordTask(task.Type(), err)
		return err
	})
}

func (c *Consumer) handleAvatarCleanup(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_avatar_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AvatarCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_avatar_cleanup_unmarshal_failed", "error", err)
		return err
	}
	path := strings.TrimSpace(payload.Path)
	if path == "" {
		logger.Debugw("worker_avatar_cleanup_skip_empty_path", "user_id", payload.UserID)
		return nil
	}
	if err := c.UploadService.RemovePublicFile(path); err != nil {
		logger.Warnw("worker_avatar_cleanup_failed", "user_id", payload.UserID, "path", path, "error", err)
		return err
	}
	logger.Debugw("worker_avatar_cleanup_done", "user_id", payload.UserID, "path", path)
	return nil
}

func (c *Consumer) handleProductStatsWarm(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_product_stats_warm_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if err := c.ProductService.WarmStats(ctx); err != nil {
		logger.Warnw("worker_product_stats_warm_failed", "error", err)
		return err
	}
	return nil
}

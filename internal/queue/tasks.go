package queue

import (
	"encoding/json"

	"github.com/miniteen-shop/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskAvatarCleanup 旧头像文件清理任务
	TaskAvatarCleanup = constants.TaskAvatarCleanup
	// TaskProductStatsWarm 商品统计缓存预热任务
	TaskProductStatsWarm = constants.TaskProductStatsWarm
)

// AvatarCleanupPayload 旧头像清理任务载荷
type AvatarCleanupPayload struct {
	UserID string `json:"user_id"`
	Path   string `json:"path"`
}

// NewAvatarCleanupTask 创建旧头像清理任务
func NewAvatarCleanupTask(payload AvatarCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAvatarCleanup, body), nil
}

// NewProductStatsWarmTask 创建商品统计预热任务
func NewProductStatsWarmTask() *asynq.Task {
	return asynq.NewTask(TaskProductStatsWarm, nil)
}

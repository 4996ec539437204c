package queue

import (
	"encoding/json"
	"testing"

	"github.com/miniteen-shop/internal/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report disabled")
	}
	if err := client.EnqueueAvatarCleanup(AvatarCleanupPayload{UserID: "u1", Path: "/uploads/avatars/a.png"}); err != nil {
		t.Fatalf("enqueue on disabled client should be noop, got %v", err)
	}
	if err := client.EnqueueProductStatsWarm(); err != nil {
		t.Fatalf("enqueue on disabled client should be noop, got %v", err)
	}
}

func TestNewAvatarCleanupTaskPayload(t *testing.T) {
	task, err := NewAvatarCleanupTask(AvatarCleanupPayload{UserID: "u1", Path: "/uploads/avatars/a.png"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskAvatarCleanup {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	var payload AvatarCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.UserID != "u1" || payload.Path != "/uploads/avatars/a.png" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 5 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

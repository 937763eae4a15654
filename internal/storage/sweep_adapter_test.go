package storage

import (
	"context"
	"testing"
	"time"

	"taskpulse/internal/model"
)

func TestSweepStoreResolveTarget(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-02-09T10:00:00Z")

	if err := repo.CreateUser(ctx, User{
		Username:             "alice",
		WebhookURL:           "https://hooks.example.com/alice",
		NotificationsEnabled: true,
		CreatedAt:            created,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := repo.CreateUser(ctx, User{
		Username:             "muted",
		FCMToken:             "tok",
		NotificationsEnabled: false,
		CreatedAt:            created,
	}); err != nil {
		t.Fatalf("create muted user: %v", err)
	}

	store := NewSweepStore(repo)

	target, ok, err := store.ResolveTarget(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("resolve alice: ok=%v err=%v", ok, err)
	}
	if target.Kind != model.TargetKindWebhook {
		t.Fatalf("unexpected target: %#v", target)
	}

	if _, ok, err := store.ResolveTarget(ctx, "muted"); err != nil || ok {
		t.Fatalf("muted user should have no target: ok=%v err=%v", ok, err)
	}

	if _, ok, err := store.ResolveTarget(ctx, "ghost"); err != nil || ok {
		t.Fatalf("unknown user should be absent, not an error: ok=%v err=%v", ok, err)
	}
}

func TestSweepStoreNotificationGate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-02-09T10:00:00Z")
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")

	if err := repo.CreateUser(ctx, User{
		Username:             "alice",
		WebhookURL:           "https://hooks.example.com/alice",
		NotificationsEnabled: true,
		NotifyEveryMinutes:   30,
		CreatedAt:            created,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	store := NewSweepStore(repo)

	allow, err := store.ShouldNotify(ctx, "alice", now)
	if err != nil || !allow {
		t.Fatalf("never-notified user should be allowed: allow=%v err=%v", allow, err)
	}

	if err := store.MarkNotified(ctx, "alice", now); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	allow, err = store.ShouldNotify(ctx, "alice", now.Add(10*time.Minute))
	if err != nil || allow {
		t.Fatalf("within interval should be blocked: allow=%v err=%v", allow, err)
	}

	allow, err = store.ShouldNotify(ctx, "alice", now.Add(31*time.Minute))
	if err != nil || !allow {
		t.Fatalf("past interval should be allowed: allow=%v err=%v", allow, err)
	}
}

func TestSweepStoreListActiveTasks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	createTestUser(t, repo, "alice")
	created := parseRFC3339(t, "2026-02-09T12:00:00Z")
	deadline := parseRFC3339(t, "2026-02-10T12:00:00Z")

	if err := repo.CreateTask(ctx, Task{
		ID: "t1", Title: "Open", Importance: 8, Deadline: &deadline,
		Owner: "alice", CreatedAt: created,
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasks, err := NewSweepStore(repo).ListActiveTasks(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("unexpected task count: %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != "t1" || got.Deadline == nil || !got.Deadline.Equal(deadline) || got.Owner != "alice" {
		t.Fatalf("unexpected task: %#v", got)
	}
}

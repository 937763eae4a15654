package storage

import "time"

type Task struct {
	ID          string
	Title       string
	Description string
	Importance  float64
	Deadline    *time.Time
	Completed   bool
	Owner       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type User struct {
	Username             string
	WebhookURL           string
	FCMToken             string
	NotificationsEnabled bool
	NotifyEveryMinutes   int
	LastNotifiedAt       *time.Time
	CreatedAt            time.Time
}

type TaskListFilter struct {
	Owner     string
	Completed *bool
	Limit     int
	Offset    int
}

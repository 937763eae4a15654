package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidImportance = errors.New("model: invalid task importance")
	ErrInvalidDeadline   = errors.New("model: invalid task deadline")
)

// Task is the persisted unit of work. Importance is the user-assigned static
// weight (domain range 1-10); Deadline is optional and its absence means the
// task is ranked by importance alone.
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

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if strings.TrimSpace(t.Owner) == "" {
		return errors.New("model: task owner is required")
	}
	if t.Importance <= 0 || math.IsInf(t.Importance, 0) || math.IsNaN(t.Importance) {
		return fmt.Errorf("%w: %v", ErrInvalidImportance, t.Importance)
	}
	if t.Deadline != nil && t.Deadline.IsZero() {
		return fmt.Errorf("%w: zero time", ErrInvalidDeadline)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"time"

	"taskpulse/internal/model"
)

// SweepStore adapts the repository to the collaborator interfaces the
// reminder sweep consumes (task source, user directory, notification log).
type SweepStore struct {
	repo Repository
}

func NewSweepStore(repo Repository) *SweepStore {
	return &SweepStore{repo: repo}
}

func (s *SweepStore) ListActiveTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.repo.ListActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskToModel(row))
	}
	return out, nil
}

// ResolveTarget maps a task owner to a delivery endpoint. An unknown user
// or a user without a usable endpoint is a normal absent result, not an
// error.
func (s *SweepStore) ResolveTarget(ctx context.Context, owner string) (model.NotificationTarget, bool, error) {
	row, err := s.repo.GetUser(ctx, owner)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.NotificationTarget{}, false, nil
		}
		return model.NotificationTarget{}, false, err
	}
	target, ok := userToModel(row).Target()
	return target, ok, nil
}

func (s *SweepStore) ShouldNotify(ctx context.Context, owner string, now time.Time) (bool, error) {
	row, err := s.repo.GetUser(ctx, owner)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	user := userToModel(row)
	if user.NotifyEvery <= 0 || user.LastNotifiedAt == nil {
		return true, nil
	}
	return now.Sub(*user.LastNotifiedAt) >= user.NotifyEvery, nil
}

func (s *SweepStore) MarkNotified(ctx context.Context, owner string, now time.Time) error {
	return s.repo.SetLastNotified(ctx, owner, now)
}

func taskToModel(in Task) model.Task {
	return model.Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Importance:  in.Importance,
		Deadline:    in.Deadline,
		Completed:   in.Completed,
		Owner:       in.Owner,
		CreatedAt:   in.CreatedAt,
		CompletedAt: in.CompletedAt,
	}
}

func userToModel(in User) model.User {
	return model.User{
		Username:             in.Username,
		WebhookURL:           in.WebhookURL,
		FCMToken:             in.FCMToken,
		NotificationsEnabled: in.NotificationsEnabled,
		NotifyEvery:          time.Duration(in.NotifyEveryMinutes) * time.Minute,
		LastNotifiedAt:       in.LastNotifiedAt,
		CreatedAt:            in.CreatedAt,
	}
}

package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)
	ListActiveTasks(ctx context.Context) ([]Task, error)

	CreateUser(ctx context.Context, in User) error
	GetUser(ctx context.Context, username string) (User, error)
	UpdateUser(ctx context.Context, in User) error
	SetLastNotified(ctx context.Context, username string, at time.Time) error
}

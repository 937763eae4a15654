package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, importance, deadline, completed, owner, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Description, in.Importance,
		nullTime(in.Deadline), boolInt(in.Completed), in.Owner, mustTime(in.CreatedAt), nullTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, importance, deadline, completed, owner, created_at, completed_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, importance = ?, deadline = ?, completed = ?, owner = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.Importance,
		nullTime(in.Deadline), boolInt(in.Completed), in.Owner, nullTime(in.CompletedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, title, description, importance, deadline, completed, owner, created_at, completed_at FROM tasks`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Owner != "" {
		clauses = append(clauses, "owner = ?")
		args = append(args, filter.Owner)
	}
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// ListActiveTasks returns every non-completed task. Priority filtering is
// deliberately left to the caller so that store and engine cannot disagree
// on the threshold.
func (r *SQLiteRepository) ListActiveTasks(ctx context.Context) ([]Task, error) {
	completed := false
	return r.ListTasks(ctx, TaskListFilter{Completed: &completed})
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, in User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, webhook_url, fcm_token, notifications_enabled, notify_every_minutes, last_notified_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Username, in.WebhookURL, in.FCMToken, boolInt(in.NotificationsEnabled),
		in.NotifyEveryMinutes, nullTime(in.LastNotifiedAt), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetUser(ctx context.Context, username string) (User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT username, webhook_url, fcm_token, notifications_enabled, notify_every_minutes, last_notified_at, created_at
		FROM users WHERE username = ?`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, in User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET webhook_url = ?, fcm_token = ?, notifications_enabled = ?, notify_every_minutes = ?, last_notified_at = ?
		WHERE username = ?`,
		in.WebhookURL, in.FCMToken, boolInt(in.NotificationsEnabled),
		in.NotifyEveryMinutes, nullTime(in.LastNotifiedAt), in.Username,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) SetLastNotified(ctx context.Context, username string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_notified_at = ? WHERE username = ?`,
		mustTime(at), username)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var deadline sql.NullString
	var completed int
	var created string
	var completedAt sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &out.Importance, &deadline, &completed, &out.Owner, &created, &completedAt); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	deadlineAt, err := parseNullableTime(deadline)
	if err != nil {
		return Task{}, err
	}
	doneAt, err := parseNullableTime(completedAt)
	if err != nil {
		return Task{}, err
	}
	out.CreatedAt = createdAt
	out.Deadline = deadlineAt
	out.Completed = completed == 1
	out.CompletedAt = doneAt
	return out, nil
}

func scanUser(s scanner) (User, error) {
	var out User
	var enabled int
	var lastNotified sql.NullString
	var created string
	if err := s.Scan(&out.Username, &out.WebhookURL, &out.FCMToken, &enabled, &out.NotifyEveryMinutes, &lastNotified, &created); err != nil {
		return User{}, err
	}
	lastAt, err := parseNullableTime(lastNotified)
	if err != nil {
		return User{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return User{}, err
	}
	out.NotificationsEnabled = enabled == 1
	out.LastNotifiedAt = lastAt
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

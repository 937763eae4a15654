package sweep

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskpulse/internal/model"
	"taskpulse/internal/priority"
)

// TaskSource lists the non-completed tasks visible to the scheduler.
// Ordering is not guaranteed.
type TaskSource interface {
	ListActiveTasks(ctx context.Context) ([]model.Task, error)
}

// Directory resolves a task owner to zero-or-one delivery target. The bool
// is false when the owner has no usable target; that is a normal skip, not
// an error.
type Directory interface {
	ResolveTarget(ctx context.Context, owner string) (model.NotificationTarget, bool, error)
}

// Sender delivers one rendered message to one target.
type Sender interface {
	Send(ctx context.Context, target model.NotificationTarget, msg Message) error
}

// Message is the rendered reminder content.
type Message struct {
	TaskID    string
	Title     string
	Body      string
	Priority  float64
	Remaining string
}

// NotificationLog is the optional per-user rate gate: when configured, a
// user who was notified within their NotifyEvery window is skipped and the
// send is recorded after it succeeds. Without it every sweep re-notifies,
// which is the historical behavior.
type NotificationLog interface {
	ShouldNotify(ctx context.Context, owner string, now time.Time) (bool, error)
	MarkNotified(ctx context.Context, owner string, now time.Time) error
}

// Report summarizes one sweep.
type Report struct {
	Evaluated       int
	Notified        int
	SkippedNoTarget int
	SkippedInterval int
	SendFailed      int
}

// Sweeper evaluates the active task set against the high-urgency threshold
// and dispatches one notification attempt per qualifying task. It holds no
// state between runs; eligibility is recomputed from scratch every time.
type Sweeper struct {
	Params priority.Params
	Source TaskSource
	Dir    Directory
	Sender Sender
	Logger *log.Logger

	// Log enables the per-user notification interval gate when non-nil.
	Log NotificationLog
}

func NewSweeper(params priority.Params, source TaskSource, dir Directory, sender Sender, logger *log.Logger) (*Sweeper, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if source == nil || dir == nil || sender == nil {
		return nil, fmt.Errorf("sweep: source, directory and sender are required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Sweeper{Params: params, Source: source, Dir: dir, Sender: sender, Logger: logger}, nil
}

// Run executes one sweep at the given instant. A listing failure aborts the
// whole run; every per-task failure is converted into a report counter and
// iteration continues. Cancellation is honored between tasks: the partial
// report is returned together with the context error.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (Report, error) {
	var report Report

	tasks, err := s.Source.ListActiveTasks(ctx)
	if err != nil {
		return report, fmt.Errorf("sweep: list active tasks: %w", err)
	}

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if task.Completed {
			continue
		}
		report.Evaluated++

		value, err := s.Params.Compute(task.Importance, task.Deadline, now)
		if err != nil {
			s.Logger.Printf("sweep: task %s: %v", task.ID, err)
			continue
		}
		if s.Params.Classify(value, task.Deadline != nil) != priority.BandHigh {
			continue
		}

		if s.Log != nil {
			allow, err := s.Log.ShouldNotify(ctx, task.Owner, now)
			if err != nil {
				s.Logger.Printf("sweep: task %s: notification gate for %s: %v", task.ID, task.Owner, err)
			} else if !allow {
				report.SkippedInterval++
				continue
			}
		}

		target, ok, err := s.Dir.ResolveTarget(ctx, task.Owner)
		if err != nil {
			report.SkippedNoTarget++
			s.Logger.Printf("sweep: task %s: resolve target for %s: %v", task.ID, task.Owner, err)
			continue
		}
		if !ok {
			report.SkippedNoTarget++
			s.Logger.Printf("sweep: task %s: no notification target for %s", task.ID, task.Owner)
			continue
		}

		msg := renderMessage(task, value, now)
		if err := s.Sender.Send(ctx, target, msg); err != nil {
			report.SendFailed++
			s.Logger.Printf("sweep: task %s: send: %v", task.ID, err)
			continue
		}
		report.Notified++
		if s.Log != nil {
			if err := s.Log.MarkNotified(ctx, task.Owner, now); err != nil {
				s.Logger.Printf("sweep: task %s: record notification for %s: %v", task.ID, task.Owner, err)
			}
		}
	}
	return report, nil
}

func renderMessage(task model.Task, value float64, now time.Time) Message {
	msg := Message{
		TaskID:   task.ID,
		Title:    task.Title,
		Body:     fmt.Sprintf("「%s」がまだ完了していません。", task.Title),
		Priority: value,
	}
	if task.Deadline != nil {
		msg.Remaining = priority.FormatRemaining(priority.HoursRemaining(*task.Deadline, now))
	}
	return msg
}

package commands

import (
	"errors"
	"testing"
	"time"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"done 4f2a", TypeDone},
		{"rm 4f2a", TypeRm},
		{"show done", TypeShow},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddTokens(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	cmd, err := ParseAt("add file the report !8 @+2h", now)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Title != "file the report" {
		t.Fatalf("unexpected title: %q", cmd.Add.Title)
	}
	if cmd.Add.Importance != 8 {
		t.Fatalf("unexpected importance: %v", cmd.Add.Importance)
	}
	if cmd.Add.Deadline == nil || !cmd.Add.Deadline.Equal(now.Add(2*time.Hour)) {
		t.Fatalf("unexpected deadline: %v", cmd.Add.Deadline)
	}
}

func TestParseAddDefaults(t *testing.T) {
	cmd, err := Parse("add water the plants")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Importance != defaultImportance {
		t.Fatalf("importance = %v, want default", cmd.Add.Importance)
	}
	if cmd.Add.Deadline != nil {
		t.Fatalf("expected no deadline, got %v", cmd.Add.Deadline)
	}
}

func TestParseAddDeadlineFormats(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		token string
		want  time.Time
	}{
		{"@+3d", now.Add(72 * time.Hour)},
		{"@2026-03-01", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"@2026-03-01T09:30", time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		cmd, err := ParseAt("add x "+tc.token, now)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.token, err)
		}
		if cmd.Add.Deadline == nil || !cmd.Add.Deadline.Equal(tc.want) {
			t.Fatalf("deadline for %q = %v, want %v", tc.token, cmd.Add.Deadline, tc.want)
		}
	}
}

func TestParseAddRejectsBadTokens(t *testing.T) {
	for _, in := range []string{"add x !0", "add x !heavy", "add x @yesterday", "add !5 @+1h"} {
		_, err := Parse(in)
		if err == nil {
			t.Fatalf("parse %q should fail", in)
		}
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs !7")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" || a.Importance != 7 {
				t.Fatalf("unexpected args: %+v", a)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("show all")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

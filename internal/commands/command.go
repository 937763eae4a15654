package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd  Type = "add"
	TypeDone Type = "done"
	TypeRm   Type = "rm"
	TypeShow Type = "show"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const defaultImportance = 5

// AddArgs carries a quick-add line. Importance comes from a "!n" token,
// the deadline from an "@when" token; both are optional.
type AddArgs struct {
	Title      string
	Importance float64
	Deadline   *time.Time
}

type DoneArgs struct {
	ID string
}

type RmArgs struct {
	ID string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type Type
	Raw  string
	Add  *AddArgs
	Done *DoneArgs
	Rm   *RmArgs
	Show *ShowArgs
}

func Parse(input string) (Command, error) {
	return ParseAt(input, time.Now().UTC())
}

// ParseAt parses a command line. Relative deadlines ("@+2h", "@+3d")
// resolve against now.
func ParseAt(input string, now time.Time) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args, now)
	case TypeDone:
		return parseDone(input, args)
	case TypeRm:
		return parseRm(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string, now time.Time) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}

	out := AddArgs{Importance: defaultImportance}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "!"):
			value, err := strconv.ParseFloat(strings.TrimPrefix(arg, "!"), 64)
			if err != nil || value <= 0 {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad importance: %s", arg)}
			}
			out.Importance = value
		case strings.HasPrefix(arg, "@"):
			deadline, err := parseWhen(strings.TrimPrefix(arg, "@"), now)
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad deadline: %s", arg)}
			}
			out.Deadline = &deadline
		default:
			words = append(words, arg)
		}
	}

	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseWhen(when string, now time.Time) (time.Time, error) {
	if strings.HasPrefix(when, "+") {
		rest := strings.TrimPrefix(when, "+")
		if strings.HasSuffix(rest, "d") {
			days, err := strconv.Atoi(strings.TrimSuffix(rest, "d"))
			if err != nil || days <= 0 {
				return time.Time{}, fmt.Errorf("commands: bad day offset %q", when)
			}
			return now.Add(time.Duration(days) * 24 * time.Hour), nil
		}
		d, err := time.ParseDuration(rest)
		if err != nil || d <= 0 {
			return time.Time{}, fmt.Errorf("commands: bad duration %q", when)
		}
		return now.Add(d), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, when); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("commands: unparseable deadline %q", when)
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task id"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{ID: args[0]}}, nil
}

func parseRm(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rm requires a task id"}
	}
	return Command{Type: TypeRm, Raw: raw, Rm: &RmArgs{ID: args[0]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	subject := "active"
	if len(args) > 0 {
		subject = strings.ToLower(args[0])
	}
	switch subject {
	case "active", "done", "all":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("show accepts active, done or all, not %s", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

package dashboard

import (
	"sort"
	"time"

	"taskpulse/internal/priority"
	"taskpulse/internal/storage"
)

type SectionKind string

const (
	SectionDeadline  SectionKind = "Due"
	SectionUndated   SectionKind = "Anytime"
	SectionCompleted SectionKind = "Done"
)

// Row is one rendered task line with its priority computed at now.
type Row struct {
	Task      storage.Task
	Priority  float64
	Band      priority.Band
	Remaining string
}

type Sections struct {
	Deadline  []Row
	Undated   []Row
	Completed []Row
}

// BuildSections splits tasks into the three dashboard sections. Deadline
// tasks sort by computed priority descending, undated tasks by raw
// importance descending, completed tasks by completion time newest first.
func BuildSections(tasks []storage.Task, params priority.Params, now time.Time) Sections {
	var s Sections
	for _, task := range tasks {
		if task.Completed {
			s.Completed = append(s.Completed, Row{Task: task})
			continue
		}
		row := Row{Task: task}
		value, err := params.Compute(task.Importance, task.Deadline, now)
		if err != nil {
			value = task.Importance
		}
		row.Priority = value
		row.Band = params.Classify(value, task.Deadline != nil)
		if task.Deadline != nil {
			row.Remaining = priority.FormatRemaining(priority.HoursRemaining(*task.Deadline, now))
			s.Deadline = append(s.Deadline, row)
		} else {
			s.Undated = append(s.Undated, row)
		}
	}

	sort.SliceStable(s.Deadline, func(i, j int) bool {
		return s.Deadline[i].Priority > s.Deadline[j].Priority
	})
	sort.SliceStable(s.Undated, func(i, j int) bool {
		return s.Undated[i].Task.Importance > s.Undated[j].Task.Importance
	})
	sort.SliceStable(s.Completed, func(i, j int) bool {
		ti, tj := s.Completed[i].Task.CompletedAt, s.Completed[j].Task.CompletedAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
	return s
}

func (s Sections) Rows(kind SectionKind) []Row {
	switch kind {
	case SectionDeadline:
		return s.Deadline
	case SectionUndated:
		return s.Undated
	case SectionCompleted:
		return s.Completed
	default:
		return nil
	}
}

var sectionOrder = []SectionKind{SectionDeadline, SectionUndated, SectionCompleted}

func nextSection(current SectionKind) SectionKind {
	for i, kind := range sectionOrder {
		if kind == current {
			return sectionOrder[(i+1)%len(sectionOrder)]
		}
	}
	return SectionDeadline
}

package dashboard

import (
	"testing"
	"time"

	"taskpulse/internal/priority"
	"taskpulse/internal/storage"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestBuildSectionsSplitsAndSorts(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	soon := now.Add(2 * time.Hour)
	later := now.Add(48 * time.Hour)
	doneEarly := now.Add(-2 * time.Hour)
	doneLate := now.Add(-time.Hour)

	tasks := []storage.Task{
		{ID: "far", Title: "Far deadline", Importance: 9, Deadline: &later},
		{ID: "near", Title: "Near deadline", Importance: 8, Deadline: &soon},
		{ID: "minor", Title: "Minor chore", Importance: 2},
		{ID: "major", Title: "Major chore", Importance: 9},
		{ID: "old-done", Title: "Old done", Importance: 5, Completed: true, CompletedAt: timePtr(doneEarly)},
		{ID: "new-done", Title: "New done", Importance: 5, Completed: true, CompletedAt: timePtr(doneLate)},
	}

	s := BuildSections(tasks, priority.DefaultParams(), now)

	if len(s.Deadline) != 2 || s.Deadline[0].Task.ID != "near" || s.Deadline[1].Task.ID != "far" {
		t.Fatalf("deadline section misordered: %+v", s.Deadline)
	}
	if len(s.Undated) != 2 || s.Undated[0].Task.ID != "major" || s.Undated[1].Task.ID != "minor" {
		t.Fatalf("undated section misordered: %+v", s.Undated)
	}
	if len(s.Completed) != 2 || s.Completed[0].Task.ID != "new-done" || s.Completed[1].Task.ID != "old-done" {
		t.Fatalf("completed section misordered: %+v", s.Completed)
	}
}

func TestBuildSectionsComputesBandsAndRemaining(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	soon := now.Add(3 * time.Hour)

	tasks := []storage.Task{
		{ID: "urgent", Title: "Urgent", Importance: 8, Deadline: &soon},
		{ID: "calm", Title: "Calm", Importance: 3},
	}

	s := BuildSections(tasks, priority.DefaultParams(), now)

	urgent := s.Deadline[0]
	if urgent.Band != priority.BandHigh {
		t.Fatalf("urgent band = %v, want high", urgent.Band)
	}
	if urgent.Remaining != "3.0 hours" {
		t.Fatalf("remaining = %q", urgent.Remaining)
	}

	calm := s.Undated[0]
	if calm.Band != priority.BandNone {
		t.Fatalf("calm band = %v, want none", calm.Band)
	}
	if calm.Priority != 3 {
		t.Fatalf("undated priority = %v, want raw importance", calm.Priority)
	}
}

func TestNextSectionCycles(t *testing.T) {
	cases := []struct {
		in   SectionKind
		want SectionKind
	}{
		{SectionDeadline, SectionUndated},
		{SectionUndated, SectionCompleted},
		{SectionCompleted, SectionDeadline},
		{SectionKind("bogus"), SectionDeadline},
	}
	for _, tc := range cases {
		if got := nextSection(tc.in); got != tc.want {
			t.Fatalf("nextSection(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

package priority

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestComputeNoDeadlineReturnsImportance(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	for _, importance := range []float64{1, 5.5, 10} {
		got, err := params.Compute(importance, nil, now)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if got != importance {
			t.Fatalf("importance %v: got %v", importance, got)
		}
	}
}

func TestComputeAtDeadlineEqualsImportance(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	deadline := now
	got, err := params.Compute(8, &deadline, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got != 8 {
		t.Fatalf("expected exactly importance at hoursRemaining=0, got %v", got)
	}
}

func TestComputeTwoHoursOut(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(2 * time.Hour)
	got, err := params.Compute(8, &deadline, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	want := 8 / math.Sqrt(3)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v, want %v", got, want)
	}
	if params.Classify(got, true) != BandHigh {
		t.Fatalf("expected high band for %v", got)
	}
}

func TestComputeMonotonicTowardDeadline(t *testing.T) {
	params := DefaultParams()
	deadline := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	prev := -1.0
	for offset := 72 * time.Hour; offset >= 0; offset -= time.Hour {
		now := deadline.Add(-offset)
		got, err := params.Compute(6, &deadline, now)
		if err != nil {
			t.Fatalf("compute at -%v: %v", offset, err)
		}
		if got < prev {
			t.Fatalf("priority decreased at -%v: %v -> %v", offset, prev, got)
		}
		prev = got
	}
}

func TestComputeOverdueMultiplicative(t *testing.T) {
	params := DefaultParams()
	deadline := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	now := deadline.Add(3 * time.Hour)
	got, err := params.Compute(5, &deadline, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if math.Abs(got-6.5) > 1e-12 {
		t.Fatalf("got %v, want 6.5", got)
	}
	if params.Classify(got, true) != BandHigh {
		t.Fatalf("expected high band for %v", got)
	}

	// Strictly increasing while overdue.
	later, err := params.Compute(5, &deadline, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if later <= got {
		t.Fatalf("overdue priority did not grow: %v -> %v", got, later)
	}
}

func TestComputeOverdueFrozen(t *testing.T) {
	params := DefaultParams()
	params.OverduePolicy = OverdueFrozen
	deadline := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	now := deadline.Add(30 * time.Hour)
	got, err := params.Compute(5, &deadline, now)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got != 5 {
		t.Fatalf("frozen policy should plateau at importance, got %v", got)
	}
}

func TestComputeRejectsInvalidImportance(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	for _, importance := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		_, err := params.Compute(importance, nil, now)
		if err == nil || !errors.Is(err, ErrInvalidImportance) {
			t.Fatalf("importance %v: expected ErrInvalidImportance, got %v", importance, err)
		}
	}
}

func TestClassifyDeadlineBoundaries(t *testing.T) {
	params := DefaultParams()
	cases := []struct {
		value float64
		want  Band
	}{
		{2.0, BandHigh},
		{4.62, BandHigh},
		{1.999, BandMedium},
		{0.51, BandMedium},
		{0.5, BandNone},
		{0.1, BandNone},
	}
	for _, tc := range cases {
		if got := params.Classify(tc.value, true); got != tc.want {
			t.Fatalf("classify(%v): got %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestClassifyLegacyNotificationBound(t *testing.T) {
	params := DefaultParams()
	params.MediumBound = LegacyNotificationBound
	if got := params.Classify(0.6, true); got != BandNone {
		t.Fatalf("0.6 under legacy bound: got %s, want none", got)
	}
	if got := params.Classify(0.65, true); got != BandMedium {
		t.Fatalf("0.65 under legacy bound: got %s, want medium", got)
	}
}

func TestClassifyByImportance(t *testing.T) {
	params := DefaultParams()
	cases := []struct {
		value float64
		want  Band
	}{
		{9, BandHigh},
		{10, BandHigh},
		{7, BandMedium},
		{8.5, BandMedium},
		{6, BandNone},
		{1, BandNone},
	}
	for _, tc := range cases {
		if got := params.Classify(tc.value, false); got != tc.want {
			t.Fatalf("classify(%v, no deadline): got %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	params := DefaultParams()
	if err := params.Validate(); err != nil {
		t.Fatalf("default params should validate: %v", err)
	}

	params.OverduePolicy = OverduePolicy("linear")
	if err := params.Validate(); err == nil || !errors.Is(err, ErrInvalidPolicy) {
		t.Fatalf("expected ErrInvalidPolicy, got %v", err)
	}

	params = DefaultParams()
	params.MediumBound = 3
	if err := params.Validate(); err == nil {
		t.Fatal("expected error for medium bound above high threshold")
	}
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		hours float64
		want  string
	}{
		{1.25, "1.2 hours"},
		{23.94, "23.9 hours"},
		{26, "1 days 2 hours"},
		{50.5, "2 days 2 hours"},
		{-3, "overdue by 3.0 hours"},
		{-30, "overdue by 1 days 6 hours"},
	}
	for _, tc := range cases {
		if got := FormatRemaining(tc.hours); got != tc.want {
			t.Fatalf("format(%v): got %q, want %q", tc.hours, got, tc.want)
		}
	}
}

func TestHoursRemaining(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(90 * time.Minute)
	if got := HoursRemaining(deadline, now); got != 1.5 {
		t.Fatalf("got %v, want 1.5", got)
	}
	if got := HoursRemaining(now, deadline); got != -1.5 {
		t.Fatalf("got %v, want -1.5", got)
	}
}

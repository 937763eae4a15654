package priority

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidImportance = errors.New("priority: invalid importance")
	ErrInvalidPolicy     = errors.New("priority: invalid overdue policy")
)

// OverduePolicy selects how priority behaves once a deadline has passed:
// either it keeps climbing or it holds at the value reached when the
// deadline hit. Multiplicative is the default; it keeps overdue tasks
// strictly ahead of tasks that are merely due now.
type OverduePolicy string

const (
	// OverdueMultiplicative grows priority as importance * (1 + |h|/rate).
	OverdueMultiplicative OverduePolicy = "multiplicative"
	// OverdueFrozen holds priority at the hoursRemaining = 0 value, which
	// equals raw importance.
	OverdueFrozen OverduePolicy = "frozen"
)

func (p OverduePolicy) IsValid() bool {
	switch p {
	case OverdueMultiplicative, OverdueFrozen:
		return true
	default:
		return false
	}
}

// Band is the discrete urgency classification used for UI emphasis and for
// the notification gate.
type Band string

const (
	BandNone   Band = "none"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Params carries the tunable constants of the engine. MediumBound has a
// second historical value, LegacyNotificationBound; DefaultParams uses the
// dashboard value 0.5.
type Params struct {
	Damping       float64
	OverduePolicy OverduePolicy
	OverdueRate   float64
	HighThreshold float64
	MediumBound   float64

	// Importance-only banding for tasks without a deadline.
	ImportanceHigh   float64
	ImportanceMedium float64
}

func DefaultParams() Params {
	return Params{
		Damping:          0.5,
		OverduePolicy:    OverdueMultiplicative,
		OverdueRate:      10,
		HighThreshold:    2.0,
		MediumBound:      0.5,
		ImportanceHigh:   9,
		ImportanceMedium: 7,
	}
}

// LegacyNotificationBound is the stricter medium lower bound observed on
// the notification path. Assign it to Params.MediumBound to reproduce that
// behavior.
const LegacyNotificationBound = 0.64

func (p Params) Validate() error {
	if !p.OverduePolicy.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, p.OverduePolicy)
	}
	if p.Damping <= 0 {
		return errors.New("priority: damping must be positive")
	}
	if p.OverdueRate <= 0 {
		return errors.New("priority: overdue rate must be positive")
	}
	if p.MediumBound >= p.HighThreshold {
		return errors.New("priority: medium bound must be below high threshold")
	}
	if p.ImportanceMedium >= p.ImportanceHigh {
		return errors.New("priority: importance medium bound must be below high bound")
	}
	return nil
}

// HoursRemaining is the signed distance from now to the deadline in hours;
// negative means overdue.
func HoursRemaining(deadline, now time.Time) float64 {
	return deadline.Sub(now).Hours()
}

// Compute derives the time-sensitive priority of a task. Tasks without a
// deadline keep their raw importance. With a deadline, priority rises
// smoothly toward the deadline: at hoursRemaining = 0 the result is exactly
// importance, and for a fixed deadline the value never decreases as now
// advances.
func (p Params) Compute(importance float64, deadline *time.Time, now time.Time) (float64, error) {
	if importance <= 0 || math.IsNaN(importance) || math.IsInf(importance, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImportance, importance)
	}
	if deadline == nil {
		return importance, nil
	}
	hours := HoursRemaining(*deadline, now)
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, fmt.Errorf("priority: invalid deadline %v", *deadline)
	}
	if hours >= 0 {
		return importance / math.Pow(hours+1, p.Damping), nil
	}
	switch p.OverduePolicy {
	case OverdueFrozen:
		return importance, nil
	default:
		return importance * (1 + -hours/p.OverdueRate), nil
	}
}

// Classify maps a priority value (or raw importance for tasks without a
// deadline) onto a Band.
func (p Params) Classify(value float64, hasDeadline bool) Band {
	if !hasDeadline {
		switch {
		case value >= p.ImportanceHigh:
			return BandHigh
		case value >= p.ImportanceMedium:
			return BandMedium
		default:
			return BandNone
		}
	}
	switch {
	case value >= p.HighThreshold:
		return BandHigh
	case value > p.MediumBound:
		return BandMedium
	default:
		return BandNone
	}
}

// FormatRemaining renders a signed remaining-hours value the way the task
// dashboard shows it: fractional hours below a day, days plus whole hours
// above, and an overdue prefix once the deadline has passed.
func FormatRemaining(hours float64) string {
	overdue := hours < 0
	abs := math.Abs(hours)

	var body string
	if abs < 24 {
		body = fmt.Sprintf("%.1f hours", abs)
	} else {
		days := math.Floor(abs / 24)
		rem := abs - days*24
		body = fmt.Sprintf("%.0f days %.0f hours", days, rem)
	}
	if overdue {
		return "overdue by " + body
	}
	return body
}

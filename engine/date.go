/*
Package engine provides the core compliance deadline engine.

PURPOSE:
  This package contains the domain-agnostic machinery for tracking recurring
  compliance obligations: the day-granular Date type, the business calendar,
  the task model, the status state machine, the lock predicate,
  reconciliation of regenerated task sets, and the series mutation planner
  for manually created recurring tasks.

KEY CONCEPTS:
  - Date: A calendar day (no time-of-day), the unit all deadlines use
  - Task: One concrete, dated obligation owed by a legal entity
  - LegalEntity: A taxable unit whose attributes drive rule applicability
  - Tracker: The single logical owner of the in-memory task collection

DESIGN PRINCIPLES:
  1. Purity: status, lock, reconciliation and planning are pure functions
  2. Determinism: automatic task identity is a function of entity+rule+period
  3. Degradation: configuration errors skip a rule, never abort a batch

SEE ALSO:
  - calendar.go: Weekend/holiday predicates and transfer policies
  - status.go: Status state machine
  - tracker.go: Orchestration and persistence boundaries
*/
package engine

import (
	"time"
)

// =============================================================================
// DATE - Day-granular calendar date
// =============================================================================

// Date is a calendar day in UTC. All deadline arithmetic in the engine is
// day-granular; time-of-day only exists as an optional display/reminder hint
// on tasks.
type Date struct {
	Time time.Time
}

// Constructors

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a wall-clock instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO "2006-01-02" date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Comparison

func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic

func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties

func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Quarter returns the calendar quarter (1-4) containing the date.
func (d Date) Quarter() int {
	return (int(d.Month())-1)/3 + 1
}

func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// JSON encoding uses ISO date strings; this is the wire format the
// persistence layer round-trips.

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	// Tolerate full RFC3339 timestamps from older exports.
	if len(s) > 10 {
		s = s[:10]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns the signed number of days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}

// LastDayOfMonth returns the day number of the last day of the month.
func LastDayOfMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// EndOfQuarter returns the last day of the given quarter (1-4).
func EndOfQuarter(year, quarter int) Date {
	return EndOfMonth(year, time.Month(quarter*3))
}

// StartOfQuarter returns the first day of the given quarter (1-4).
func StartOfQuarter(year, quarter int) Date {
	return NewDate(year, time.Month((quarter-1)*3+1), 1)
}

// MonthsBetween returns the inclusive span in months between two dates,
// counting partial months. A patent running Feb 10 - Aug 9 spans 7 months.
func MonthsBetween(from, to Date) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month()) + 1
}

package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type TaskID string
type SeriesID string
type RuleID string

// =============================================================================
// CADENCE, REMINDER, STATUS
// =============================================================================

// Cadence is how often an obligation recurs. Rule-generated obligations use
// monthly/quarterly/yearly; manual series may additionally be daily/weekly.
type Cadence string

const (
	CadenceNone      Cadence = "none"
	CadenceDaily     Cadence = "daily"
	CadenceWeekly    Cadence = "weekly"
	CadenceMonthly   Cadence = "monthly"
	CadenceQuarterly Cadence = "quarterly"
	CadenceYearly    Cadence = "yearly"
)

// SubPeriods returns how many sub-period instances a rule cadence expands to
// per year. Non-rule cadences report zero.
func (c Cadence) SubPeriods() int {
	switch c {
	case CadenceMonthly:
		return 12
	case CadenceQuarterly:
		return 4
	case CadenceYearly:
		return 1
	default:
		return 0
	}
}

// Step advances an occurrence date by one cadence interval.
func (c Cadence) Step(d Date) Date {
	switch c {
	case CadenceDaily:
		return d.AddDays(1)
	case CadenceWeekly:
		return d.AddDays(7)
	case CadenceMonthly:
		return d.AddMonths(1)
	case CadenceQuarterly:
		return d.AddMonths(3)
	case CadenceYearly:
		return d.AddYears(1)
	default:
		return d
	}
}

// Reminder is the lead time before the due date at which the external
// notification scheduler should fire.
type Reminder string

const (
	RemindNever   Reminder = "none"
	RemindOneHour Reminder = "1h"
	RemindOneDay  Reminder = "1d"
	RemindOneWeek Reminder = "1w"
)

// Status is the live, time-dependent state of a task. See status.go for the
// transition function.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusUpcoming  Status = "upcoming"
	StatusDueSoon   Status = "due_soon"
	StatusDueToday  Status = "due_today"
	StatusOverdue   Status = "overdue"
	StatusCompleted Status = "completed"
)

// ValidStatus reports whether s is one of the known statuses. Persistence
// loads older exports; unknown statuses are normalized to Upcoming by the
// caller rather than rejected.
func ValidStatus(s Status) bool {
	switch s {
	case StatusLocked, StatusUpcoming, StatusDueSoon, StatusDueToday,
		StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

// =============================================================================
// PROVENANCE - Structured origin of an automatic task
// =============================================================================

// Provenance records which rule and period produced an automatic task.
// It is stored directly on the task so reconciliation and the lock predicate
// derive period boundaries by lookup instead of parsing the task id.
type Provenance struct {
	RuleID    RuleID `json:"rule_id"`
	Year      int    `json:"year"`
	SubPeriod int    `json:"sub_period"`
	// PatentID is set on patent-derived tasks, which have no catalog rule.
	PatentID string `json:"patent_id,omitempty"`
}

// =============================================================================
// TASK - One concrete, dated obligation
// =============================================================================

// Task is the materialized obligation shown to the operator.
//
// Automatic tasks are created and refreshed by the generator+reconciliation
// pipeline and are never deleted directly (deleting the entity removes them).
// Manual tasks are created, edited and deleted by the operator, with
// series-aware fan-out handled by the SeriesPlanner.
type Task struct {
	ID       TaskID   `json:"id"`
	EntityID EntityID `json:"entity_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	DueDate Date   `json:"due_date"`
	DueTime string `json:"due_time,omitempty"` // "15:04", display/reminder hint

	Transfer TransferPolicy `json:"transfer"`
	Cadence  Cadence        `json:"cadence"`
	Reminder Reminder       `json:"reminder"`

	Status    Status   `json:"status"`
	Automatic bool     `json:"automatic"`
	SeriesID  SeriesID `json:"series_id,omitempty"`

	// PeriodLocked marks obligations that cannot be completed before their
	// reporting period opens (filing obligations). Renewal reminders and
	// manual tasks are never period-locked.
	PeriodLocked bool `json:"period_locked"`

	Provenance *Provenance `json:"provenance,omitempty"`

	// PaymentShare is the fraction of a patent's cost covered by this
	// payment obligation (1, 1/3 or 2/3). Zero for non-payment tasks.
	PaymentShare decimal.Decimal `json:"payment_share,omitempty"`
}

// Completed reports whether the operator has marked the task done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

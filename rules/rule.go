/*
Package rules holds the declarative obligation catalog and the generator
that expands it into dated tasks.

PURPOSE:
  Jurisdiction filing rules are data, not code: each Rule carries an
  applicability predicate over entity attributes, a recurrence cadence, a
  date-construction recipe, a period-start recipe, a title template and a
  transfer policy. The catalog grows without touching generation logic, and
  applicability routes different tax regimes to different obligation sets
  without branching in the generator.

KEY CONCEPTS:
  - Rule: One obligation template; (rule, year, sub-period) -> one Task
  - DateSpec: How the raw due date is constructed per cadence
  - PeriodStartSpec: When the reporting period opens (drives the lock
    predicate); statutory oddities are per-rule configuration here, not
    special cases in code

SEE ALSO:
  - catalog.go: The bundled rule table
  - generator.go: Expansion across the rolling year window
  - lock.go: Catalog-backed lock predicate
*/
package rules

import (
	"time"

	"github.com/clerkdesk/compliance-engine/engine"
)

// =============================================================================
// APPLICABILITY - Predicate over entity attributes, as data
// =============================================================================

// Applicability selects which entities a rule generates obligations for.
// Empty Regimes means any regime.
type Applicability struct {
	Regimes           []engine.TaxRegime
	RequiresEmployees bool
}

func (a Applicability) Matches(e engine.LegalEntity) bool {
	if a.RequiresEmployees && !e.HasEmployees {
		return false
	}
	if len(a.Regimes) == 0 {
		return true
	}
	for _, r := range a.Regimes {
		if e.TaxRegime == r {
			return true
		}
	}
	return false
}

// =============================================================================
// DATE RECIPES
// =============================================================================

// SpecialDate tags date recipes resolved by the business calendar instead
// of arithmetic.
type SpecialDate string

const (
	SpecialNone                  SpecialDate = ""
	SpecialLastBusinessDayOfYear SpecialDate = "last_business_day_of_year"
)

// DateSpec constructs the raw due date for one sub-period.
//
// The fields a cadence reads:
//
//	yearly     Day + Month, or Special
//	monthly    Day + MonthOffset relative to the reporting month
//	quarterly  Day + QuarterMonthOffset relative to the quarter-end month
//
// A spec missing the fields its cadence requires is a configuration error;
// the generator logs it and skips the rule.
type DateSpec struct {
	Day   int
	Month time.Month

	MonthOffset        int
	QuarterMonthOffset int

	Special SpecialDate
}

// PeriodStartSpec describes when a sub-period's reporting window opens,
// relative to the reporting month (monthly cadence only). The zero value
// means the cadence default: the first day of the due month. Day 23 with
// MonthOffset 0 expresses the payroll-withholding window that opens on
// the 23rd of the month before the payment falls due.
type PeriodStartSpec struct {
	Day         int
	MonthOffset int
}

// =============================================================================
// RULE
// =============================================================================

// Rule is one immutable obligation template from the catalog.
type Rule struct {
	ID      engine.RuleID
	Name    string
	Applies Applicability

	Cadence     engine.Cadence
	Date        DateSpec
	PeriodStart PeriodStartSpec

	Transfer      engine.TransferPolicy
	TitleTemplate string

	// ExcludeSubPeriods removes sub-period indexes with no obligation,
	// e.g. quarterly advance payments that have no 4th instance.
	ExcludeSubPeriods []int

	// CoversPriorYear marks yearly rules whose reporting period is the
	// previous calendar year (annual declarations filed in spring).
	CoversPriorYear bool

	PeriodLocked bool
	Reminder     engine.Reminder
}

func (r Rule) excluded(subPeriod int) bool {
	for _, sp := range r.ExcludeSubPeriods {
		if sp == subPeriod {
			return true
		}
	}
	return false
}

// =============================================================================
// TABLE
// =============================================================================

// Table is the process-wide rule catalog, loaded at startup and scanned
// linearly per entity per year.
type Table []Rule

// Find looks a rule up by id.
func (t Table) Find(id engine.RuleID) (Rule, bool) {
	for _, r := range t {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// =============================================================================
// PERIOD DERIVATION
// =============================================================================

// reportingPeriodEnd returns the last day of the reporting period for one
// sub-period. Generation skips any sub-period that closed before the entity
// existed.
func (r Rule) reportingPeriodEnd(year, subPeriod int) engine.Date {
	switch r.Cadence {
	case engine.CadenceMonthly:
		return engine.EndOfMonth(year, time.Month(subPeriod))
	case engine.CadenceQuarterly:
		return engine.EndOfQuarter(year, subPeriod)
	default:
		if r.CoversPriorYear {
			return engine.EndOfYear(year - 1)
		}
		return engine.EndOfYear(year)
	}
}

// reportingPeriodStart returns the day the sub-period's filing window
// opens; the lock predicate compares "now" against it.
func (r Rule) reportingPeriodStart(year, subPeriod int) engine.Date {
	switch r.Cadence {
	case engine.CadenceMonthly:
		if r.PeriodStart != (PeriodStartSpec{}) {
			return engine.NewDate(year, time.Month(subPeriod+r.PeriodStart.MonthOffset), r.PeriodStart.Day)
		}
		// Default: the filing window opens with the due month.
		return engine.StartOfMonth(year, time.Month(subPeriod+r.Date.MonthOffset))
	case engine.CadenceQuarterly:
		// Filing opens the first day of the month following the quarter.
		return engine.NewDate(year, time.Month(subPeriod*3+1), 1)
	default:
		if r.Date.Special == SpecialLastBusinessDayOfYear {
			// December-due year-end rules open on December 23rd.
			return engine.NewDate(year, time.December, 23)
		}
		return engine.StartOfYear(year)
	}
}

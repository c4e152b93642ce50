/*
generator.go - Expansion of the rule catalog into dated tasks

PURPOSE:
  Expands every applicable rule against one entity across a rolling window
  of years, producing concrete obligation instances with deterministic
  identity. Patent obligations come from a dedicated sub-generator
  (patents.go).

IDENTITY:
  auto-{entityID}-{ruleID}-{year}-{subPeriod}, plus a structured Provenance
  record stored on the task. Reconciliation matches by id; the lock
  predicate derives period boundaries from the provenance, never from the
  id string.

PRE-CREATION INVARIANT:
  A sub-period whose reporting period closed before the entity existed is
  skipped entirely, and every computed due date is checked against the
  entity's creation date again before being emitted. The generator never
  materializes an obligation older than its entity.

FAILURE SEMANTICS:
  A rule with a malformed date recipe is logged and skipped; the batch
  always produces what it can.
*/
package rules

import (
	"fmt"
	"log"
	"time"

	"github.com/clerkdesk/compliance-engine/engine"
)

// WindowYears is how many calendar years the rolling generation window
// spans, starting at max(entity creation year, current year).
const WindowYears = 3

// Generator expands the rule table for entities. Implements
// engine.Generator.
type Generator struct {
	Table    Table
	Calendar engine.BusinessCalendar

	// Now is injectable for tests; defaults to engine.Today.
	Now func() engine.Date
}

// NewGenerator builds a generator over a catalog and business calendar.
func NewGenerator(table Table, cal engine.BusinessCalendar) *Generator {
	return &Generator{Table: table, Calendar: cal, Now: engine.Today}
}

var _ engine.Generator = (*Generator)(nil)

// Generate expands all applicable obligations for one entity across the
// rolling window, rule-driven tasks first, then patent-derived ones.
func (g *Generator) Generate(e engine.LegalEntity) []engine.Task {
	if e.Archived {
		return nil
	}

	now := g.now()
	startYear := now.Year()
	if e.CreatedAt.Year() > startYear {
		startYear = e.CreatedAt.Year()
	}

	var tasks []engine.Task
	for _, rule := range g.Table {
		if !rule.Applies.Matches(e) {
			continue
		}
		for year := startYear; year < startYear+WindowYears; year++ {
			tasks = append(tasks, g.expandRule(e, rule, year)...)
		}
	}

	tasks = append(tasks, g.generatePatents(e, startYear, now)...)
	return tasks
}

func (g *Generator) now() engine.Date {
	if g.Now != nil {
		return g.Now()
	}
	return engine.Today()
}

// expandRule emits the tasks of one rule for one year.
func (g *Generator) expandRule(e engine.LegalEntity, rule Rule, year int) []engine.Task {
	subPeriods := rule.Cadence.SubPeriods()
	if subPeriods == 0 {
		log.Printf("[Generator] rule %s has non-rule cadence %q, skipping", rule.ID, rule.Cadence)
		return nil
	}

	var tasks []engine.Task
	for sp := 1; sp <= subPeriods; sp++ {
		if rule.excluded(sp) {
			continue
		}

		// A sub-period that closed before the entity existed never
		// becomes an obligation, regardless of its due date.
		if rule.reportingPeriodEnd(year, sp).Before(e.CreatedAt) {
			continue
		}

		raw, err := g.rawDueDate(rule, year, sp)
		if err != nil {
			log.Printf("[Generator] %v, skipping", err)
			break
		}
		due := g.Calendar.Adjust(raw, rule.Transfer)

		// Second check against CreatedAt: the final due date itself must
		// not precede the entity.
		if due.Before(e.CreatedAt) {
			continue
		}

		tasks = append(tasks, g.materialize(e, rule, year, sp, due))
	}
	return tasks
}

// rawDueDate applies the rule's date recipe for one sub-period.
func (g *Generator) rawDueDate(rule Rule, year, subPeriod int) (engine.Date, error) {
	if rule.Date.Special == SpecialLastBusinessDayOfYear {
		return g.Calendar.LastBusinessDayOfYear(year), nil
	}
	if rule.Date.Day == 0 {
		return engine.Date{}, &engine.RuleConfigError{RuleID: rule.ID, Reason: "date recipe has no day"}
	}

	switch rule.Cadence {
	case engine.CadenceYearly:
		if rule.Date.Month == 0 {
			return engine.Date{}, &engine.RuleConfigError{RuleID: rule.ID, Reason: "yearly recipe has no month"}
		}
		return clampedDate(year, rule.Date.Month, rule.Date.Day), nil

	case engine.CadenceMonthly:
		month := time.Month(subPeriod + rule.Date.MonthOffset)
		return clampedDate(year, month, rule.Date.Day), nil

	case engine.CadenceQuarterly:
		month := time.Month(subPeriod*3 + rule.Date.QuarterMonthOffset)
		return clampedDate(year, month, rule.Date.Day), nil

	default:
		return engine.Date{}, &engine.RuleConfigError{RuleID: rule.ID, Reason: "unsupported cadence"}
	}
}

// clampedDate builds a date, clamping the day to the month's length so a
// "day 31" recipe lands on the last day of shorter months instead of
// rolling over.
func clampedDate(year int, month time.Month, day int) engine.Date {
	// Normalize month overflow first (Dec+1 = Jan next year).
	norm := engine.NewDate(year, month, 1)
	if last := engine.LastDayOfMonth(norm.Year(), norm.Month()); day > last {
		day = last
	}
	return engine.NewDate(norm.Year(), norm.Month(), day)
}

// materialize builds the task record for one (rule, year, sub-period).
func (g *Generator) materialize(e engine.LegalEntity, rule Rule, year, subPeriod int, due engine.Date) engine.Task {
	var month time.Month
	var lastDay, quarter int
	switch rule.Cadence {
	case engine.CadenceMonthly:
		month = time.Month(subPeriod)
		lastDay = engine.LastDayOfMonth(year, month)
	case engine.CadenceQuarterly:
		quarter = subPeriod
	}

	return engine.Task{
		ID:           AutoTaskID(e.ID, rule.ID, year, subPeriod),
		EntityID:     e.ID,
		Title:        renderTitle(rule.TitleTemplate, year, quarter, month, lastDay),
		DueDate:      due,
		Transfer:     rule.Transfer,
		Cadence:      rule.Cadence,
		Reminder:     rule.Reminder,
		Status:       engine.StatusUpcoming,
		Automatic:    true,
		SeriesID:     AutoSeriesID(e.ID, rule.ID),
		PeriodLocked: rule.PeriodLocked,
		Provenance: &engine.Provenance{
			RuleID:    rule.ID,
			Year:      year,
			SubPeriod: subPeriod,
		},
	}
}

// AutoTaskID is the deterministic identity of a rule-generated task.
func AutoTaskID(entity engine.EntityID, rule engine.RuleID, year, subPeriod int) engine.TaskID {
	return engine.TaskID(fmt.Sprintf("auto-%s-%s-%d-%d", entity, rule, year, subPeriod))
}

// AutoSeriesID groups all instances a rule generates for one entity.
func AutoSeriesID(entity engine.EntityID, rule engine.RuleID) engine.SeriesID {
	return engine.SeriesID(fmt.Sprintf("series-auto-%s-%s", entity, rule))
}

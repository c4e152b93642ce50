/*
lock.go - Catalog-backed lock predicate

PURPOSE:
  Filing obligations cannot be satisfied before their reporting period
  opens: a Q1 advance payment is not actionable in January. The predicate
  derives the period-start date from the task's structured provenance and
  the rule's period-start recipe, then compares it against "now".

NEVER LOCKED:
  - manual tasks
  - tasks whose rule opted out (PeriodLocked false), e.g. patent renewal
    reminders, which are actionable immediately
  - tasks whose rule id is unknown (configuration error: logged, degrades
    to unlocked rather than trapping the operator)
*/
package rules

import (
	"log"

	"github.com/clerkdesk/compliance-engine/engine"
)

// LockPredicate implements engine.Locker against a rule table.
type LockPredicate struct {
	Table Table
}

// NewLockPredicate wraps a table.
func NewLockPredicate(table Table) LockPredicate {
	return LockPredicate{Table: table}
}

var _ engine.Locker = LockPredicate{}

// IsLocked reports whether the task's reporting period has not yet opened.
func (l LockPredicate) IsLocked(t engine.Task, now engine.Date) bool {
	if !t.Automatic || !t.PeriodLocked || t.Provenance == nil {
		return false
	}

	start, ok := l.periodStart(*t.Provenance)
	if !ok {
		return false
	}
	return now.Before(start)
}

// periodStart resolves when the task's reporting window opens.
func (l LockPredicate) periodStart(p engine.Provenance) (engine.Date, bool) {
	// Patent obligations belong to their calendar year.
	if p.PatentID != "" {
		return engine.StartOfYear(p.Year), true
	}

	rule, ok := l.Table.Find(p.RuleID)
	if !ok {
		log.Printf("[Lock] unknown rule id %q, treating task as unlocked", p.RuleID)
		return engine.Date{}, false
	}
	return rule.reportingPeriodStart(p.Year, p.SubPeriod), true
}

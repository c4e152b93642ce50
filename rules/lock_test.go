package rules_test

import (
	"testing"
	"time"

	"github.com/clerkdesk/compliance-engine/engine"
	"github.com/clerkdesk/compliance-engine/rules"
)

func lockedTask(rule engine.RuleID, year, subPeriod int) engine.Task {
	return engine.Task{
		ID:           "t1",
		Automatic:    true,
		PeriodLocked: true,
		Provenance:   &engine.Provenance{RuleID: rule, Year: year, SubPeriod: subPeriod},
	}
}

func TestLockPredicate_PeriodBoundaries(t *testing.T) {
	pred := rules.NewLockPredicate(rules.DefaultTable())

	tests := []struct {
		name       string
		task       engine.Task
		now        engine.Date
		wantLocked bool
	}{
		// A Q1 advance is due April 28 and only actionable once the
		// quarter has closed.
		{
			"quarterly locked on the quarter's last day",
			lockedTask(rules.RuleSimplifiedAdvance, 2025, 1),
			engine.NewDate(2025, time.March, 31),
			true,
		},
		{
			"quarterly opens the day after the quarter closes",
			lockedTask(rules.RuleSimplifiedAdvance, 2025, 1),
			engine.NewDate(2025, time.April, 1),
			false,
		},
		// An annual declaration for 2024 opens with calendar year 2025.
		{
			"yearly locked through December of the covered year",
			lockedTask(rules.RuleSimplifiedDeclaration, 2025, 1),
			engine.NewDate(2024, time.December, 31),
			true,
		},
		{
			"yearly opens on January 1",
			lockedTask(rules.RuleSimplifiedDeclaration, 2025, 1),
			engine.NewDate(2025, time.January, 1),
			false,
		},
		// Year-end contributions open late December, not in January.
		{
			"year-end special locked in autumn",
			lockedTask(rules.RuleFixedContributions, 2025, 1),
			engine.NewDate(2025, time.October, 1),
			true,
		},
		{
			"year-end special opens December 23",
			lockedTask(rules.RuleFixedContributions, 2025, 1),
			engine.NewDate(2025, time.December, 23),
			false,
		},
		// Payroll for March: the withholding window opens on the 23rd of
		// the reporting month itself, a per-rule statutory quirk.
		{
			"payroll locked before the 23rd of the reporting month",
			lockedTask(rules.RulePayrollTax, 2025, 3),
			engine.NewDate(2025, time.March, 22),
			true,
		},
		{
			"payroll opens on the 23rd",
			lockedTask(rules.RulePayrollTax, 2025, 3),
			engine.NewDate(2025, time.March, 23),
			false,
		},
		// Personnel report for March is due in April and opens with it.
		{
			"monthly default locked through the reporting month",
			lockedTask(rules.RulePersonnelReport, 2025, 3),
			engine.NewDate(2025, time.March, 31),
			true,
		},
		{
			"monthly default opens with the due month",
			lockedTask(rules.RulePersonnelReport, 2025, 3),
			engine.NewDate(2025, time.April, 1),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pred.IsLocked(tt.task, tt.now); got != tt.wantLocked {
				t.Errorf("IsLocked at %s = %v, want %v", tt.now, got, tt.wantLocked)
			}
		})
	}
}

func TestLockPredicate_PatentTasksLockByCalendarYear(t *testing.T) {
	pred := rules.NewLockPredicate(rules.DefaultTable())

	task := engine.Task{
		ID:           "t1",
		Automatic:    true,
		PeriodLocked: true,
		Provenance:   &engine.Provenance{RuleID: rules.RulePatentPayment, Year: 2026, SubPeriod: 1, PatentID: "p1"},
	}

	if !pred.IsLocked(task, engine.NewDate(2025, time.December, 31)) {
		t.Error("a 2026 patent payment should be locked during 2025")
	}
	if pred.IsLocked(task, engine.NewDate(2026, time.January, 1)) {
		t.Error("a 2026 patent payment should open with its calendar year")
	}
}

func TestLockPredicate_NeverLockedCases(t *testing.T) {
	pred := rules.NewLockPredicate(rules.DefaultTable())
	longAgo := engine.NewDate(2020, time.January, 1)

	// Manual tasks are never locked.
	manual := engine.Task{ID: "m1", Automatic: false}
	if pred.IsLocked(manual, longAgo) {
		t.Error("manual tasks must never lock")
	}

	// Rules that opted out, like renewal reminders.
	renewal := lockedTask(rules.RulePatentRenewal, 2026, 1)
	renewal.PeriodLocked = false
	if pred.IsLocked(renewal, longAgo) {
		t.Error("PeriodLocked=false must never lock")
	}

	// A rule id no longer in the catalog degrades to unlocked instead of
	// trapping the operator.
	unknown := lockedTask("retired-rule", 2026, 1)
	if pred.IsLocked(unknown, longAgo) {
		t.Error("unknown rule ids must degrade to unlocked")
	}

	// Automatic tasks without provenance (older exports) are unlocked.
	bare := engine.Task{ID: "b1", Automatic: true, PeriodLocked: true}
	if pred.IsLocked(bare, longAgo) {
		t.Error("missing provenance must degrade to unlocked")
	}
}

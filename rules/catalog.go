/*
catalog.go - The bundled obligation rule table

PURPOSE:
  The statutory filing calendar for the supported jurisdiction, expressed as
  Rule data. Dates follow the unified tax payment deadlines: returns on the
  25th, payments on the 28th of the month after the reporting period.

CONVENTIONS:
  - Quarterly advance payments exclude the 4th sub-period; the annual
    declaration covers it.
  - Annual declarations are filed in spring for the prior calendar year
    (CoversPriorYear).
  - Employee rules are monthly with MonthOffset 1: the obligation for
    reporting month M is due in month M+1, moved to the PREVIOUS business
    day because these are hard statutory cutoffs.
  - The payroll rule's reporting window opens on the 23rd of the prior
    month (PeriodStartSpec), a statutory quirk configured per-rule rather
    than special-cased in the lock predicate.
*/
package rules

import (
	"time"

	"github.com/clerkdesk/compliance-engine/engine"
)

// Rule ids are stable: task identity and provenance reference them.
const (
	RuleSimplifiedAdvance      engine.RuleID = "usn-advance"
	RuleSimplifiedDeclaration  engine.RuleID = "usn-declaration"
	RuleFixedContributions     engine.RuleID = "fixed-contributions"
	RuleVATReturn              engine.RuleID = "vat-return"
	RuleProfitTaxDeclaration   engine.RuleID = "profit-declaration"
	RuleProfitTaxAdvance       engine.RuleID = "profit-advance"
	RulePayrollTax             engine.RuleID = "payroll-tax"
	RulePersonnelReport        engine.RuleID = "personnel-report"
)

var simplifiedRegimes = []engine.TaxRegime{
	engine.RegimeSimplifiedIncome,
	engine.RegimeSimplifiedIncomeExpense,
}

// DefaultTable returns the bundled catalog.
func DefaultTable() Table {
	return Table{
		{
			ID:                RuleSimplifiedAdvance,
			Name:              "Simplified-regime advance payment",
			Applies:           Applicability{Regimes: simplifiedRegimes},
			Cadence:           engine.CadenceQuarterly,
			Date:              DateSpec{Day: 28, QuarterMonthOffset: 1},
			Transfer:          engine.TransferNextBusinessDay,
			TitleTemplate:     "Simplified tax advance payment for Q{quarter} {year}",
			ExcludeSubPeriods: []int{4},
			PeriodLocked:      true,
			Reminder:          engine.RemindOneWeek,
		},
		{
			ID:              RuleSimplifiedDeclaration,
			Name:            "Simplified-regime annual declaration",
			Applies:         Applicability{Regimes: simplifiedRegimes},
			Cadence:         engine.CadenceYearly,
			Date:            DateSpec{Day: 28, Month: time.March},
			Transfer:        engine.TransferNextBusinessDay,
			TitleTemplate:   "Simplified tax return for {year-1}",
			CoversPriorYear: true,
			PeriodLocked:    true,
			Reminder:        engine.RemindOneWeek,
		},
		{
			ID:            RuleFixedContributions,
			Name:          "Fixed insurance contributions",
			Applies:       Applicability{Regimes: simplifiedRegimes},
			Cadence:       engine.CadenceYearly,
			Date:          DateSpec{Special: SpecialLastBusinessDayOfYear},
			Transfer:      engine.TransferNone,
			TitleTemplate: "Fixed insurance contributions for {year}",
			PeriodLocked:  true,
			Reminder:      engine.RemindOneWeek,
		},
		{
			ID:            RuleVATReturn,
			Name:          "VAT return",
			Applies:       Applicability{Regimes: []engine.TaxRegime{engine.RegimeGeneral}},
			Cadence:       engine.CadenceQuarterly,
			Date:          DateSpec{Day: 25, QuarterMonthOffset: 1},
			Transfer:      engine.TransferNextBusinessDay,
			TitleTemplate: "VAT return for Q{quarter} {year}",
			PeriodLocked:  true,
			Reminder:      engine.RemindOneWeek,
		},
		{
			ID:              RuleProfitTaxDeclaration,
			Name:            "Corporate profit tax declaration",
			Applies:         Applicability{Regimes: []engine.TaxRegime{engine.RegimeGeneral}},
			Cadence:         engine.CadenceYearly,
			Date:            DateSpec{Day: 28, Month: time.March},
			Transfer:        engine.TransferNextBusinessDay,
			TitleTemplate:   "Corporate profit tax return for {year-1}",
			CoversPriorYear: true,
			PeriodLocked:    true,
			Reminder:        engine.RemindOneWeek,
		},
		{
			ID:                RuleProfitTaxAdvance,
			Name:              "Corporate profit tax advance",
			Applies:           Applicability{Regimes: []engine.TaxRegime{engine.RegimeGeneral}},
			Cadence:           engine.CadenceQuarterly,
			Date:              DateSpec{Day: 28, QuarterMonthOffset: 1},
			Transfer:          engine.TransferNextBusinessDay,
			TitleTemplate:     "Corporate profit tax advance for Q{quarter} {year}",
			ExcludeSubPeriods: []int{4},
			PeriodLocked:      true,
			Reminder:          engine.RemindOneWeek,
		},
		{
			ID:            RulePayrollTax,
			Name:          "Payroll tax and contributions",
			Applies:       Applicability{RequiresEmployees: true},
			Cadence:       engine.CadenceMonthly,
			Date:          DateSpec{Day: 28, MonthOffset: 1},
			PeriodStart:   PeriodStartSpec{Day: 23, MonthOffset: 0},
			Transfer:      engine.TransferPreviousBusinessDay,
			TitleTemplate: "Payroll tax and contributions for {monthNameGenitive} {year}",
			PeriodLocked:  true,
			Reminder:      engine.RemindOneWeek,
		},
		{
			ID:            RulePersonnelReport,
			Name:          "Personified information report",
			Applies:       Applicability{RequiresEmployees: true},
			Cadence:       engine.CadenceMonthly,
			Date:          DateSpec{Day: 25, MonthOffset: 1},
			Transfer:      engine.TransferPreviousBusinessDay,
			TitleTemplate: "Personified information for {monthNameGenitive} {year}",
			PeriodLocked:  true,
			Reminder:      engine.RemindOneWeek,
		},
	}
}

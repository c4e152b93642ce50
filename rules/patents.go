/*
patents.go - Patent payment and renewal sub-generator

PURPOSE:
  Patents are time-boxed obligation sources outside the rule catalog: the
  payment schedule depends on the patent's duration, and renewal reminders
  only exist while auto-renew is on.

SCHEDULE:
  duration <= 6 months            one full payment at period end
  6 < duration <= 12 months       1/3 payment 90 days after period start,
                                  2/3 payment at period end
  auto-renew                      renewal reminder one month before period
                                  end, for the first renewal-relevant year
                                  only, and never period-locked (renewal is
                                  actionable immediately, unlike a filing)

  Each generated year shifts the patent's original start/end window by
  whole years; the window only extends past the start year when auto-renew
  is on.
*/
package rules

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/clerkdesk/compliance-engine/engine"
)

// Synthetic rule ids for patent-derived provenance. They are not catalog
// entries; the lock predicate recognizes them via Provenance.PatentID.
const (
	RulePatentPayment engine.RuleID = "patent-payment"
	RulePatentRenewal engine.RuleID = "patent-renewal"
)

// paymentSplitThresholdMonths separates single-payment patents from
// two-installment ones.
const paymentSplitThresholdMonths = 6

// firstInstallmentDays is how long after the period start the 1/3
// installment of a long patent is due.
const firstInstallmentDays = 90

var (
	shareFull      = decimal.NewFromInt(1)
	shareOneThird  = decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	shareTwoThirds = decimal.NewFromInt(2).Div(decimal.NewFromInt(3))
)

// generatePatents expands every patent of the entity across the rolling
// window that starts at startYear.
func (g *Generator) generatePatents(e engine.LegalEntity, startYear int, now engine.Date) []engine.Task {
	var tasks []engine.Task
	for _, p := range e.Patents {
		if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
			log.Printf("[Generator] patent %s has invalid window, skipping", p.ID)
			continue
		}

		firstRenewalYear := p.Start.Year()
		if now.Year() > firstRenewalYear {
			firstRenewalYear = now.Year()
		}

		for year := startYear; year < startYear+WindowYears; year++ {
			if year < p.Start.Year() {
				continue
			}
			if year > p.Start.Year() && !p.AutoRenew {
				continue
			}
			tasks = append(tasks, g.patentYear(e, p, year, firstRenewalYear)...)
		}
	}
	return tasks
}

// patentYear emits the payment and renewal obligations for one active year
// of one patent.
func (g *Generator) patentYear(e engine.LegalEntity, p engine.Patent, year, firstRenewalYear int) []engine.Task {
	offset := year - p.Start.Year()
	start := p.Start.AddYears(offset)
	end := p.End.AddYears(offset)
	duration := engine.MonthsBetween(start, end)

	series := engine.SeriesID(fmt.Sprintf("series-patent-%s-%d", p.ID, year))

	emit := func(installment int, rule engine.RuleID, title string, raw engine.Date, transfer engine.TransferPolicy, share decimal.Decimal, locked bool) (engine.Task, bool) {
		due := g.Calendar.Adjust(raw, transfer)
		if due.Before(e.CreatedAt) {
			return engine.Task{}, false
		}
		return engine.Task{
			ID:           PatentTaskID(e.ID, p.ID, rule, year, installment),
			EntityID:     e.ID,
			Title:        title,
			DueDate:      due,
			Transfer:     transfer,
			Cadence:      engine.CadenceYearly,
			Reminder:     engine.RemindOneWeek,
			Status:       engine.StatusUpcoming,
			Automatic:    true,
			SeriesID:     series,
			PeriodLocked: locked,
			PaymentShare: share,
			Provenance: &engine.Provenance{
				RuleID:    rule,
				Year:      year,
				SubPeriod: installment,
				PatentID:  p.ID,
			},
		}, true
	}

	var tasks []engine.Task
	add := func(t engine.Task, ok bool) {
		if ok {
			tasks = append(tasks, t)
		}
	}

	if duration <= paymentSplitThresholdMonths {
		add(emit(1, RulePatentPayment,
			fmt.Sprintf("Patent %q payment for %d", p.Name, year),
			end, engine.TransferPreviousBusinessDay, shareFull, true))
	} else if duration <= 12 {
		add(emit(1, RulePatentPayment,
			fmt.Sprintf("Patent %q payment 1/3 for %d", p.Name, year),
			start.AddDays(firstInstallmentDays), engine.TransferNextBusinessDay, shareOneThird, true))
		add(emit(2, RulePatentPayment,
			fmt.Sprintf("Patent %q payment 2/3 for %d", p.Name, year),
			end, engine.TransferPreviousBusinessDay, shareTwoThirds, true))
	}

	if p.AutoRenew && year == firstRenewalYear {
		add(emit(1, RulePatentRenewal,
			fmt.Sprintf("Patent %q renewal for %d", p.Name, year+1),
			end.AddMonths(-1), engine.TransferPreviousBusinessDay, decimal.Decimal{}, false))
	}

	return tasks
}

// PatentTaskID is the deterministic identity of a patent-derived task.
func PatentTaskID(entity engine.EntityID, patentID string, rule engine.RuleID, year, installment int) engine.TaskID {
	return engine.TaskID(fmt.Sprintf("auto-%s-%s-%s-%d-%d", entity, rule, patentID, year, installment))
}

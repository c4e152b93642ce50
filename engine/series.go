/*
series.go - Mutation planning for manual recurring tasks

PURPOSE:
  Manual tasks bypass the rule catalog entirely; when the operator edits or
  deletes one occurrence of a recurring series, the change has to fan out
  across its siblings. This file computes that fan-out as data: given the
  stored task list and the edited task, it returns the replacement list.

EDIT CASES (in priority order):
  1. Standalone task, stays standalone        -> in-place field update
  2. Series occurrence, cadence unchanged     -> date delta shifts this and
     every later sibling; shared fields propagate to all siblings
  3. Series occurrence, cadence changed       -> later siblings discarded and
     regenerated forward on the new cadence; edited id is reused for the
     first new occurrence
  4. Series occurrence, cadence cleared       -> siblings discarded, task
     becomes standalone
  5. Standalone task, cadence added           -> fresh series minted forward
     from the edited date, original id reused for the first occurrence

DELETION:
  DeletionCandidates is pure: it only names the ids that WOULD be removed
  for a given scope, so the occurrence-vs-series decision stays a single
  confirmation in the caller, not a background heuristic.

AUTOMATIC TASKS:
  Never planned here. They are created and dropped exclusively by the
  generation + reconciliation pipeline; Edit returns ErrNotManual.
*/
package engine

import (
	"github.com/google/uuid"
)

// seriesHorizon bounds how many occurrences a manual series materializes
// up front, per cadence.
var seriesHorizon = map[Cadence]int{
	CadenceDaily:     30,
	CadenceWeekly:    52,
	CadenceMonthly:   24,
	CadenceQuarterly: 8,
	CadenceYearly:    3,
}

// DeleteScope selects what a deletion of a series member targets.
type DeleteScope string

const (
	DeleteOccurrence DeleteScope = "occurrence"
	DeleteSeries     DeleteScope = "series"
)

// DeletionCandidates returns the ids that deleting the given task with the
// given scope would remove. For DeleteSeries every task sharing the series
// id is a candidate; a task without a series id always yields just itself.
func DeletionCandidates(tasks []Task, id TaskID, scope DeleteScope) []TaskID {
	target, ok := findTask(tasks, id)
	if !ok {
		return nil
	}
	if scope != DeleteSeries || target.SeriesID == "" {
		return []TaskID{id}
	}
	var ids []TaskID
	for _, t := range tasks {
		if t.SeriesID == target.SeriesID {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// =============================================================================
// SERIES PLANNER
// =============================================================================

// SeriesPlanner plans creations and edits of manual tasks. The calendar is
// used to re-apply transfer policies to shifted and generated occurrences.
type SeriesPlanner struct {
	Calendar    BusinessCalendar
	NewTaskID   func() TaskID
	NewSeriesID func() SeriesID
}

// NewSeriesPlanner returns a planner minting uuid-backed ids.
func NewSeriesPlanner(cal BusinessCalendar) *SeriesPlanner {
	return &SeriesPlanner{
		Calendar:    cal,
		NewTaskID:   func() TaskID { return TaskID("task-" + uuid.NewString()) },
		NewSeriesID: func() SeriesID { return SeriesID("series-" + uuid.NewString()) },
	}
}

// Create materializes a new manual task. A non-recurring task yields one
// occurrence; a recurring one yields the whole forward-looking occurrence
// set sharing a fresh series id.
func (p *SeriesPlanner) Create(t Task) []Task {
	t.Automatic = false
	t.Status = StatusUpcoming
	if t.ID == "" {
		t.ID = p.NewTaskID()
	}

	if t.Cadence == CadenceNone {
		t.SeriesID = ""
		return []Task{t}
	}
	return p.occurrences(t, p.NewSeriesID())
}

// Edit applies an edited task against the stored list and returns the full
// replacement list. The edited task is matched by id; its previously stored
// shape decides which fan-out case applies.
func (p *SeriesPlanner) Edit(all []Task, updated Task) ([]Task, error) {
	prior, ok := findTask(all, updated.ID)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if prior.Automatic {
		return nil, ErrNotManual
	}

	updated.Automatic = false
	// An edit without an explicit status keeps the stored one; only the
	// completion toggle moves a task out of Completed.
	if updated.Status == "" {
		updated.Status = prior.Status
	}
	wasSeries := prior.SeriesID != "" && prior.Cadence != CadenceNone
	isRecurring := updated.Cadence != CadenceNone

	switch {
	case !wasSeries && !isRecurring:
		updated.SeriesID = ""
		return replaceTask(all, updated), nil

	case wasSeries && isRecurring && updated.Cadence == prior.Cadence:
		return p.shiftSeries(all, prior, updated), nil

	case wasSeries && isRecurring:
		return p.spliceSeries(all, prior, updated), nil

	case wasSeries:
		// Cadence cleared: the edited occurrence becomes standalone.
		updated.SeriesID = ""
		kept := removeSeries(all, prior.SeriesID)
		return append(kept, updated), nil

	default:
		// Standalone task gained a cadence: mint a series forward from it.
		kept := removeTask(all, prior.ID)
		return append(kept, p.occurrences(updated, p.NewSeriesID())...), nil
	}
}

// shiftSeries handles case 2: cadence unchanged. The due-date delta moves
// the edited occurrence and every sibling at or after its original date;
// shared fields propagate to all siblings regardless of date.
func (p *SeriesPlanner) shiftSeries(all []Task, prior, updated Task) []Task {
	delta := DaysBetween(prior.DueDate, updated.DueDate)
	updated.SeriesID = prior.SeriesID

	out := make([]Task, 0, len(all))
	for _, t := range all {
		switch {
		case t.ID == updated.ID:
			out = append(out, updated)
		case t.SeriesID == prior.SeriesID:
			t = copyShared(t, updated)
			if delta != 0 && t.DueDate.AfterOrEqual(prior.DueDate) {
				t.DueDate = p.Calendar.Adjust(t.DueDate.AddDays(delta), t.Transfer)
			}
			out = append(out, t)
		default:
			out = append(out, t)
		}
	}
	return out
}

// spliceSeries handles case 3: cadence changed mid-series. Siblings at or
// after the edited occurrence are discarded and regenerated forward on the
// new cadence; the edited occurrence's id carries over to the first new
// instance so notification bookkeeping keyed by id survives.
func (p *SeriesPlanner) spliceSeries(all []Task, prior, updated Task) []Task {
	updated.SeriesID = prior.SeriesID

	out := make([]Task, 0, len(all))
	for _, t := range all {
		if t.SeriesID == prior.SeriesID {
			if t.DueDate.AfterOrEqual(prior.DueDate) {
				continue
			}
			t = copyShared(t, updated)
			t.Cadence = updated.Cadence
		}
		out = append(out, t)
	}
	return append(out, p.occurrences(updated, prior.SeriesID)...)
}

// occurrences expands a first occurrence into its forward-looking series.
// The first occurrence keeps the exact date the operator chose; later raw
// dates step by cadence and re-run through the transfer policy.
func (p *SeriesPlanner) occurrences(first Task, series SeriesID) []Task {
	n := seriesHorizon[first.Cadence]
	if n == 0 {
		n = 1
	}

	first.SeriesID = series
	first.Automatic = false
	out := []Task{first}

	raw := first.DueDate
	for i := 1; i < n; i++ {
		raw = first.Cadence.Step(raw)
		occ := first
		occ.ID = p.NewTaskID()
		occ.DueDate = p.Calendar.Adjust(raw, first.Transfer)
		occ.Status = StatusUpcoming
		out = append(out, occ)
	}
	return out
}

// copyShared propagates the fields a series shares across occurrences.
func copyShared(dst, src Task) Task {
	dst.Title = src.Title
	dst.Description = src.Description
	dst.Reminder = src.Reminder
	dst.Transfer = src.Transfer
	dst.DueTime = src.DueTime
	return dst
}

// =============================================================================
// SLICE HELPERS
// =============================================================================

func findTask(tasks []Task, id TaskID) (Task, bool) {
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

func replaceTask(tasks []Task, updated Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.ID == updated.ID {
			out[i] = updated
		} else {
			out[i] = t
		}
	}
	return out
}

func removeTask(tasks []Task, id TaskID) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func removeSeries(tasks []Task, series SeriesID) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.SeriesID != series {
			out = append(out, t)
		}
	}
	return out
}

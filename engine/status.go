/*
status.go - The status state machine

PURPOSE:
  Maps (due date, lock state, completion flag) to a live status as a pure
  function of wall-clock time. Statuses are recomputed on demand and by a
  periodic refresher; nothing here mutates shared state.

STATES:
  Completed  sticky; only an explicit toggle leaves it
  Locked     reporting period has not opened (see Locker)
  Overdue    due date passed
  DueToday   due today
  DueSoon    due within 7 days
  Upcoming   everything else

INVARIANT:
  Completed is never overwritten by date-driven recomputation. Toggling
  completion off recomputes from scratch rather than restoring a cached
  prior status, since time may have moved the task into another state.
*/
package engine

// DueSoonWindowDays is how many days before the due date a task is
// highlighted as due-soon.
const DueSoonWindowDays = 7

// Locker decides whether a task's reporting period has not yet opened.
// The rules package provides the catalog-backed implementation.
type Locker interface {
	IsLocked(t Task, now Date) bool
}

// NeverLocked is a Locker for contexts without a rule catalog.
type NeverLocked struct{}

func (NeverLocked) IsLocked(Task, Date) bool { return false }

// ComputeStatus returns the task's current status at the given instant.
func ComputeStatus(t Task, now Date, locker Locker) Status {
	if t.Status == StatusCompleted {
		return StatusCompleted
	}
	if locker != nil && locker.IsLocked(t, now) {
		return StatusLocked
	}

	diffDays := DaysBetween(now, t.DueDate)
	switch {
	case diffDays < 0:
		return StatusOverdue
	case diffDays == 0:
		return StatusDueToday
	case diffDays <= DueSoonWindowDays:
		return StatusDueSoon
	default:
		return StatusUpcoming
	}
}

// RefreshStatuses recomputes every task's status in place and returns the
// slice for chaining. Completed tasks are untouched.
func RefreshStatuses(tasks []Task, now Date, locker Locker) []Task {
	for i := range tasks {
		tasks[i].Status = ComputeStatus(tasks[i], now, locker)
	}
	return tasks
}

// ToggleComplete flips a task's completion. Completing a Locked task is
// rejected: the task is returned unchanged with a LockViolationError.
// Un-completing recomputes the date-driven status.
func ToggleComplete(t Task, now Date, locker Locker) (Task, error) {
	if t.Status == StatusCompleted {
		// Clear stickiness first so ComputeStatus re-derives from dates.
		t.Status = StatusUpcoming
		t.Status = ComputeStatus(t, now, locker)
		return t, nil
	}
	if locker != nil && locker.IsLocked(t, now) {
		return t, &LockViolationError{TaskID: t.ID}
	}
	t.Status = StatusCompleted
	return t, nil
}

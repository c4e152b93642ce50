/*
reconcile.go - Merging regenerated task sets with persisted state

PURPOSE:
  Generation re-expands the full rule catalog every time the entity set
  changes, so obligations must be merged against what the operator already
  has: a task marked completed must stay completed after an unrelated entity
  edit triggers regeneration.

CONTRACT:
  - Manual tasks survive verbatim; generation never touches them.
  - For automatic tasks sharing an id, the freshly generated shape (title,
    due date, rule metadata) wins, but the previously stored status is
    carried over.
  - Automatic tasks absent from the fresh set (a rule no longer applies)
    are silently dropped.
  - Reconcile is a stable fixed point: reconciling its own output against
    the same fresh set changes nothing.
*/
package engine

// Reconcile merges a freshly generated automatic task set into the
// previously persisted set. The caller runs the result through
// RefreshStatuses to settle date-driven statuses.
func Reconcile(existing, fresh []Task) []Task {
	prior := make(map[TaskID]Task, len(existing))
	merged := make([]Task, 0, len(existing)+len(fresh))

	for _, t := range existing {
		if t.Automatic {
			prior[t.ID] = t
		} else {
			merged = append(merged, t)
		}
	}

	for _, t := range fresh {
		if old, ok := prior[t.ID]; ok {
			t.Status = old.Status
		}
		merged = append(merged, t)
	}

	return merged
}

/*
tracker.go - Orchestration of generation, reconciliation and mutation

PURPOSE:
  Tracker is the single logical owner of the entity and task collections.
  Every write path runs here, synchronously, behind one mutex; observers
  (status display, notification scheduling) are read-only consumers of the
  latest snapshot.

CONTROL FLOW:
  - Any change to the entity set (put, archive, delete) re-expands all
    rule-applicable obligations and reconciles them against the stored set.
  - A periodic refresher re-runs only the status machine; regeneration is
    idempotent and safe to run redundantly (Reconcile is a fixed point).
  - Manual tasks are mutated through the SeriesPlanner and never touched by
    regeneration.

PERSISTENCE:
  Stores are opaque load/save boundaries for flat record lists. The tracker
  saves the full list verbatim after each mutation; durability, retries and
  serialization concerns live in the store implementations.

NOTIFICATIONS:
  The engine never sends notifications. It calls the Notifier with the
  per-task reminder lead time and due date whenever a task is created or
  rescheduled, and cancels by id on deletion/completion, so an external
  scheduler stays in sync.
*/
package engine

import (
	"context"
	"log"
	"sync"
)

// =============================================================================
// BOUNDARIES
// =============================================================================

// Generator expands the rule catalog against one entity. The rules package
// provides the catalog-backed implementation.
type Generator interface {
	Generate(e LegalEntity) []Task
}

// Notifier is the external reminder scheduler boundary.
type Notifier interface {
	Schedule(t Task)
	Cancel(id TaskID)
}

// NoopNotifier ignores all scheduling.
type NoopNotifier struct{}

func (NoopNotifier) Schedule(Task) {}
func (NoopNotifier) Cancel(TaskID) {}

// EntityStore persists the entity list as an opaque flat record list.
type EntityStore interface {
	ListEntities(ctx context.Context) ([]LegalEntity, error)
	SaveEntities(ctx context.Context, entities []LegalEntity) error
}

// TaskStore persists the task list as an opaque flat record list.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]Task, error)
	SaveTasks(ctx context.Context, tasks []Task) error
}

// =============================================================================
// TRACKER
// =============================================================================

type Tracker struct {
	mu       sync.Mutex
	entities []LegalEntity
	tasks    []Task

	gen      Generator
	locker   Locker
	planner  *SeriesPlanner
	notifier Notifier

	entityStore EntityStore
	taskStore   TaskStore

	// now is injectable for tests; defaults to Today.
	now func() Date
}

// NewTracker wires the engine together. locker and notifier may be nil.
func NewTracker(gen Generator, locker Locker, planner *SeriesPlanner, entities EntityStore, tasks TaskStore, notifier Notifier) *Tracker {
	if locker == nil {
		locker = NeverLocked{}
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &Tracker{
		gen:         gen,
		locker:      locker,
		planner:     planner,
		notifier:    notifier,
		entityStore: entities,
		taskStore:   tasks,
		now:         Today,
	}
}

// SetClock overrides the tracker's notion of "today". Intended for tests.
func (tr *Tracker) SetClock(now func() Date) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.now = now
}

// Load pulls persisted entities and tasks, normalizes stale statuses from
// older exports, and runs one full regeneration.
func (tr *Tracker) Load(ctx context.Context) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	entities, err := tr.entityStore.ListEntities(ctx)
	if err != nil {
		return err
	}
	tasks, err := tr.taskStore.ListTasks(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		if !ValidStatus(tasks[i].Status) {
			tasks[i].Status = StatusUpcoming
		}
	}
	tr.entities = entities
	tr.tasks = tasks
	return tr.regenerateLocked(ctx)
}

// =============================================================================
// SNAPSHOTS (read-only)
// =============================================================================

func (tr *Tracker) Entities() []LegalEntity {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	out := make([]LegalEntity, len(tr.entities))
	copy(out, tr.entities)
	return out
}

func (tr *Tracker) Entity(id EntityID) (LegalEntity, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for _, e := range tr.entities {
		if e.ID == id {
			return e, true
		}
	}
	return LegalEntity{}, false
}

func (tr *Tracker) Tasks() []Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	out := make([]Task, len(tr.tasks))
	copy(out, tr.tasks)
	return out
}

func (tr *Tracker) TasksForEntity(id EntityID) []Task {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	var out []Task
	for _, t := range tr.tasks {
		if t.EntityID == id {
			out = append(out, t)
		}
	}
	return out
}

func (tr *Tracker) Task(id TaskID) (Task, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return findTask(tr.tasks, id)
}

// DeletionCandidates previews which task ids a deletion would remove.
func (tr *Tracker) DeletionCandidates(id TaskID, scope DeleteScope) []TaskID {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return DeletionCandidates(tr.tasks, id, scope)
}

// =============================================================================
// ENTITY MUTATIONS (each triggers regeneration)
// =============================================================================

// PutEntity creates or replaces an entity and regenerates its obligations.
func (tr *Tracker) PutEntity(ctx context.Context, e LegalEntity) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = tr.now()
	}

	replaced := false
	for i := range tr.entities {
		if tr.entities[i].ID == e.ID {
			tr.entities[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		tr.entities = append(tr.entities, e)
	}

	if err := tr.entityStore.SaveEntities(ctx, tr.entities); err != nil {
		return err
	}
	return tr.regenerateLocked(ctx)
}

// SetArchived flips an entity's archived flag. Archived entities are
// excluded from generation; their stale automatic tasks fall out on the
// next reconcile.
func (tr *Tracker) SetArchived(ctx context.Context, id EntityID, archived bool) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	found := false
	for i := range tr.entities {
		if tr.entities[i].ID == id {
			tr.entities[i].Archived = archived
			found = true
			break
		}
	}
	if !found {
		return ErrEntityNotFound
	}

	if err := tr.entityStore.SaveEntities(ctx, tr.entities); err != nil {
		return err
	}
	return tr.regenerateLocked(ctx)
}

// DeleteEntity removes an entity and, transitively, every task tied to it.
func (tr *Tracker) DeleteEntity(ctx context.Context, id EntityID) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	kept := tr.entities[:0]
	found := false
	for _, e := range tr.entities {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return ErrEntityNotFound
	}
	tr.entities = kept

	remaining := make([]Task, 0, len(tr.tasks))
	for _, t := range tr.tasks {
		if t.EntityID == id {
			tr.notifier.Cancel(t.ID)
			continue
		}
		remaining = append(remaining, t)
	}
	tr.tasks = remaining

	if err := tr.entityStore.SaveEntities(ctx, tr.entities); err != nil {
		return err
	}
	return tr.regenerateLocked(ctx)
}

// =============================================================================
// REGENERATION
// =============================================================================

// Regenerate re-expands all rule-applicable obligations and reconciles them
// against the current task set.
func (tr *Tracker) Regenerate(ctx context.Context) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.regenerateLocked(ctx)
}

func (tr *Tracker) regenerateLocked(ctx context.Context) error {
	var fresh []Task
	for _, e := range tr.entities {
		if e.Archived {
			continue
		}
		fresh = append(fresh, tr.gen.Generate(e)...)
	}

	merged := Reconcile(tr.tasks, fresh)
	tr.tasks = RefreshStatuses(merged, tr.now(), tr.locker)
	return tr.taskStore.SaveTasks(ctx, tr.tasks)
}

// RefreshStatuses re-runs only the status machine. Called by the periodic
// refresher; cheap, idempotent, no generation.
func (tr *Tracker) RefreshStatuses(ctx context.Context) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.tasks = RefreshStatuses(tr.tasks, tr.now(), tr.locker)
	return tr.taskStore.SaveTasks(ctx, tr.tasks)
}

// =============================================================================
// MANUAL TASK MUTATIONS
// =============================================================================

// SaveManualTask creates a task (empty id) or edits an existing one through
// the series planner, then persists and reschedules notifications.
func (tr *Tracker) SaveManualTask(ctx context.Context, t Task) ([]Task, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var affected []Task
	if _, exists := findTask(tr.tasks, t.ID); t.ID != "" && exists {
		planned, err := tr.planner.Edit(tr.tasks, t)
		if err != nil {
			return nil, err
		}
		tr.tasks = planned
		affected = tasksInSeriesOrID(tr.tasks, t)
	} else {
		created := tr.planner.Create(t)
		tr.tasks = append(tr.tasks, created...)
		affected = created
	}

	tr.tasks = RefreshStatuses(tr.tasks, tr.now(), tr.locker)
	if err := tr.taskStore.SaveTasks(ctx, tr.tasks); err != nil {
		return nil, err
	}
	for _, a := range affected {
		tr.notifier.Schedule(a)
	}
	return affected, nil
}

// DeleteManualTask removes one occurrence or a whole series, per scope.
// Automatic tasks are refused; they only disappear with their entity.
func (tr *Tracker) DeleteManualTask(ctx context.Context, id TaskID, scope DeleteScope) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	target, ok := findTask(tr.tasks, id)
	if !ok {
		return ErrTaskNotFound
	}
	if target.Automatic {
		return ErrNotManual
	}

	for _, victim := range DeletionCandidates(tr.tasks, id, scope) {
		tr.tasks = removeTask(tr.tasks, victim)
		tr.notifier.Cancel(victim)
	}
	return tr.taskStore.SaveTasks(ctx, tr.tasks)
}

// ToggleComplete flips a task's completion. A toggle on a Locked task is
// rejected and the collection is left untouched.
func (tr *Tracker) ToggleComplete(ctx context.Context, id TaskID) (Task, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	target, ok := findTask(tr.tasks, id)
	if !ok {
		return Task{}, ErrTaskNotFound
	}

	toggled, err := ToggleComplete(target, tr.now(), tr.locker)
	if err != nil {
		return target, err
	}
	tr.tasks = replaceTask(tr.tasks, toggled)
	if err := tr.taskStore.SaveTasks(ctx, tr.tasks); err != nil {
		return toggled, err
	}

	if toggled.Completed() {
		tr.notifier.Cancel(toggled.ID)
	} else {
		tr.notifier.Schedule(toggled)
	}
	return toggled, nil
}

// CompleteMany marks a batch of tasks completed. Locked tasks in the batch
// are skipped, not errors; the operator sees them stay pending.
func (tr *Tracker) CompleteMany(ctx context.Context, ids []TaskID) (int, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	now := tr.now()
	completed := 0
	for _, id := range ids {
		target, ok := findTask(tr.tasks, id)
		if !ok || target.Completed() {
			continue
		}
		if tr.locker.IsLocked(target, now) {
			log.Printf("[Tracker] skip bulk-complete of locked task %s", id)
			continue
		}
		target.Status = StatusCompleted
		tr.tasks = replaceTask(tr.tasks, target)
		tr.notifier.Cancel(id)
		completed++
	}
	return completed, tr.taskStore.SaveTasks(ctx, tr.tasks)
}

// tasksInSeriesOrID collects the tasks an edit affected: the task itself
// plus, for series edits, every sibling.
func tasksInSeriesOrID(tasks []Task, edited Task) []Task {
	t, ok := findTask(tasks, edited.ID)
	if !ok {
		return nil
	}
	if t.SeriesID == "" {
		return []Task{t}
	}
	var out []Task
	for _, s := range tasks {
		if s.SeriesID == t.SeriesID {
			out = append(out, s)
		}
	}
	return out
}

package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clerkdesk/compliance-engine/engine"
	"github.com/clerkdesk/compliance-engine/store/memory"
)

// fakeGenerator emits one fixed obligation per entity so tracker tests stay
// independent of the rule catalog.
type fakeGenerator struct{}

func (fakeGenerator) Generate(e engine.LegalEntity) []engine.Task {
	return []engine.Task{{
		ID:        engine.TaskID("auto-" + string(e.ID) + "-q1"),
		EntityID:  e.ID,
		Title:     "Quarterly filing for " + e.Name,
		DueDate:   engine.NewDate(2025, time.April, 28),
		Status:    engine.StatusUpcoming,
		Automatic: true,
	}}
}

// recordingNotifier captures the scheduling traffic the tracker emits.
type recordingNotifier struct {
	scheduled []engine.TaskID
	cancelled []engine.TaskID
}

func (n *recordingNotifier) Schedule(t engine.Task)  { n.scheduled = append(n.scheduled, t.ID) }
func (n *recordingNotifier) Cancel(id engine.TaskID) { n.cancelled = append(n.cancelled, id) }

func newTestTracker(t *testing.T, locker engine.Locker, notifier engine.Notifier) *engine.Tracker {
	t.Helper()
	store := memory.New()
	tr := engine.NewTracker(fakeGenerator{}, locker, testPlanner(), store, store, notifier)
	tr.SetClock(func() engine.Date { return engine.NewDate(2025, time.February, 1) })
	return tr
}

func TestTracker_PutEntityGeneratesTasks(t *testing.T) {
	tr := newTestTracker(t, nil, nil)
	ctx := context.Background()

	err := tr.PutEntity(ctx, engine.LegalEntity{ID: "e1", Name: "Vector LLC"})
	require.NoError(t, err)

	tasks := tr.TasksForEntity("e1")
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Automatic)
	assert.Equal(t, engine.StatusUpcoming, tasks[0].Status)

	// CreatedAt defaults to the tracker clock.
	e, ok := tr.Entity("e1")
	require.True(t, ok)
	assert.Equal(t, "2025-02-01", e.CreatedAt.String())
}

func TestTracker_CompletionSurvivesRegeneration(t *testing.T) {
	// GIVEN: A completed automatic task
	// WHEN: An unrelated entity edit triggers regeneration
	// THEN: The completion is still there

	tr := newTestTracker(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, tr.PutEntity(ctx, engine.LegalEntity{ID: "e1", Name: "Vector LLC"}))
	tasks := tr.TasksForEntity("e1")
	require.Len(t, tasks, 1)

	_, err := tr.ToggleComplete(ctx, tasks[0].ID)
	require.NoError(t, err)

	require.NoError(t, tr.PutEntity(ctx, engine.LegalEntity{ID: "e2", Name: "Atlas LLC"}))

	after := tr.TasksForEntity("e1")
	require.Len(t, after, 1)
	assert.Equal(t, engine.StatusCompleted, after[0].Status)
}

func TestTracker_ArchiveDropsAutomaticTasks(t *testing.T) {
	tr := newTestTracker(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, tr.PutEntity(ctx, engine.LegalEntity{ID: "e1", Name: "Vector LLC"}))

	// A manual task on the same entity must survive the archive.
	_, err := tr.SaveManualTask(ctx, engine.Task{EntityID: "e1", Title: "Hand in the keys", DueDate: engine.NewDate(2025, time.March, 1)})
	require.NoError(t, err)

	require.NoError(t, tr.SetArchived(ctx, "e1", true))

	remaining := tr.TasksForEntity("e1")
	require.Len(t, remaining, 1)
	assert.False(t, remaining[0].Automatic, "only the manual task survives archiving")

	// Unarchiving brings the obligations back.
	require.NoError(t, tr.SetArchived(ctx, "e1", false))
	assert.Len(t, tr.TasksForEntity("e1"), 2)

	// Unknown entity.
	assert.True(t, errors.Is(tr.SetArchived(ctx, "nope", true), engine.ErrEntityNotFound))
}

func TestTracker_DeleteEntityCancelsNotifications(t *testing.T) {
	notifier := &recordingNotifier{}
	tr := newTestTracker(t, nil, notifier)
	ctx := context.Background()

	require.NoError(t, tr.PutEntity(ctx, engine.LegalEntity{ID: "e1", Name: "Vector LLC"}))
	tasks := tr.TasksForEntity("e1")
	require.Len(t, tasks, 1)

	require.NoError(t, tr.DeleteEntity(ctx, "e1"))

	assert.Empty(t, tr.TasksForEntity("e1"))
	assert.Contains(t, notifier.cancelled, tasks[0].ID)

	_, found := tr.Entity("e1")
	assert.False(t, found)
}

func TestTracker_SaveManualTask(t *testing.T) {
	notifier := &recordingNotifier{}
	tr := newTestTracker(t, nil, notifier)
	ctx := context.Background()

	// Create: empty id mints a standalone manual task.
	created, err := tr.SaveManualTask(ctx, engine.Task{
		EntityID: "e1",
		Title:    "Renew the fire safety certificate",
		DueDate:  engine.NewDate(2025, time.March, 3),
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)
	assert.Contains(t, notifier.scheduled, created[0].ID)

	// Edit: same id updates in place.
	edited := created[0]
	edited.Title = "Renew the fire safety certificate (urgent)"
	affected, err := tr.SaveManualTask(ctx, edited)
	require.NoError(t, err)
	require.Len(t, affected, 1)
	assert.Equal(t, created[0].ID, affected[0].ID)

	got, ok := tr.Task(created[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Renew the fire safety certificate (urgent)", got.Title)
}

func TestTracker_EditKeepsCompletion(t *testing.T) {
	// GIVEN: A completed manual task
	// WHEN: It is re-saved with only the title changed and no status, the
	//       way an edit form submits it
	// THEN: It stays completed; only an explicit toggle un-completes

	tr := newTestTracker(t, nil, nil)
	ctx := context.Background()

	created, err := tr.SaveManualTask(ctx, engine.Task{
		EntityID: "e1",
		Title:    "File the annual inventory",
		DueDate:  engine.NewDate(2025, time.March, 3),
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	_, err = tr.ToggleComplete(ctx, created[0].ID)
	require.NoError(t, err)

	affected, err := tr.SaveManualTask(ctx, engine.Task{
		ID:       created[0].ID,
		EntityID: "e1",
		Title:    "File the annual inventory (warehouse B)",
		DueDate:  engine.NewDate(2025, time.March, 3),
	})
	require.NoError(t, err)
	require.Len(t, affected, 1)

	got, ok := tr.Task(created[0].ID)
	require.True(t, ok)
	assert.Equal(t, "File the annual inventory (warehouse B)", got.Title)
	assert.Equal(t, engine.StatusCompleted, got.Status)
}

func TestTracker_DeleteManualTask(t *testing.T) {
	tr := newTestTracker(t, nil, nil)
	ctx := context.Background()

	require.NoError(t, tr.PutEntity(ctx, engine.LegalEntity{ID: "e1", Name: "Vector LLC"}))
	auto := tr.TasksForEntity("e1")[0]

	// Automatic tasks are refused.
	err := tr.DeleteManualTask(ctx, auto.ID, engine.DeleteOccurrence)
	assert.True(t, errors.Is(err, engine.ErrNotManual))

	// A series delete removes every occurrence.
	created, err := tr.SaveManualTask(ctx, engine.Task{
		EntityID: "e1",
		Title:    "Water the office plants",
		DueDate:  engine.NewDate(2025, time.February, 3),
		Cadence:  engine.CadenceWeekly,
	})
	require.NoError(t, err)
	require.Len(t, created, 52)

	require.NoError(t, tr.DeleteManualTask(ctx, created[5].ID, engine.DeleteSeries))
	assert.Len(t, tr.TasksForEntity("e1"), 1, "only the automatic task remains")
}

func TestTracker_CompleteManySkipsLocked(t *testing.T) {
	tr := newTestTracker(t, stubLocker{locked: map[engine.TaskID]bool{"auto-e1-q1": true}}, nil)
	ctx := context.Background()

	require.NoError(t, tr.PutEntity(ctx, engine.LegalEntity{ID: "e1", Name: "Vector LLC"}))
	require.NoError(t, tr.PutEntity(ctx, engine.LegalEntity{ID: "e2", Name: "Atlas LLC"}))

	n, err := tr.CompleteMany(ctx, []engine.TaskID{"auto-e1-q1", "auto-e2-q1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "locked and unknown ids are skipped, not errors")

	locked, _ := tr.Task("auto-e1-q1")
	assert.NotEqual(t, engine.StatusCompleted, locked.Status)
	open, _ := tr.Task("auto-e2-q1")
	assert.Equal(t, engine.StatusCompleted, open.Status)
}

func TestTracker_LoadNormalizesUnknownStatus(t *testing.T) {
	// GIVEN: A store carrying a task with a status value from a newer or
	//        corrupted export
	// WHEN: The tracker loads
	// THEN: The status is reset and recomputed rather than passed through

	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SaveEntities(ctx, []engine.LegalEntity{{ID: "e1", Name: "Vector LLC", CreatedAt: engine.NewDate(2024, time.June, 1)}}))
	require.NoError(t, store.SaveTasks(ctx, []engine.Task{{
		ID:        "auto-e1-q1",
		EntityID:  "e1",
		Title:     "Quarterly filing for Vector LLC",
		DueDate:   engine.NewDate(2025, time.April, 28),
		Status:    engine.Status("paused"),
		Automatic: true,
	}}))

	tr := engine.NewTracker(fakeGenerator{}, nil, testPlanner(), store, store, nil)
	tr.SetClock(func() engine.Date { return engine.NewDate(2025, time.February, 1) })
	require.NoError(t, tr.Load(ctx))

	got, ok := tr.Task("auto-e1-q1")
	require.True(t, ok)
	assert.Equal(t, engine.StatusUpcoming, got.Status)
}

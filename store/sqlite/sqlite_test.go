package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clerkdesk/compliance-engine/engine"
	"github.com/clerkdesk/compliance-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_EntityRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entity := engine.LegalEntity{
		ID:            "e1",
		Name:          "Vector LLC",
		LegalForm:     engine.FormLLC,
		TaxRegime:     engine.RegimeGeneral,
		TaxNumber:     "7701234567",
		RegNumber:     "1127746000000",
		LegalAddress:  "Moscow, Tverskaya 1",
		ContactPerson: "A. Petrov",
		Phone:         "+7 495 000-00-00",
		Email:         "office@vector.example",
		HasEmployees:  true,
		VATPayer:      true,
		CreatedAt:     engine.NewDate(2024, time.June, 1),
		Patents: []engine.Patent{{
			ID:        "p1",
			Name:      "Retail trade",
			Start:     engine.NewDate(2025, time.January, 1),
			End:       engine.NewDate(2025, time.December, 31),
			AutoRenew: true,
		}},
		Notes: []engine.Note{{
			ID:        "n1",
			Text:      "Prefers email over phone",
			CreatedAt: engine.NewDate(2024, time.July, 10),
		}},
		Credentials: []engine.Credential{{
			ID:      "c1",
			Service: "tax portal",
			Login:   "vector-llc",
		}},
	}

	require.NoError(t, s.SaveEntities(ctx, []engine.LegalEntity{entity}))

	got, err := s.ListEntities(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity, got[0], "nested patents, notes and credentials survive the JSON columns")
}

func TestStore_TaskRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tasks := []engine.Task{
		{
			ID:           "auto-e1-patent-payment-p1-2025-1",
			EntityID:     "e1",
			Title:        `Patent "Retail trade" payment 1/3 for 2025`,
			DueDate:      engine.NewDate(2025, time.April, 1),
			Transfer:     engine.TransferNextBusinessDay,
			Cadence:      engine.CadenceYearly,
			Reminder:     engine.RemindOneWeek,
			Status:       engine.StatusUpcoming,
			Automatic:    true,
			SeriesID:     "series-patent-p1-2025",
			PeriodLocked: true,
			PaymentShare: decimal.NewFromInt(1).Div(decimal.NewFromInt(3)),
			Provenance: &engine.Provenance{
				RuleID:    "patent-payment",
				Year:      2025,
				SubPeriod: 1,
				PatentID:  "p1",
			},
		},
		{
			ID:       "m1",
			EntityID: "e1",
			Title:    "Renew the office lease",
			DueDate:  engine.NewDate(2025, time.March, 15),
			DueTime:  "10:00",
			Transfer: engine.TransferNone,
			Cadence:  engine.CadenceNone,
			Reminder: engine.RemindOneDay,
			Status:   engine.StatusCompleted,
		},
	}

	require.NoError(t, s.SaveTasks(ctx, tasks))

	got, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Listing orders by due date.
	assert.Equal(t, engine.TaskID("m1"), got[0].ID)
	auto := got[1]

	require.NotNil(t, auto.Provenance, "provenance survives the JSON column")
	assert.Equal(t, "p1", auto.Provenance.PatentID)
	assert.Equal(t, 2025, auto.Provenance.Year)
	assert.True(t, auto.PaymentShare.Equal(decimal.NewFromInt(1).Div(decimal.NewFromInt(3))))
	assert.True(t, auto.PeriodLocked)

	// The manual task carries no provenance and a zero share.
	assert.Nil(t, got[0].Provenance)
	assert.True(t, got[0].PaymentShare.IsZero())
	assert.Equal(t, "10:00", got[0].DueTime)
}

func TestStore_SaveReplacesWholeList(t *testing.T) {
	// GIVEN: A stored task list
	// WHEN: A smaller list is saved
	// THEN: Only the new list remains; saves are replace-all

	s := newTestStore(t)
	ctx := context.Background()

	first := []engine.Task{
		{ID: "t1", EntityID: "e1", Title: "one", DueDate: engine.NewDate(2025, time.March, 1), Status: engine.StatusUpcoming},
		{ID: "t2", EntityID: "e1", Title: "two", DueDate: engine.NewDate(2025, time.March, 2), Status: engine.StatusUpcoming},
	}
	require.NoError(t, s.SaveTasks(ctx, first))

	second := []engine.Task{
		{ID: "t3", EntityID: "e1", Title: "three", DueDate: engine.NewDate(2025, time.March, 3), Status: engine.StatusUpcoming},
	}
	require.NoError(t, s.SaveTasks(ctx, second))

	got, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, engine.TaskID("t3"), got[0].ID)
}

func TestStore_Reset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEntities(ctx, []engine.LegalEntity{{ID: "e1", Name: "Vector LLC", CreatedAt: engine.NewDate(2024, time.June, 1)}}))
	require.NoError(t, s.SaveTasks(ctx, []engine.Task{{ID: "t1", EntityID: "e1", Title: "one", DueDate: engine.NewDate(2025, time.March, 1), Status: engine.StatusUpcoming}}))

	require.NoError(t, s.Reset(ctx))

	entities, err := s.ListEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entities)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clerkdesk/compliance-engine/engine"
	"github.com/clerkdesk/compliance-engine/store/memory"
)

func TestStore_RoundTrip(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	entities := []engine.LegalEntity{{ID: "e1", Name: "Vector LLC", CreatedAt: engine.NewDate(2024, time.June, 1)}}
	tasks := []engine.Task{{ID: "t1", EntityID: "e1", Title: "VAT return for Q1 2025", Status: engine.StatusUpcoming}}

	require.NoError(t, s.SaveEntities(ctx, entities))
	require.NoError(t, s.SaveTasks(ctx, tasks))

	gotEntities, err := s.ListEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities, gotEntities)

	gotTasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, gotTasks)
}

func TestStore_DoesNotShareBackingArrays(t *testing.T) {
	// GIVEN: A caller that mutates the slices it saved and listed
	// THEN: The store's copy is unaffected

	s := memory.New()
	ctx := context.Background()

	saved := []engine.Task{{ID: "t1", Title: "original"}}
	require.NoError(t, s.SaveTasks(ctx, saved))
	saved[0].Title = "mutated after save"

	listed, err := s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "original", listed[0].Title)

	listed[0].Title = "mutated after list"
	again, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Title)
}

func TestStore_EmptyListsAreNotNilErrors(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	entities, err := s.ListEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, entities)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

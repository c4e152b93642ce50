package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clerkdesk/compliance-engine/engine"
)

func builtinCalendar(t *testing.T) engine.BusinessCalendar {
	t.Helper()
	return engine.NewBusinessCalendar(engine.DefaultHolidayCalendar())
}

func TestBusinessCalendar_IsBusinessDay(t *testing.T) {
	cal := builtinCalendar(t)

	// Plain weekday.
	assert.True(t, cal.IsBusinessDay(engine.NewDate(2025, time.June, 10)), "Tuesday should be a business day")

	// Weekend.
	assert.False(t, cal.IsBusinessDay(engine.NewDate(2025, time.June, 14)), "Saturday is not a business day")
	assert.False(t, cal.IsBusinessDay(engine.NewDate(2025, time.June, 15)), "Sunday is not a business day")

	// Public holiday falling on a weekday.
	assert.False(t, cal.IsBusinessDay(engine.NewDate(2025, time.May, 9)), "May 9 is a public holiday")
	assert.False(t, cal.IsBusinessDay(engine.NewDate(2025, time.January, 8)), "January 8 is inside the new-year break")
}

func TestBusinessCalendar_NextAndPreviousBusinessDay(t *testing.T) {
	cal := builtinCalendar(t)

	// GIVEN: A holiday Friday followed by a weekend
	// WHEN: Rolling forward
	// THEN: The next business day is the following Monday
	next := cal.NextBusinessDay(engine.NewDate(2025, time.May, 9))
	assert.Equal(t, "2025-05-12", next.String())

	// Rolling backward from the same holiday lands on Thursday.
	prev := cal.PreviousBusinessDay(engine.NewDate(2025, time.May, 9))
	assert.Equal(t, "2025-05-08", prev.String())

	// A business day rolls to its neighbors, never to itself.
	assert.Equal(t, "2025-06-11", cal.NextBusinessDay(engine.NewDate(2025, time.June, 10)).String())
	assert.Equal(t, "2025-06-09", cal.PreviousBusinessDay(engine.NewDate(2025, time.June, 10)).String())
}

func TestBusinessCalendar_Adjust(t *testing.T) {
	cal := builtinCalendar(t)
	sunday := engine.NewDate(2025, time.June, 15)

	tests := []struct {
		name   string
		policy engine.TransferPolicy
		want   string
	}{
		{"next business day", engine.TransferNextBusinessDay, "2025-06-16"},
		{"previous business day", engine.TransferPreviousBusinessDay, "2025-06-13"},
		{"no transfer keeps the raw date", engine.TransferNone, "2025-06-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cal.Adjust(sunday, tt.policy)
			assert.Equal(t, tt.want, got.String())
		})
	}

	// A date already on a business day is never moved.
	monday := engine.NewDate(2025, time.June, 16)
	assert.Equal(t, monday.String(), cal.Adjust(monday, engine.TransferNextBusinessDay).String())
	assert.Equal(t, monday.String(), cal.Adjust(monday, engine.TransferPreviousBusinessDay).String())
}

func TestBusinessCalendar_LastBusinessDayOfYear(t *testing.T) {
	cal := builtinCalendar(t)

	// GIVEN: December 31, 2024 is a listed holiday (Tuesday)
	// THEN: The last working day of 2024 is Monday the 30th
	assert.Equal(t, "2024-12-30", cal.LastBusinessDayOfYear(2024).String())
}

func TestTableCalendar_FromExplicitDates(t *testing.T) {
	table := engine.NewTableCalendar([]string{"2025-03-10", "2025-03-11"})
	cal := engine.NewBusinessCalendar(table)
	assert.False(t, cal.IsBusinessDay(engine.NewDate(2025, time.March, 10)))
	assert.False(t, cal.IsBusinessDay(engine.NewDate(2025, time.March, 11)))
	assert.True(t, cal.IsBusinessDay(engine.NewDate(2025, time.March, 12)))

	// Dates reports the configured set, sorted.
	assert.Equal(t, []string{"2025-03-10", "2025-03-11"}, table.Dates())

	// Malformed entries are silently dropped.
	loose := engine.NewTableCalendar([]string{"10.03.2025", "2025-03-10"})
	require.Equal(t, []string{"2025-03-10"}, loose.Dates())
}

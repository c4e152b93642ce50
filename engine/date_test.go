package engine_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/clerkdesk/compliance-engine/engine"
)

func TestDate_Comparisons(t *testing.T) {
	// GIVEN: Two dates a day apart
	// THEN: Ordering predicates agree regardless of time-of-day noise

	a := engine.NewDate(2025, time.March, 10)
	b := engine.DateOf(time.Date(2025, time.March, 11, 23, 59, 0, 0, time.Local))

	if !a.Before(b) {
		t.Error("March 10 should be before March 11")
	}
	if !b.After(a) {
		t.Error("March 11 should be after March 10")
	}
	if !a.Equal(engine.DateOf(time.Date(2025, time.March, 10, 15, 4, 0, 0, time.UTC))) {
		t.Error("same calendar day should compare equal despite clock time")
	}
	if !a.BeforeOrEqual(a) || !a.AfterOrEqual(a) {
		t.Error("a date should compare before-or-equal and after-or-equal to itself")
	}
}

func TestDate_DaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from engine.Date
		to   engine.Date
		want int
	}{
		{"same day", engine.NewDate(2025, time.June, 10), engine.NewDate(2025, time.June, 10), 0},
		{"next day", engine.NewDate(2025, time.June, 10), engine.NewDate(2025, time.June, 11), 1},
		{"past", engine.NewDate(2025, time.June, 10), engine.NewDate(2025, time.June, 3), -7},
		{"across year end", engine.NewDate(2024, time.December, 30), engine.NewDate(2025, time.January, 2), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.DaysBetween(tt.from, tt.to); got != tt.want {
				t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestDate_MonthsBetween_Inclusive(t *testing.T) {
	// GIVEN: A window from February through August
	// THEN: Both boundary months count (a 7-month patent)

	from := engine.NewDate(2025, time.February, 1)
	to := engine.NewDate(2025, time.August, 31)
	if got := engine.MonthsBetween(from, to); got != 7 {
		t.Errorf("MonthsBetween Feb..Aug = %d, want 7", got)
	}

	// Single month windows count as one.
	if got := engine.MonthsBetween(from, engine.NewDate(2025, time.February, 28)); got != 1 {
		t.Errorf("MonthsBetween within one month = %d, want 1", got)
	}

	// Across a year boundary.
	if got := engine.MonthsBetween(engine.NewDate(2024, time.November, 1), engine.NewDate(2025, time.February, 1)); got != 4 {
		t.Errorf("MonthsBetween Nov..Feb = %d, want 4", got)
	}
}

func TestDate_QuarterBoundaries(t *testing.T) {
	if q := engine.NewDate(2025, time.March, 31).Quarter(); q != 1 {
		t.Errorf("March is in quarter %d, want 1", q)
	}
	if q := engine.NewDate(2025, time.October, 1).Quarter(); q != 4 {
		t.Errorf("October is in quarter %d, want 4", q)
	}
	if got := engine.EndOfQuarter(2025, 2); !got.Equal(engine.NewDate(2025, time.June, 30)) {
		t.Errorf("EndOfQuarter(2025, 2) = %s, want 2025-06-30", got)
	}
	if got := engine.EndOfMonth(2024, time.February); !got.Equal(engine.NewDate(2024, time.February, 29)) {
		t.Errorf("EndOfMonth(2024, Feb) = %s, want 2024-02-29 (leap year)", got)
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	// GIVEN: A task-like struct with a date field
	// WHEN: Marshaled and unmarshaled
	// THEN: The calendar day survives, rendered as plain ISO

	type wrapper struct {
		Due engine.Date `json:"due"`
	}

	raw, err := json.Marshal(wrapper{Due: engine.NewDate(2025, time.April, 28)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"due":"2025-04-28"}` {
		t.Errorf("unexpected JSON: %s", raw)
	}

	var back wrapper
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Due.Equal(engine.NewDate(2025, time.April, 28)) {
		t.Errorf("round trip changed the date: %s", back.Due)
	}

	// Older exports carry full RFC3339 timestamps.
	if err := json.Unmarshal([]byte(`{"due":"2025-04-28T00:00:00.000Z"}`), &back); err != nil {
		t.Fatalf("unmarshal RFC3339: %v", err)
	}
	if !back.Due.Equal(engine.NewDate(2025, time.April, 28)) {
		t.Errorf("RFC3339 import changed the date: %s", back.Due)
	}
}

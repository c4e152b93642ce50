/*
calendar.go - Business-day calendar and due-date transfer policies

PURPOSE:
  Statutory deadlines that land on a weekend or public holiday are moved to
  an adjacent business day. This file provides the weekend/holiday predicates,
  the next/previous business-day search, and the single Adjust function every
  generated due date passes through.

HOLIDAY SOURCING:
  Holidays are an injected capability (HolidayCalendar), not compiled
  constants, so jurisdictions and year ranges can be swapped from
  configuration. A default table for the supported years ships with the
  engine. Outside the table's covered years the calendar degrades to
  weekend-only skipping; this is a documented limitation, not an error.

SEE ALSO:
  - rules/: The rule catalog that assigns a TransferPolicy per obligation
*/
package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// =============================================================================
// TRANSFER POLICY
// =============================================================================

// TransferPolicy is the statutory rule for moving a due date that lands on
// a non-business day.
type TransferPolicy string

const (
	TransferNextBusinessDay     TransferPolicy = "next"
	TransferPreviousBusinessDay TransferPolicy = "previous"
	TransferNone                TransferPolicy = "none"
)

// =============================================================================
// HOLIDAY CALENDAR - Injected jurisdiction capability
// =============================================================================

// HolidayCalendar answers whether a date is a public holiday.
type HolidayCalendar interface {
	IsHoliday(d Date) bool
}

// TableCalendar is a HolidayCalendar backed by a fixed set of dates.
type TableCalendar struct {
	days map[string]bool
}

// NewTableCalendar builds a calendar from ISO "2006-01-02" date strings.
// Malformed entries are ignored.
func NewTableCalendar(isoDates []string) *TableCalendar {
	days := make(map[string]bool, len(isoDates))
	for _, s := range isoDates {
		if _, err := ParseDate(s); err == nil {
			days[s] = true
		}
	}
	return &TableCalendar{days: days}
}

// NewTableCalendarFromFile loads a JSON array of ISO date strings.
func NewTableCalendarFromFile(path string) (*TableCalendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday table: %w", err)
	}
	var isoDates []string
	if err := json.Unmarshal(raw, &isoDates); err != nil {
		return nil, fmt.Errorf("parse holiday table: %w", err)
	}
	return NewTableCalendar(isoDates), nil
}

func (c *TableCalendar) IsHoliday(d Date) bool {
	return c.days[d.String()]
}

// Dates returns the table's holidays as sorted ISO strings, for display
// surfaces.
func (c *TableCalendar) Dates() []string {
	out := make([]string, 0, len(c.days))
	for s := range c.days {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// defaultHolidays covers the Russian federal holidays for 2024-2026, matching
// the statutory deadline rules in the bundled catalog.
var defaultHolidays = []string{
	"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
	"2024-01-06", "2024-01-07", "2024-01-08", "2024-02-23", "2024-03-08",
	"2024-05-01", "2024-05-09", "2024-06-12", "2024-11-04", "2024-12-31",
	"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-05",
	"2025-01-06", "2025-01-07", "2025-01-08", "2025-02-23", "2025-03-08",
	"2025-05-01", "2025-05-09", "2025-06-12", "2025-11-04",
	"2026-01-01", "2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05",
	"2026-01-06", "2026-01-07", "2026-01-08", "2026-02-23", "2026-03-08",
	"2026-05-01", "2026-05-09", "2026-06-12", "2026-11-04",
}

// DefaultHolidayCalendar returns the built-in holiday table.
func DefaultHolidayCalendar() *TableCalendar {
	return NewTableCalendar(defaultHolidays)
}

// =============================================================================
// BUSINESS CALENDAR
// =============================================================================

// BusinessCalendar combines the weekend rule with an injected holiday table.
// The zero value (nil Holidays) skips weekends only.
type BusinessCalendar struct {
	Holidays HolidayCalendar
}

// NewBusinessCalendar wires a holiday calendar; pass nil for weekend-only.
func NewBusinessCalendar(holidays HolidayCalendar) BusinessCalendar {
	return BusinessCalendar{Holidays: holidays}
}

func (c BusinessCalendar) IsBusinessDay(d Date) bool {
	if d.IsWeekend() {
		return false
	}
	if c.Holidays != nil && c.Holidays.IsHoliday(d) {
		return false
	}
	return true
}

// NextBusinessDay returns d itself if it is a business day, otherwise the
// earliest business day after it.
func (c BusinessCalendar) NextBusinessDay(d Date) Date {
	for !c.IsBusinessDay(d) {
		d = d.AddDays(1)
	}
	return d
}

// PreviousBusinessDay returns d itself if it is a business day, otherwise the
// latest business day before it.
func (c BusinessCalendar) PreviousBusinessDay(d Date) Date {
	for !c.IsBusinessDay(d) {
		d = d.AddDays(-1)
	}
	return d
}

// LastBusinessDayOfYear resolves the "last working day of year" date recipe.
func (c BusinessCalendar) LastBusinessDayOfYear(year int) Date {
	return c.PreviousBusinessDay(NewDate(year, time.December, 31))
}

// Adjust applies a transfer policy to a raw due date. Every generated due
// date in the system passes through here exactly once.
func (c BusinessCalendar) Adjust(d Date, policy TransferPolicy) Date {
	switch policy {
	case TransferNextBusinessDay:
		return c.NextBusinessDay(d)
	case TransferPreviousBusinessDay:
		return c.PreviousBusinessDay(d)
	default:
		return d
	}
}

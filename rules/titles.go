/*
titles.go - Title template interpolation

PURPOSE:
  Rule titles are templates with period placeholders, interpolated once at
  generation time so the stored task carries the final display string.

TOKENS:
  {year}               the obligation's year
  {year-1}             the prior year (annual declarations)
  {quarter}            quarter number 1-4
  {monthName}          name of the reporting month
  {monthNameGenitive}  declined month name for "for <month>" phrasing;
                       identical to {monthName} in this locale, kept as a
                       separate table for languages with declension
  {lastDayOfMonth}     day number of the reporting month's last day
*/
package rules

import (
	"strconv"
	"strings"
	"time"
)

var monthNames = [13]string{"",
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var monthNamesGenitive = monthNames

// renderTitle interpolates a rule title template for one sub-period.
// month is the reporting month for monthly cadences (zero otherwise);
// quarter likewise for quarterly cadences.
func renderTitle(template string, year, quarter int, month time.Month, lastDay int) string {
	rep := strings.NewReplacer(
		"{year}", strconv.Itoa(year),
		"{year-1}", strconv.Itoa(year-1),
		"{quarter}", strconv.Itoa(quarter),
		"{monthName}", monthName(month),
		"{monthNameGenitive}", monthNameGenitive(month),
		"{lastDayOfMonth}", strconv.Itoa(lastDay),
	)
	return rep.Replace(template)
}

func monthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m]
}

func monthNameGenitive(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNamesGenitive[m]
}

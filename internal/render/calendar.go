package render

import (
	"fmt"

	"github.com/leetplan/plansync/internal/models"
)

// CalendarEntry is one day selector of the grid
type CalendarEntry struct {
	Day         int
	Date        models.Date
	IsToday     bool
	IsActive    bool
	IsCompleted bool
}

// Label returns the short "M/D" label
func (e CalendarEntry) Label() string {
	return e.Date.Short()
}

// Tooltip returns "Day N - Jan 2, 2006"
func (e CalendarEntry) Tooltip() string {
	return fmt.Sprintf("Day %d - %s", e.Day, e.Date.Long())
}

// DayDate returns the calendar date of a plan day
func DayDate(start models.Date, day int) models.Date {
	return start.AddDays(day - 1)
}

// BuildCalendar returns the 30 entries of the grid, 1-indexed by Day.
// Completion is left unset; it is annotated asynchronously.
func BuildCalendar(start, today models.Date, active int) []CalendarEntry {
	entries := make([]CalendarEntry, 0, models.PlanDays)
	for day := models.FirstDay; day <= models.LastDay; day++ {
		date := DayDate(start, day)
		entries = append(entries, CalendarEntry{
			Day:      day,
			Date:     date,
			IsToday:  !today.IsZero() && date.Equal(today),
			IsActive: day == active,
		})
	}
	return entries
}

// FallbackDay computes the current day from a start date:
// clamp(floor((today - start) / 1 day) + 1, 1, 30).
func FallbackDay(start, today models.Date) int {
	return models.ClampDay(today.DaysSince(start) + 1)
}

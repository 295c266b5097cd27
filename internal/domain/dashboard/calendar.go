package dashboard

import (
	"fmt"
	"time"

	"dayboard/internal/domain/record"
)

// CalendarDay is one day cell of a Calendar.
type CalendarDay struct {
	Date   record.Date `json:"date"`
	HasDue bool        `json:"has_due"`
	Today  bool        `json:"today"`
}

// Calendar is one month laid out Sunday-first.
type Calendar struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Leading is the number of blank cells before the first day.
	Leading int           `json:"leading"`
	Days    []CalendarDay `json:"days"`
}

// Month builds the calendar for year/month, marking days with an incomplete
// task due and the current day.
func Month(tasks []record.Task, year int, month time.Month, now time.Time) Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Normalize overflowing months so month navigation can pass month±1.
	year, month = first.Year(), first.Month()
	daysIn := first.AddDate(0, 1, -1).Day()
	today := record.DateOf(now)

	due := make(map[record.Date]bool)
	for _, t := range tasks {
		if !t.IsComplete && t.DueDate != nil {
			due[*t.DueDate] = true
		}
	}

	cal := Calendar{
		Year:    year,
		Month:   month,
		Leading: int(first.Weekday()),
		Days:    make([]CalendarDay, daysIn),
	}
	for i := range cal.Days {
		d := record.Date{Year: year, Month: month, Day: i + 1}
		cal.Days[i] = CalendarDay{Date: d, HasDue: due[d], Today: d == today}
	}
	return cal
}

// Title is the month name and year, e.g. "March 2025".
func (c Calendar) Title() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}

// Shift returns the year and month delta months away from the calendar's.
func (c Calendar) Shift(delta int) (int, time.Month) {
	t := time.Date(c.Year, c.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Weeks splits the month into rows of seven cells. Blank cells have a zero Date.
func (c Calendar) Weeks() [][]CalendarDay {
	cells := make([]CalendarDay, c.Leading, c.Leading+len(c.Days)+6)
	cells = append(cells, c.Days...)
	for len(cells)%7 != 0 {
		cells = append(cells, CalendarDay{})
	}

	weeks := make([][]CalendarDay, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

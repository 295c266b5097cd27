// Package dashboard derives the dashboard views from a task snapshot.
// Every function is pure; calendar days are taken in the location of the
// supplied now.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"dayboard/internal/domain/record"
)

// UpcomingLimit is how many tasks the dashboard lists as upcoming.
const UpcomingLimit = 3

// Stats counts tasks by completion.
type Stats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// Completion counts completed tasks. Percentage is rounded to the nearest
// integer and is 0 for an empty list.
func Completion(tasks []record.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.IsComplete {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percentage = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// DayActivity is the number of tasks created and completed on one day.
type DayActivity struct {
	Day       record.Date `json:"day"`
	Weekday   string      `json:"weekday"`
	Created   int         `json:"created"`
	Completed int         `json:"completed"`
}

// LastSevenDays returns seven buckets from six days ago up to today.
// Tasks carry no completion time, so completed tasks are counted on the day
// they were created.
func LastSevenDays(tasks []record.Task, now time.Time) []DayActivity {
	today := record.DateOf(now)
	days := make([]DayActivity, 7)
	index := make(map[record.Date]int, 7)
	for i := range days {
		day := today.AddDays(i - 6)
		days[i] = DayActivity{Day: day, Weekday: day.In(time.UTC).Weekday().String()[:3]}
		index[day] = i
	}

	for _, t := range tasks {
		i, ok := index[record.DateOf(t.CreatedAt.In(now.Location()))]
		if !ok {
			continue
		}
		days[i].Created++
		if t.IsComplete {
			days[i].Completed++
		}
	}
	return days
}

// HasDueOn reports whether an incomplete task is due on day.
func HasDueOn(tasks []record.Task, day record.Date) bool {
	for _, t := range tasks {
		if !t.IsComplete && t.DueOn(day) {
			return true
		}
	}
	return false
}

// Upcoming returns the first n incomplete tasks in the order given.
func Upcoming(tasks []record.Task, n int) []record.Task {
	out := make([]record.Task, 0, n)
	for _, t := range tasks {
		if len(out) == n {
			break
		}
		if !t.IsComplete {
			out = append(out, t)
		}
	}
	return out
}

// DueLabel renders a task's due date the way the upcoming list shows it.
func DueLabel(t record.Task, now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	if *t.DueDate == record.DateOf(now) {
		return "Due Today"
	}
	if t.DueDate.Before(record.DateOf(now)) {
		return fmt.Sprintf("Overdue %s", t.DueDate)
	}
	return t.DueDate.String()
}

// Board is everything the dashboard shows.
type Board struct {
	Stats    Stats         `json:"stats"`
	Activity []DayActivity `json:"activity"`
	Calendar Calendar      `json:"calendar"`
	Upcoming []record.Task `json:"upcoming"`
}

// Summary bundles every dashboard view for the month containing now.
func Summary(tasks []record.Task, now time.Time) Board {
	return Board{
		Stats:    Completion(tasks),
		Activity: LastSevenDays(tasks, now),
		Calendar: Month(tasks, now.Year(), now.Month(), now),
		Upcoming: Upcoming(tasks, UpcomingLimit),
	}
}

// Navigate moves the calendar delta months away from the month it shows.
func (b *Board) Navigate(tasks []record.Task, delta int, now time.Time) {
	if delta == 0 {
		return
	}
	year, month := b.Calendar.Shift(delta)
	b.Calendar = Month(tasks, year, month, now)
}

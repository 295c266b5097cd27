// Package render prints collections and the dashboard for the terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/dashboard"
	"dayboard/internal/domain/record"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"

	titleWidth    = 40
	previewWidth  = 50
	calendarWidth = len("11 12 13 14 15 16 17")
)

var (
	bold        = color.New(color.Bold)
	faint       = color.New(color.Faint)
	overdue     = color.New(color.FgRed)
	dueNow      = color.New(color.FgYellow, color.Bold)
	done        = color.New(color.FgGreen)
	marked      = color.New(color.FgHiYellow, color.Bold)
	today       = color.New(color.Underline, color.Bold)
	markedToday = color.New(color.Underline, color.Bold, color.FgHiYellow)
)

// ValidateFormat rejects unknown --format values.
func ValidateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q, want %s or %s", format, FormatTable, FormatJSON)
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Tasks prints a task table. Overdue dates are red.
func Tasks(w io.Writer, tasks []record.Task, now time.Time) {
	if len(tasks) == 0 {
		_, _ = faint.Fprintln(w, "No tasks.")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = titleWidth
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint(" "), bold.Sprint("TITLE"), bold.Sprint("CATEGORY"), bold.Sprint("DUE"))
	for _, t := range tasks {
		tbl.AddRow(types.ShortID(t.ID), checkbox(t), t.Title, t.Category, due(t, now))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func checkbox(t record.Task) string {
	if t.IsComplete {
		return done.Sprint("[x]")
	}
	return "[ ]"
}

func due(t record.Task, now time.Time) string {
	label := dashboard.DueLabel(t, now)
	switch {
	case label == "" || t.IsComplete:
		return label
	case t.DueOn(record.DateOf(now)):
		return dueNow.Sprint(label)
	case t.DueDate.Before(record.DateOf(now)):
		return overdue.Sprint(label)
	}
	return label
}

// Notes prints a note table with a content preview.
func Notes(w io.Writer, notes []record.Note) {
	if len(notes) == 0 {
		_, _ = faint.Fprintln(w, "No notes.")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = previewWidth
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("TITLE"), bold.Sprint("PREVIEW"), bold.Sprint("CREATED"))
	for _, n := range notes {
		tbl.AddRow(types.ShortID(n.ID), n.Title, faint.Sprint(Preview(n.Content)), n.CreatedAt.Local().Format(time.DateOnly))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// Preview is the first non-empty line of content.
func Preview(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(strings.TrimLeft(line, "#>-* ")); line != "" {
			return line
		}
	}
	return ""
}

// Note prints a note with its content rendered as markdown.
func Note(w io.Writer, n record.Note, style string, width int) error {
	_, _ = bold.Fprintln(w, n.Title)
	_, _ = faint.Fprintf(w, "%s  %s\n", n.ID, n.CreatedAt.Local().Format(time.DateTime))

	out, err := Markdown(n.Content, style, width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Markdown renders md with a glamour standard style such as "dark" or "notty".
func Markdown(md, style string, width int) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// Board prints every dashboard view.
func Board(w io.Writer, b dashboard.Board, now time.Time) {
	_, _ = bold.Fprintln(w, "Completion")
	_, _ = fmt.Fprintf(w, "%d of %d tasks done (%d%%)\n\n", b.Stats.Completed, b.Stats.Total, b.Stats.Percentage)

	_, _ = bold.Fprintln(w, "Last 7 days")
	Activity(w, b.Activity)
	_, _ = fmt.Fprintln(w)

	Calendar(w, b.Calendar)
	_, _ = fmt.Fprintln(w)

	_, _ = bold.Fprintln(w, "Upcoming")
	if len(b.Upcoming) == 0 {
		_, _ = faint.Fprintln(w, "Nothing upcoming.")
		return
	}
	for _, t := range b.Upcoming {
		line := t.Title
		if label := due(t, now); label != "" {
			line += "  " + label
		}
		_, _ = fmt.Fprintf(w, "  %s %s\n", faint.Sprint(types.ShortID(t.ID)), line)
	}
}

// Activity prints one row per day with created and completed counts.
func Activity(w io.Writer, days []dashboard.DayActivity) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("DAY"), bold.Sprint("DATE"), bold.Sprint("CREATED"), bold.Sprint("DONE"))
	for _, d := range days {
		tbl.AddRow(d.Weekday, d.Day.String(), d.Created, d.Completed)
	}
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	_, _ = fmt.Fprintln(w, tbl)
}

// Calendar prints a Sunday-first month grid. Days with an open task due are
// highlighted and today is underlined.
func Calendar(w io.Writer, c dashboard.Calendar) {
	title := c.Title()
	pad := (calendarWidth - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	_, _ = bold.Fprintf(w, "%s%s\n", strings.Repeat(" ", pad), title)
	_, _ = faint.Fprintln(w, "Su Mo Tu We Th Fr Sa")

	for _, week := range c.Weeks() {
		cells := make([]string, 0, len(week))
		for _, d := range week {
			cells = append(cells, cell(d))
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " "))
	}
}

func cell(d dashboard.CalendarDay) string {
	if d.Date.IsZero() {
		return "  "
	}
	s := fmt.Sprintf("%2d", d.Date.Day)
	switch {
	case d.Today && d.HasDue:
		return markedToday.Sprint(s)
	case d.Today:
		return today.Sprint(s)
	case d.HasDue:
		return marked.Sprint(s)
	}
	return s
}

// Change prints one store notification as a line.
func Change(w io.Writer, n collection.Notification, at time.Time) {
	line := fmt.Sprintf("%s  %-6s %-11s", faint.Sprint(at.Format(time.TimeOnly)), n.Collection, n.Kind)
	if n.ID != "" {
		line += " " + types.ShortID(n.ID)
	}
	line += faint.Sprintf("  (%d)", n.Len)
	if n.Err != nil {
		line += " " + overdue.Sprint(n.Err.Error())
	}
	_, _ = fmt.Fprintln(w, line)
}

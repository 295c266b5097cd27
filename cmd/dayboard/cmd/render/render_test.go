package render

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/dashboard"
	"dayboard/internal/domain/record"
)

var now = time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func date(y int, m time.Month, d int) *record.Date {
	v := record.MustDate(y, m, d)
	return &v
}

func TestTasks(t *testing.T) {
	var buf bytes.Buffer
	Tasks(&buf, []record.Task{
		{ID: "3f2a9c10-aaaa", Title: "Pay rent", Category: "Home", DueDate: date(2025, 3, 1)},
		{ID: "b71e0d55-bbbb", Title: "Ship release", Category: "Work", DueDate: date(2025, 3, 12), IsComplete: true},
	}, now)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Contains(t, lines[1], "3f2a9c10")
	assert.NotContains(t, lines[1], "-aaaa")
	assert.Contains(t, lines[1], "[ ]")
	assert.Contains(t, lines[1], "Overdue 2025-03-01")
	assert.Contains(t, lines[2], "[x]")
	assert.Contains(t, lines[2], "Due Today")
}

func TestTasks_Empty(t *testing.T) {
	var buf bytes.Buffer
	Tasks(&buf, nil, now)
	assert.Equal(t, "No tasks.\n", buf.String())
}

func TestNotes(t *testing.T) {
	var buf bytes.Buffer
	Notes(&buf, []record.Note{{ID: "n1", Title: "Ideas", Content: "# Heading\n\nfirst line", CreatedAt: now}})

	assert.Contains(t, buf.String(), "Ideas")
	assert.Contains(t, buf.String(), "Heading")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "Plan", Preview("\n\n## Plan\nmore"))
	assert.Equal(t, "quote", Preview("> quote"))
	assert.Equal(t, "", Preview("  \n "))
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("Ship the **dashboard** today", "notty", 80)
	require.NoError(t, err)
	assert.Contains(t, out, "dashboard")

	empty, err := Markdown("   ", "notty", 80)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCalendar(t *testing.T) {
	var buf bytes.Buffer
	Calendar(&buf, dashboard.Month([]record.Task{{DueDate: date(2025, 3, 14)}}, 2025, time.March, now))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "March 2025")
	assert.Equal(t, "Su Mo Tu We Th Fr Sa", lines[1])
	// March 1st 2025 is a Saturday.
	assert.Equal(t, strings.Repeat("   ", 6)+" 1", lines[2])
	assert.Equal(t, "30 31", lines[7])
}

func TestBoard(t *testing.T) {
	tasks := []record.Task{
		{ID: "t2", Title: "Dentist", CreatedAt: now, DueDate: date(2025, 3, 12)},
		{ID: "t1", Title: "Taxes", CreatedAt: now.Add(-time.Hour), IsComplete: true},
	}

	var buf bytes.Buffer
	Board(&buf, dashboard.Summary(tasks, now), now)

	out := buf.String()
	assert.Contains(t, out, "1 of 2 tasks done (50%)")
	assert.Contains(t, out, "2025-03-12")
	assert.Contains(t, out, "Dentist  Due Today")
	assert.NotContains(t, out, "Taxes")
}

func TestChange(t *testing.T) {
	var buf bytes.Buffer
	Change(&buf, collection.Notification{
		Kind:       collection.LoadFailed,
		Collection: record.KindTask,
		Len:        0,
		Err:        errors.New("offline"),
	}, now)

	assert.Contains(t, buf.String(), "15:00:00")
	assert.Contains(t, buf.String(), "load-failed")
	assert.Contains(t, buf.String(), "offline")
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat(FormatJSON))
	assert.Error(t, ValidateFormat("csv"))
}

package task

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayboard/internal/domain/record"
)

func editCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "edit"}
	bindEditFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestEditPatch(t *testing.T) {
	t.Run("TitleAndDue", func(t *testing.T) {
		patch, err := editPatch(editCommand(t, "--title", "Pay rent", "--due", "2025-04-01"))
		require.NoError(t, err)
		require.NotNil(t, patch.Title)
		assert.Equal(t, "Pay rent", *patch.Title)
		require.NotNil(t, patch.DueDate)
		assert.Equal(t, record.MustDate(2025, 4, 1), *patch.DueDate)
		assert.Nil(t, patch.Category)
	})

	t.Run("EmptyDueClears", func(t *testing.T) {
		patch, err := editPatch(editCommand(t, "--due", ""))
		require.NoError(t, err)
		assert.True(t, patch.ClearDue)
		assert.Nil(t, patch.DueDate)
	})

	t.Run("EmptyCategoryIsAChange", func(t *testing.T) {
		patch, err := editPatch(editCommand(t, "--category", ""))
		require.NoError(t, err)
		require.NotNil(t, patch.Category)
	})

	t.Run("NothingToChange", func(t *testing.T) {
		_, err := editPatch(editCommand(t))
		assert.Error(t, err)
	})

	t.Run("BadDate", func(t *testing.T) {
		_, err := editPatch(editCommand(t, "--due", "04/01/2025"))
		assert.ErrorIs(t, err, record.ErrInvalidDate)
	})

	t.Run("BlankTitle", func(t *testing.T) {
		_, err := editPatch(editCommand(t, "--title", "  "))
		assert.ErrorIs(t, err, record.ErrInvalidData)
	})
}

func TestParseDue(t *testing.T) {
	due, err := parseDue("")
	require.NoError(t, err)
	assert.Nil(t, due)

	due, err = parseDue("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", due.String())
}

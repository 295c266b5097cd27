package note

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadContent(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("# From stdin\n"))

	t.Run("Flag", func(t *testing.T) {
		got, err := readContent(cmd, "inline", "")
		require.NoError(t, err)
		assert.Equal(t, "inline", got)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "minutes.md")
		require.NoError(t, os.WriteFile(path, []byte("- item"), 0o600))

		got, err := readContent(cmd, "", path)
		require.NoError(t, err)
		assert.Equal(t, "- item", got)
	})

	t.Run("Stdin", func(t *testing.T) {
		got, err := readContent(cmd, "", "-")
		require.NoError(t, err)
		assert.Equal(t, "# From stdin\n", got)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := readContent(cmd, "", filepath.Join(t.TempDir(), "absent.md"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

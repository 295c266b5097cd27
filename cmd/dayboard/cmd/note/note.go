package note

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/app/client"
)

// NoteCmd groups the note commands. Note content is markdown.
var NoteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"notes", "n"},
	Short:   "Manage notes",
}

func open(cmd *cobra.Command) (*types.Env, *client.Scope, error) {
	env, err := types.FromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	scope, err := env.Scope(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return env, scope, nil
}

func resolve(scope *client.Scope, ref string) (string, error) {
	notes := scope.Notes.Snapshot()
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return types.ResolveID(ref, ids)
}

// readContent returns the --content value, or the contents of --file where
// "-" is stdin.
func readContent(cmd *cobra.Command, content, file string) (string, error) {
	if file == "" {
		return content, nil
	}

	var r io.Reader
	if file == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(file)
		if err != nil {
			return "", fmt.Errorf("open note file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read note content: %w", err)
	}
	return string(data), nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), 30*time.Second)
}

package note

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/domain/record"
)

var (
	editTitle   string
	editContent string
	editFile    string
)

var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a note's title or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch record.NotePatch
		if cmd.Flags().Changed("title") {
			patch.Title = &editTitle
		}
		if cmd.Flags().Changed("content") || cmd.Flags().Changed("file") {
			content, err := readContent(cmd, editContent, editFile)
			if err != nil {
				return err
			}
			patch.Content = &content
		}
		if patch.IsEmpty() {
			return errors.New("nothing to change, pass --title, --content or --file")
		}
		if err := patch.Validate(); err != nil {
			return err
		}

		env, scope, err := open(cmd)
		if err != nil {
			return err
		}
		id, err := resolve(scope, args[0])
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd)
		defer cancel()

		note, err := scope.Notes.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "Updated note %s: %s\n", types.ShortID(note.ID), note.Title)
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVarP(&editTitle, "title", "t", "", "new title")
	EditCmd.Flags().StringVarP(&editContent, "content", "c", "", "new markdown content")
	EditCmd.Flags().StringVarP(&editFile, "file", "f", "", `read new content from a file, "-" for stdin`)
	EditCmd.MarkFlagsMutuallyExclusive("content", "file")
}

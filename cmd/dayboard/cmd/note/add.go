package note

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/types"
	"dayboard/internal/domain/record"
)

var (
	addContent string
	addFile    string
)

var AddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a note",
	Example: `  dayboard note add Ideas --content "Ship the **dashboard**"
  dayboard note add Meeting --file minutes.md
  pbpaste | dayboard note add Clipboard --file -`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd, addContent, addFile)
		if err != nil {
			return err
		}
		env, scope, err := open(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout(cmd)
		defer cancel()

		note, err := scope.Notes.Create(ctx, record.Note{
			Title:   strings.Join(args, " "),
			Content: content,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(env.Out, "Added note %s: %s\n", types.ShortID(note.ID), note.Title)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVarP(&addContent, "content", "c", "", "markdown content")
	AddCmd.Flags().StringVarP(&addFile, "file", "f", "", `read content from a file, "-" for stdin`)
	AddCmd.MarkFlagsMutuallyExclusive("content", "file")
}

package note

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"dayboard/cmd/dayboard/cmd/render"
)

const defaultWidth = 80

var (
	showRaw   bool
	showWidth int
)

var ShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note with its markdown rendered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, scope, err := open(cmd)
		if err != nil {
			return err
		}
		id, err := resolve(scope, args[0])
		if err != nil {
			return err
		}
		note, _ := scope.Notes.Get(id)

		if showRaw {
			_, err := env.Out.Write([]byte(note.Content + "\n"))
			return err
		}

		style, width := "notty", showWidth
		if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
			style = "dark"
			if w, _, err := term.GetSize(fd); err == nil && width == 0 {
				width = w
			}
		}
		if width == 0 {
			width = defaultWidth
		}
		return render.Note(env.Out, note, style, width)
	},
}

func init() {
	ShowCmd.Flags().BoolVar(&showRaw, "raw", false, "print the markdown source")
	ShowCmd.Flags().IntVarP(&showWidth, "width", "w", 0, "wrap width, defaults to the terminal width")
}

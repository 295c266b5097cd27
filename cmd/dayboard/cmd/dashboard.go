package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"dayboard/cmd/dayboard/cmd/render"
	"dayboard/cmd/dayboard/cmd/types"
	dashboardhttp "dayboard/internal/app/view/api/http/dashboard"
	"dayboard/internal/domain/dashboard"
)

var (
	dashboardMonth  string
	dashboardOffset int
	dashboardFormat string
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Show completion, the last seven days, the calendar and upcoming tasks",
	Long: `Show the dashboard.

The calendar shows the current month unless --month YYYY-MM is given.
--offset moves it from there, so --offset -1 shows the previous month. Days
with an open task due are highlighted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := render.ValidateFormat(dashboardFormat); err != nil {
			return err
		}
		var (
			year  int
			month time.Month
			err   error
		)
		if dashboardMonth != "" {
			if year, month, err = dashboardhttp.ParseMonth(dashboardMonth); err != nil {
				return err
			}
		}

		env, err := types.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		scope, err := env.Scope(cmd.Context())
		if err != nil {
			return err
		}

		now := time.Now()
		tasks := scope.Tasks.Snapshot()
		board := dashboard.Summary(tasks, now)
		if dashboardMonth != "" {
			board.Calendar = dashboard.Month(tasks, year, month, now)
		}
		board.Navigate(tasks, dashboardOffset, now)

		if dashboardFormat == render.FormatJSON {
			return render.JSON(env.Out, board)
		}
		render.Board(env.Out, board, now)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardMonth, "month", "m", "", "calendar month (YYYY-MM)")
	dashboardCmd.Flags().IntVar(&dashboardOffset, "offset", 0, "months to move the calendar, negative for earlier months")
	dashboardCmd.Flags().StringVarP(&dashboardFormat, "format", "f", render.FormatTable, "output format (table, json)")
}

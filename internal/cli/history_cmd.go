package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelNest/internal/cli/formatter"
	"github.com/piwi3910/PanelNest/internal/project"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved optimization runs",
	}

	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryShowCmd(app),
		newHistoryDeleteCmd(app),
	)
	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			list, err := runs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRuns(list, app.Now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")
	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a saved run and optionally restore its project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			run, err := runs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n\n", formatter.Bold(run.Name), formatter.Dim(run.CreatedAt.Format("2006-01-02 15:04")))
			if run.Project.Result != nil {
				fmt.Fprint(out, formatter.FormatResult(*run.Project.Result, run.Project.StockSheets))
			}

			if output != "" {
				if err := project.SaveProject(output, run.Project); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nProject written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the run's project to this file")
	return cmd
}

func newHistoryDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.runs()
			if err != nil {
				return err
			}
			if err := runs.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
			return nil
		},
	}
}

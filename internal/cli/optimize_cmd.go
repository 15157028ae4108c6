package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelNest/internal/cli/formatter"
	"github.com/piwi3910/PanelNest/internal/engine"
	"github.com/piwi3910/PanelNest/internal/project"
)

func newOptimizeCmd(app *App) *cobra.Command {
	var (
		in       inputFlags
		output   string
		save     bool
		name     string
		parallel bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Nest panels onto stock sheets and print the layout summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := in.load(app, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if name != "" {
				p.Name = name
			}

			opt := app.optimizer()
			if cmd.Flags().Changed("parallel") {
				opt = engine.New(engine.WithLogger(app.Logger), engine.WithParallelGroups(parallel))
			}
			result, err := opt.Optimize(p.Panels, p.StockSheets, p.Options)
			if err != nil {
				return err
			}
			p.Result = &result

			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatResult(result, p.StockSheets))

			if output != "" {
				if err := project.SaveProject(output, p); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nProject written to %s\n", output)
			}

			if save {
				runs, err := app.runs()
				if err != nil {
					return err
				}
				runName := p.Name
				if runName == "" {
					runName = "Run " + app.Now().UTC().Format("2006-01-02T15:04:05Z07:00")
				}
				run, err := runs.Save(cmd.Context(), runName, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved run %s %s\n", formatter.TruncID(run.ID), formatter.Bold(run.Name))
			}
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the project with its layout to this file")
	cmd.Flags().BoolVar(&save, "save", false, "store the run in the history database")
	cmd.Flags().StringVar(&name, "name", "", "project or run name")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "pack demand groups concurrently")

	return cmd
}

func newCompareCmd(app *App) *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the job under several option scenarios side by side",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := in.load(app, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			results, err := app.optimizer().CompareScenarios(engine.BuildDefaultScenarios(p.Options), p.Panels, p.StockSheets)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatComparison(results))
			return nil
		},
	}

	in.register(cmd)
	return cmd
}

func newVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <project>",
		Short: "Check a saved layout for overlaps, bounds and grain violations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.LoadProject(args[0])
			if err != nil {
				return err
			}
			if p.Result == nil {
				return fmt.Errorf("%s has no layout; run optimize first", args[0])
			}

			violations := engine.Verify(*p.Result)
			if app.applyOverrides(p.Options).PreserveGrain {
				violations = append(violations, engine.VerifyGrain(*p.Result)...)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatViolations(violations))
			if len(violations) > 0 {
				return fmt.Errorf("%d layout violation(s)", len(violations))
			}
			return nil
		},
	}
}

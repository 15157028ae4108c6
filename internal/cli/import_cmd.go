package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelNest/internal/cli/formatter"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/project"
)

func newImportCmd(app *App) *cobra.Command {
	var (
		stock  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Read a panel or stock list and optionally add it to a project",
		Long: `Read a panel list (CSV, Excel or DXF) or, with --stock, a stock sheet
list. With --output the rows replace the panels or stock of that project,
creating it when it does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			p := model.NewProject()
			p.Options = app.Config.Options()
			if output != "" && fileExists(output) {
				loaded, err := project.LoadProject(output)
				if err != nil {
					return err
				}
				p = loaded
			}

			if stock {
				stocks, err := importStock(args[0], cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatStockSheets(stocks))
				fmt.Fprintf(out, "%d stock sheet(s) imported\n", len(stocks))
				p.StockSheets = stocks
			} else {
				panels, err := importPanels(args[0], cmd.ErrOrStderr())
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatPanels(panels))
				fmt.Fprintf(out, "%d panel(s) imported\n", len(panels))
				p.Panels = panels
			}

			if output == "" {
				return nil
			}
			// The old layout no longer matches the job.
			p.Result = nil
			if err := project.SaveProject(output, p); err != nil {
				return err
			}
			fmt.Fprintf(out, "Project written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stock, "stock", false, "the file lists stock sheets")
	cmd.Flags().StringVarP(&output, "output", "o", "", "project file to update")
	return cmd
}

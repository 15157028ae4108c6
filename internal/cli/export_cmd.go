package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelNest/internal/export"
	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/project"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a layout as PDF, labels, spreadsheet, GCode or a backup bundle",
		Long: `Export a project's layout. Projects without a stored layout are
optimized first using the project's options.`,
	}

	cmd.AddCommand(
		newExportFileCmd(app, "pdf", "Cutting diagrams and summary as PDF", export.ExportPDF),
		newExportFileCmd(app, "labels", "QR-coded panel labels as PDF", func(path string, p model.Project) error {
			return export.ExportLabels(path, *p.Result)
		}),
		newExportFileCmd(app, "xlsx", "Cut list spreadsheet", export.ExportCutList),
		newExportFileCmd(app, "bundle", "Versioned project backup", project.ExportBundle),
		newExportGCodeCmd(app),
	)
	return cmd
}

func newExportFileCmd(app *App, use, short string, write func(string, model.Project) error) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   use + " <project>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadLaidOut(app, args[0])
			if err != nil {
				return err
			}
			if err := write(output, p); err != nil {
				return fmt.Errorf("export %s: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newExportGCodeCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "gcode <project>",
		Short: "One GCode program per sheet",
		Long: `Write sheet_<n>.nc for every sheet of the layout into the output
directory. The controller profile is taken from --profile or the config file
and may name a custom profile saved in the user config directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadLaidOut(app, args[0])
			if err != nil {
				return err
			}
			if p.Result.SheetCount == 0 {
				return export.ErrNoLayout
			}

			settings, profile, err := app.gcodeSetup()
			if err != nil {
				return err
			}
			settings.Kerf = p.Options.Kerf
			gen := gcode.NewWithProfile(settings, profile)

			if err := os.MkdirAll(output, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			programs := gen.GenerateAll(*p.Result)
			for i, prog := range programs {
				path := filepath.Join(output, fmt.Sprintf("sheet_%d.nc", i+1))
				if err := os.WriteFile(path, []byte(prog), 0644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d program(s) for %s to %s\n", len(programs), gen.Profile().Name, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

// gcodeSetup returns the configured machining settings and controller
// profile. Custom profiles saved in the user config directory take
// precedence over built-in ones of the same name.
func (app *App) gcodeSetup() (gcode.Settings, gcode.Profile, error) {
	settings := app.Config.GCodeSettings()
	var custom []gcode.Profile
	if path, err := project.DefaultProfilesPath(); err == nil {
		if custom, err = project.LoadProfiles(path); err != nil {
			return settings, gcode.Profile{}, err
		}
	}
	return settings, gcode.ResolveProfile(settings.Profile, custom), nil
}

package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "view <project>",
		Short: "Open the layout in a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.View == nil {
				return errors.New("layout viewer is not available in this build")
			}
			p, err := loadLaidOut(app, args[0])
			if err != nil {
				return err
			}
			settings, profile, err := app.gcodeSetup()
			if err != nil {
				return err
			}
			return app.View(p, settings, profile)
		},
	}
}

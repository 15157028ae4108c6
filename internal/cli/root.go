// Package cli implements the panelnest command line.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/PanelNest/internal/config"
	"github.com/piwi3910/PanelNest/internal/engine"
	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/logging"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/store"
)

// RunStore persists optimization runs.
type RunStore interface {
	Save(ctx context.Context, name string, p model.Project) (store.Run, error)
	Get(ctx context.Context, id string) (store.Run, error)
	List(ctx context.Context, limit int) ([]store.Run, error)
	Delete(ctx context.Context, id string) error
}

// App holds the dependencies shared by all commands. Config and Logger are
// filled in before a command runs; Runs is opened on first use when nil.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Runs   RunStore

	// View opens the layout viewer. Nil when no display is available.
	View func(p model.Project, settings gcode.Settings, profile gcode.Profile) error
	Now  func() time.Time

	overrides config.CLIOverrides
	closers   []func() error
}

// NewRootCmd creates the top-level "panelnest" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var (
		kerf             float64
		considerMaterial bool
		preserveGrain    bool
		logLevel         string
		dbPath           string
		profile          string
	)

	root := &cobra.Command{
		Use:           "panelnest",
		Short:         "Nest rectangular panels onto stock sheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("kerf") {
				app.overrides.Kerf = &kerf
			}
			if flags.Changed("material") {
				app.overrides.ConsiderMaterial = &considerMaterial
			}
			if flags.Changed("grain") {
				app.overrides.PreserveGrain = &preserveGrain
			}
			if flags.Changed("log-level") {
				app.overrides.LogLevel = &logLevel
			}
			if flags.Changed("db") {
				app.overrides.DBPath = &dbPath
			}
			if flags.Changed("profile") {
				app.overrides.GCodeProfile = &profile
			}

			cfg, err := config.Load(&app.overrides)
			if err != nil {
				return err
			}
			app.Config = cfg

			if app.Logger == nil {
				logger, err := logging.New(cfg.LogLevel)
				if err != nil {
					return err
				}
				app.Logger = logger
				app.closers = append(app.closers, func() error {
					_ = logger.Sync()
					return nil
				})
			}
			if app.Now == nil {
				app.Now = time.Now
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.overrides.ConfigFile, "config", "", "YAML config file")
	pf.Float64Var(&kerf, "kerf", 0, "saw blade width in mm")
	pf.BoolVar(&considerMaterial, "material", false, "pack each material group on its own stock")
	pf.BoolVar(&preserveGrain, "grain", false, "never rotate panels")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&dbPath, "db", "", "run history database path")
	pf.StringVar(&profile, "profile", "", "GCode controller profile")

	root.AddCommand(
		newOptimizeCmd(app),
		newCompareCmd(app),
		newVerifyCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newHistoryCmd(app),
		newViewCmd(app),
	)

	return root
}

func (app *App) optimizer() *engine.Optimizer {
	return engine.New(
		engine.WithLogger(app.Logger),
		engine.WithParallelGroups(app.Config.ParallelGroups),
	)
}

// runs returns the run store, opening the configured database on first use.
func (app *App) runs() (RunStore, error) {
	if app.Runs != nil {
		return app.Runs, nil
	}
	db, err := store.Open(app.Config.DBPath)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db.Close)
	app.Runs = store.NewRunRepo(db)
	return app.Runs, nil
}

// applyOverrides replaces fields of opts with any options set on the command line.
func (app *App) applyOverrides(opts model.Options) model.Options {
	if app.overrides.Kerf != nil {
		opts.Kerf = *app.overrides.Kerf
	}
	if app.overrides.ConsiderMaterial != nil {
		opts.ConsiderMaterial = *app.overrides.ConsiderMaterial
	}
	if app.overrides.PreserveGrain != nil {
		opts.PreserveGrain = *app.overrides.PreserveGrain
	}
	return opts
}

// Close releases the database and flushes the logger. It is safe to call twice.
func (app *App) Close() error {
	var first error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	app.closers = nil
	return first
}

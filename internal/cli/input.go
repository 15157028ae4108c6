package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelNest/internal/cli/formatter"
	"github.com/piwi3910/PanelNest/internal/importer"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/project"
)

// inputFlags selects the job to optimize: a project file, or a panel list
// plus a stock list.
type inputFlags struct {
	project string
	panels  string
	stock   string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "project file (.json)")
	cmd.Flags().StringVar(&f.panels, "panels", "", "panel list (.csv, .xlsx or .dxf)")
	cmd.Flags().StringVar(&f.stock, "stock", "", "stock sheet list (.csv or .xlsx)")
}

// load builds the project to optimize. Options come from the project file when
// one is given, otherwise from the configuration; explicit flags win in both cases.
func (f *inputFlags) load(app *App, stderr io.Writer) (model.Project, error) {
	var p model.Project
	switch {
	case f.project != "":
		if f.panels != "" || f.stock != "" {
			return p, errors.New("--project cannot be combined with --panels or --stock")
		}
		loaded, err := project.LoadProject(f.project)
		if err != nil {
			return p, err
		}
		p = loaded
	case f.panels != "" && f.stock != "":
		panels, err := importPanels(f.panels, stderr)
		if err != nil {
			return p, err
		}
		stocks, err := importStock(f.stock, stderr)
		if err != nil {
			return p, err
		}
		p = model.NewProject()
		p.Name = strings.TrimSuffix(filepath.Base(f.panels), filepath.Ext(f.panels))
		p.Panels = panels
		p.StockSheets = stocks
		p.Options = app.Config.Options()
	default:
		return p, errors.New("either --project or both --panels and --stock are required")
	}

	p.Options = app.applyOverrides(p.Options)
	return p, nil
}

// importPanels reads a panel list by file extension. Warnings go to stderr;
// any row error fails the import.
func importPanels(path string, stderr io.Writer) ([]model.PanelSpec, error) {
	var res importer.ImportResult
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		res = importer.ImportCSV(path)
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(path)
	case ".dxf":
		res = importer.ImportDXF(path)
	default:
		return nil, fmt.Errorf("unsupported panel file type %q", ext)
	}
	fmt.Fprint(stderr, formatter.FormatMessages(res.Warnings, res.Errors))
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("%s: %d import error(s)", path, len(res.Errors))
	}
	return res.Panels, nil
}

func importStock(path string, stderr io.Writer) ([]model.StockSheetSpec, error) {
	var res importer.StockResult
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		res = importer.ImportStockCSV(path)
	case ".xlsx", ".xlsm":
		res = importer.ImportStockExcel(path)
	default:
		return nil, fmt.Errorf("unsupported stock file type %q", ext)
	}
	fmt.Fprint(stderr, formatter.FormatMessages(res.Warnings, res.Errors))
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("%s: %d import error(s)", path, len(res.Errors))
	}
	return res.StockSheets, nil
}

// loadLaidOut loads a project and optimizes it when it carries no layout yet.
func loadLaidOut(app *App, path string) (model.Project, error) {
	p, err := project.LoadProject(path)
	if err != nil {
		return p, err
	}
	if p.Result != nil {
		return p, nil
	}
	p.Options = app.applyOverrides(p.Options)
	result, err := app.optimizer().Optimize(p.Panels, p.StockSheets, p.Options)
	if err != nil {
		return p, err
	}
	p.Result = &result
	return p, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

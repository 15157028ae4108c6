package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/piwi3910/PanelNest/internal/gcode"
	"github.com/piwi3910/PanelNest/internal/model"
	"github.com/piwi3910/PanelNest/internal/project"
	"github.com/piwi3910/PanelNest/internal/store"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// testApp wires an App backed by an in-memory run history.
func testApp(t *testing.T) *App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &App{
		Logger: zap.NewNop(),
		Runs:   store.NewRunRepo(db),
		Now: func() time.Time {
			return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
		},
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return stripANSI(buf.String()), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// cabinetFiles writes a carcass cut list and a plywood stock list.
func cabinetFiles(t *testing.T, dir string) (panels, stock string) {
	t.Helper()
	panels = writeFile(t, dir, "cabinet.csv", "Label,Length,Width,Qty\nSide,720,560,2\nShelf,560,300,3\n")
	stock = writeFile(t, dir, "stock.csv", "Label,Length,Width,Qty,Thickness,Material,Price\nPly,2440,1220,2,18,,45.50\n")
	return panels, stock
}

func cabinetProject(t *testing.T, app *App, dir string) string {
	t.Helper()
	panels, stock := cabinetFiles(t, dir)
	out := filepath.Join(dir, "cabinet.json")
	_, err := executeCmd(t, app, "optimize", "--panels", panels, "--stock", stock, "--kerf", "3", "-o", out)
	require.NoError(t, err)
	return out
}

// --- optimize ---

func TestOptimize_FromCSVFiles(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	panels, stock := cabinetFiles(t, dir)
	out := filepath.Join(dir, "job.json")

	output, err := executeCmd(t, app, "optimize", "--panels", panels, "--stock", stock, "--kerf", "3", "-o", out, "--save")
	require.NoError(t, err)

	assert.Contains(t, output, "Detected header row, skipping")
	assert.Contains(t, output, "LAYOUT")
	assert.Contains(t, output, "5 placed")
	assert.Contains(t, output, "PURCHASE")
	assert.Contains(t, output, "45.50")
	assert.Contains(t, output, "Project written to "+out)
	assert.Contains(t, output, "Saved run")

	p, err := project.LoadProject(out)
	require.NoError(t, err)
	require.NotNil(t, p.Result)
	assert.Equal(t, "cabinet", p.Name)
	assert.Equal(t, 3.0, p.Options.Kerf)
	assert.Equal(t, 1, p.Result.SheetCount)
	assert.Len(t, p.Result.Placements, 5)

	runs, err := app.Runs.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "cabinet", runs[0].Name)
}

func TestOptimize_ProjectFileKeepsItsOptions(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	p := model.NewProject()
	p.Name = "Drawer"
	p.Options = model.Options{Kerf: 5, PreserveGrain: true}
	p.Panels = []model.PanelSpec{{ID: "front", Length: 400, Width: 150, Quantity: 2}}
	p.StockSheets = []model.StockSheetSpec{{ID: "mdf", Length: 2440, Width: 1220, Quantity: 1}}
	path := filepath.Join(dir, "drawer.json")
	require.NoError(t, project.SaveProject(path, p))

	out := filepath.Join(dir, "drawer-out.json")
	_, err := executeCmd(t, app, "optimize", "--project", path, "-o", out)
	require.NoError(t, err)

	got, err := project.LoadProject(out)
	require.NoError(t, err)
	assert.Equal(t, model.Options{Kerf: 5, PreserveGrain: true}, got.Options)
	require.NotNil(t, got.Result)
	require.Len(t, got.Result.Placements, 2)
	assert.Equal(t, 405.0, got.Result.Placements[0].PlacedLength)
}

func TestOptimize_FlagOverridesProjectOptions(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	p := model.NewProject()
	p.Options = model.Options{Kerf: 5}
	p.Panels = []model.PanelSpec{{ID: "a", Length: 400, Width: 150, Quantity: 1}}
	p.StockSheets = []model.StockSheetSpec{{ID: "mdf", Length: 2440, Width: 1220, Quantity: 1}}
	path := filepath.Join(dir, "job.json")
	require.NoError(t, project.SaveProject(path, p))

	_, err := executeCmd(t, app, "optimize", "--project", path, "--kerf", "0", "-o", path)
	require.NoError(t, err)

	got, err := project.LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Options.Kerf)
	assert.Equal(t, 400.0, got.Result.Placements[0].PlacedLength)
}

func TestOptimize_RequiresInput(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "optimize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --project or both --panels and --stock are required")
}

func TestOptimize_ProjectConflictsWithFiles(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "optimize", "--project", "a.json", "--panels", "b.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")
}

func TestOptimize_ReportsUnplaceablePanels(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	panels := writeFile(t, dir, "big.csv", "Top,3000,900,1\nShelf,500,300,1\n")
	stock := writeFile(t, dir, "stock.csv", "Ply,2440,1220,1\n")

	output, err := executeCmd(t, app, "optimize", "--panels", panels, "--stock", stock)
	require.NoError(t, err)
	assert.Contains(t, output, "1 panel(s) could not be placed")
	assert.Contains(t, output, "exceeds-stock-dimensions")
}

func TestOptimize_ImportErrorsFail(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	panels := writeFile(t, dir, "bad.csv", "Side,abc,560,2\n")
	stock := writeFile(t, dir, "stock.csv", "Ply,2440,1220,1\n")

	output, err := executeCmd(t, app, "optimize", "--panels", panels, "--stock", stock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 import error(s)")
	assert.Contains(t, output, "error: Line 1: Invalid length 'abc'")
}

func TestOptimize_UnsupportedExtension(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "optimize", "--panels", "cuts.pdf", "--stock", "stock.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported panel file type ".pdf"`)
}

// --- compare ---

func TestCompare_PrintsScenarios(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	panels, stock := cabinetFiles(t, dir)

	output, err := executeCmd(t, app, "compare", "--panels", panels, "--stock", stock, "--kerf", "3")
	require.NoError(t, err)

	assert.Contains(t, output, "SCENARIOS")
	assert.Contains(t, output, "Current settings")
	assert.Contains(t, output, "Allow rotation")
	assert.Contains(t, output, "Thin kerf (1.5mm)")
}

// --- verify ---

func TestVerify_CleanLayout(t *testing.T) {
	app := testApp(t)
	path := cabinetProject(t, app, t.TempDir())

	output, err := executeCmd(t, app, "verify", path)
	require.NoError(t, err)
	assert.Contains(t, output, "Layout OK")
}

func TestVerify_ReportsOverlap(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()

	p := model.NewProject()
	p.Result = &model.OptimizationResult{
		SheetCount:     1,
		SheetsMetadata: []model.SheetMetadata{{GlobalSheetIndex: 0, Width: 1000, Height: 1000}},
		Placements: []model.Placement{
			{PanelInstanceID: "a#0", GlobalSheetIndex: 0, X: 0, Y: 0, PlacedLength: 500, PlacedWidth: 500},
			{PanelInstanceID: "b#0", GlobalSheetIndex: 0, X: 250, Y: 250, PlacedLength: 500, PlacedWidth: 500},
		},
	}
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, project.SaveProject(path, p))

	output, err := executeCmd(t, app, "verify", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 layout violation(s)")
	assert.Contains(t, output, "overlap on sheet 0")
}

func TestVerify_NoLayout(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	require.NoError(t, project.SaveProject(path, model.NewProject()))

	_, err := executeCmd(t, app, "verify", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no layout")
}

// --- import ---

func TestImport_BuildsProjectFromTwoFiles(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	panels, stock := cabinetFiles(t, dir)
	out := filepath.Join(dir, "job.json")

	output, err := executeCmd(t, app, "import", panels, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, output, "2 panel(s) imported")
	assert.Contains(t, output, "Side")

	output, err = executeCmd(t, app, "import", stock, "--stock", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, output, "1 stock sheet(s) imported")
	assert.Contains(t, output, "45.50")

	p, err := project.LoadProject(out)
	require.NoError(t, err)
	assert.Len(t, p.Panels, 2)
	assert.Len(t, p.StockSheets, 1)
	assert.Nil(t, p.Result)
	assert.Equal(t, model.DefaultOptions(), p.Options)
}

func TestImport_PrintOnly(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	panels := writeFile(t, dir, "cuts.csv", "Door,700,400,0\n")

	output, err := executeCmd(t, app, "import", panels)
	require.NoError(t, err)
	assert.Contains(t, output, "warning: Line 1: Quantity is 0, panel will not be cut")
	assert.NotContains(t, output, "Project written")
}

// --- export ---

func TestExport_FileFormats(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	path := cabinetProject(t, app, dir)

	for _, format := range []string{"pdf", "labels", "xlsx", "bundle"} {
		t.Run(format, func(t *testing.T) {
			out := filepath.Join(dir, "out."+format)
			output, err := executeCmd(t, app, "export", format, path, "-o", out)
			require.NoError(t, err)
			assert.Contains(t, output, "Wrote "+out)

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestExport_OptimizesProjectWithoutLayout(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	panels, stock := cabinetFiles(t, dir)
	path := filepath.Join(dir, "job.json")
	_, err := executeCmd(t, app, "import", panels, "-o", path)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "import", stock, "--stock", "-o", path)
	require.NoError(t, err)

	out := filepath.Join(dir, "cuts.pdf")
	_, err = executeCmd(t, app, "export", "pdf", path, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestExport_GCodeWritesOneProgramPerSheet(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	path := cabinetProject(t, app, dir)
	outDir := filepath.Join(dir, "nc")

	output, err := executeCmd(t, app, "export", "gcode", path, "-o", outDir, "--profile", "Grbl")
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote 1 program(s) for Grbl")

	prog, err := os.ReadFile(filepath.Join(outDir, "sheet_1.nc"))
	require.NoError(t, err)
	assert.Contains(t, string(prog), "G0")
}

func TestExport_RequiresOutput(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "export", "pdf", "job.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "output" not set`)
}

// --- history ---

func TestHistory_Lifecycle(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := cabinetProject(t, app, dir)

	p, err := project.LoadProject(path)
	require.NoError(t, err)
	run, err := app.Runs.Save(ctx, "Kitchen", p)
	require.NoError(t, err)

	output, err := executeCmd(t, app, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "RUNS")
	assert.Contains(t, output, "Kitchen")
	assert.Contains(t, output, run.ID[:8])

	restored := filepath.Join(dir, "restored.json")
	output, err = executeCmd(t, app, "history", "show", run.ID, "-o", restored)
	require.NoError(t, err)
	assert.Contains(t, output, "Kitchen")
	assert.Contains(t, output, "5 placed")
	got, err := project.LoadProject(restored)
	require.NoError(t, err)
	assert.Equal(t, p.Panels, got.Panels)

	output, err = executeCmd(t, app, "history", "delete", run.ID)
	require.NoError(t, err)
	assert.Contains(t, output, "Deleted run "+run.ID)

	_, err = executeCmd(t, app, "history", "show", run.ID)
	require.ErrorIs(t, err, store.ErrRunNotFound)
}

func TestHistory_ListEmpty(t *testing.T) {
	app := testApp(t)

	output, err := executeCmd(t, app, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No saved runs.")
}

// --- view ---

func TestExport_GCodeUsesCustomProfile(t *testing.T) {
	app := testApp(t)
	dir := t.TempDir()
	path := cabinetProject(t, app, dir)

	profilesPath, err := project.DefaultProfilesPath()
	require.NoError(t, err)
	custom := gcode.GetProfile("Generic")
	custom.Name = "Shop Router"
	custom.CommentPrefix = "; "
	custom.CommentSuffix = ""
	require.NoError(t, project.SaveProfiles(profilesPath, []gcode.Profile{custom}))

	outDir := filepath.Join(dir, "nc")
	output, err := executeCmd(t, app, "export", "gcode", path, "-o", outDir, "--profile", "Shop Router")
	require.NoError(t, err)
	assert.Contains(t, output, "for Shop Router")
}

func TestView_Unavailable(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "view", "job.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

func TestView_PassesLaidOutProject(t *testing.T) {
	app := testApp(t)
	path := cabinetProject(t, app, t.TempDir())

	var (
		shown   model.Project
		profile gcode.Profile
	)
	app.View = func(p model.Project, _ gcode.Settings, prof gcode.Profile) error {
		shown, profile = p, prof
		return nil
	}

	_, err := executeCmd(t, app, "view", path, "--profile", "Mach3")
	require.NoError(t, err)
	require.NotNil(t, shown.Result)
	assert.Equal(t, 1, shown.Result.SheetCount)
	assert.Equal(t, "Mach3", profile.Name)
}

// --- config ---

func TestRoot_InvalidLogLevel(t *testing.T) {
	app := testApp(t)
	app.Logger = nil

	_, err := executeCmd(t, app, "history", "list", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

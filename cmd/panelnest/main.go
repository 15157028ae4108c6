// Command panelnest nests rectangular panels onto stock sheets from the
// command line and exports the resulting layouts.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/piwi3910/PanelNest/internal/cli"
	"github.com/piwi3910/PanelNest/internal/cli/formatter"
	"github.com/piwi3910/PanelNest/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Color only on an interactive terminal, and never when NO_COLOR is set.
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	_, noColor := os.LookupEnv("NO_COLOR")
	formatter.SetColor(tty && !noColor)

	app := &cli.App{View: ui.Show}
	defer app.Close()

	return cli.NewRootCmd(app).Execute()
}

package engine

import "errors"

var (
	// ErrNoPanels is returned when the panel list is empty.
	ErrNoPanels = errors.New("at least one panel is required")
	// ErrNoStockSheets is returned when the stock sheet list is empty.
	ErrNoStockSheets = errors.New("at least one stock sheet is required")
)

package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/piwi3910/PanelNest/internal/store"
)

// FormatRuns renders the run history.
func FormatRuns(runs []store.Run, now time.Time) string {
	if len(runs) == 0 {
		return Dim("No saved runs.") + "\n"
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			TruncID(r.ID),
			Bold(r.Name),
			HumanTimestamp(r.CreatedAt, now),
			strconv.Itoa(r.SheetCount),
			WasteColor(r.WastePercent).Render(fmt.Sprintf("%d%%", r.WastePercent)),
			strconv.Itoa(r.Unplaced),
		})
	}
	return RenderBox("Runs", RenderTable([]string{"ID", "NAME", "SAVED", "SHEETS", "WASTE", "UNPLACED"}, rows))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// HumanTimestamp returns a relative timestamp for recent times and a date otherwise.
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

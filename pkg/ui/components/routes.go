// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// RouteRow represents one swap route in the table.
type RouteRow struct {
	Dex         string
	Output      string
	PriceImpact string
	Path        string
}

// RoutesComponent renders the swap routes table.
type RoutesComponent struct {
	rows    []RouteRow
	maxRows int
	offset  int
}

// NewRoutesComponent creates a new routes component showing at most
// maxRows rows at a time.
func NewRoutesComponent(maxRows int) *RoutesComponent {
	return &RoutesComponent{maxRows: maxRows}
}

// SetRows replaces the rows and resets scrolling.
func (r *RoutesComponent) SetRows(rows []RouteRow) {
	r.rows = rows
	r.offset = 0
}

// Len returns the number of rows.
func (r *RoutesComponent) Len() int {
	return len(r.rows)
}

// ScrollDown moves the window one row down.
func (r *RoutesComponent) ScrollDown() {
	if r.offset+r.maxRows < len(r.rows) {
		r.offset++
	}
}

// ScrollUp moves the window one row up.
func (r *RoutesComponent) ScrollUp() {
	if r.offset > 0 {
		r.offset--
	}
}

// View renders the routes component.
func (r *RoutesComponent) View(outputSymbol string) string {
	if len(r.rows) == 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	bestStyle := cellStyle.Foreground(lipgloss.Color("#10B981"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	end := min(r.offset+r.maxRows, len(r.rows))
	visible := r.rows[r.offset:end]

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))).
		Headers("DEX", "Output ("+outputSymbol+")", "Price Impact", "Path").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case row+r.offset == 0:
				return bestStyle
			default:
				return cellStyle
			}
		})

	for _, row := range visible {
		t.Row(row.Dex, row.Output, row.PriceImpact, row.Path)
	}

	result := headerStyle.Render("SWAP ROUTES") + "\n" + t.Render()
	if len(r.rows) > r.maxRows {
		result += "\n" + mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", r.offset+1, end, len(r.rows)))
	}
	return result
}

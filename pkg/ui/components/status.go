package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// IndicatorState is the state of a status indicator.
type IndicatorState int

const (
	IndicatorPending IndicatorState = iota
	IndicatorOK
	IndicatorFailed
)

// Indicator is one named entry in the status bar.
type Indicator struct {
	Name   string
	State  IndicatorState
	Detail string
}

// StatusComponent renders named status indicators.
type StatusComponent struct {
	indicators []Indicator
}

// NewStatusComponent creates a new status component.
func NewStatusComponent() *StatusComponent {
	return &StatusComponent{}
}

// Update updates an indicator by name, adding it when new.
func (s *StatusComponent) Update(ind Indicator) {
	for i, cur := range s.indicators {
		if cur.Name == ind.Name {
			s.indicators[i] = ind
			return
		}
	}
	s.indicators = append(s.indicators, ind)
}

// Get returns the indicator called name.
func (s *StatusComponent) Get(name string) (Indicator, bool) {
	for _, ind := range s.indicators {
		if ind.Name == name {
			return ind, true
		}
	}
	return Indicator{}, false
}

// View renders the status component.
func (s *StatusComponent) View() string {
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	failStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	pendingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	parts := make([]string, 0, len(s.indicators))
	for _, ind := range s.indicators {
		var icon string
		var style lipgloss.Style
		switch ind.State {
		case IndicatorOK:
			icon, style = "●", okStyle
		case IndicatorFailed:
			icon, style = "✗", failStyle
		default:
			icon, style = "○", pendingStyle
		}

		text := icon + " " + ind.Name
		if ind.Detail != "" {
			text += " (" + ind.Detail + ")"
		}
		parts = append(parts, style.Render(text))
	}
	return strings.Join(parts, "  │  ")
}

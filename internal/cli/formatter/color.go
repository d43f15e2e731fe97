package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/rebound/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// heatStyles is indexed by heatmap level.
var heatStyles = []lipgloss.Style{
	StyleDim,
	lipgloss.NewStyle().Foreground(lipgloss.Color("#5f7a5a")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#79a36f")),
	lipgloss.NewStyle().Foreground(ColorGreen).Bold(true),
}

// HeatCell renders one heatmap square for level.
func HeatCell(level int) string {
	if level < 0 {
		level = 0
	}
	if level >= len(heatStyles) {
		level = len(heatStyles) - 1
	}
	glyph := "■"
	if level == 0 {
		glyph = "□"
	}
	return heatStyles[level].Render(glyph)
}

// TriggerBadge labels why a recovery plan was produced.
func TriggerBadge(t domain.TriggerType) string {
	switch t {
	case domain.TriggerAfter17:
		return StyleYellow.Render("● AFTER 17:00")
	case domain.TriggerIncompleteCount:
		return StyleRed.Render("● BEHIND")
	case domain.TriggerManual:
		return StyleBlue.Render("● MANUAL")
	default:
		return StyleDim.Render("● " + string(t))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua   = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ModuleStyle returns the style used for a module's label.
func ModuleStyle(m domain.Module) lipgloss.Style {
	switch m {
	case domain.ModuleCharacter:
		return StylePurple
	case domain.ModuleSetting:
		return StyleGreen
	case domain.ModuleAtmosphere:
		return StyleBlue
	case domain.ModuleAction:
		return StyleYellow
	case domain.ModuleGeneral:
		return StyleDim
	default:
		return StyleDim
	}
}

// ModuleBadge renders a module as a colored "● Title" label.
func ModuleBadge(m domain.Module) string {
	return ModuleStyle(m).Render("● " + m.Title())
}

// SourceBadge marks whether a final prompt came from the model or the
// local fallback.
func SourceBadge(s domain.PromptSource) string {
	if s == domain.SourceDeterministic {
		return StyleYellow.Render("◆ offline")
	}
	return StyleGreen.Render("◆ llm")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warn renders a warning line.
func Warn(text string) string {
	return StyleYellow.Render("! " + text)
}

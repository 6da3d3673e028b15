package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Mocha, the subset this view uses.
// https://catppuccin.com/palette
const (
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPink     lipgloss.Color = "#f5c2e7"
	colorLavender lipgloss.Color = "#b4befe"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
)

const (
	colorInflow  = colorGreen
	colorOutflow = colorRed
	colorBrand   = colorPink
	colorFocus   = colorLavender
	colorMuted   = colorOverlay1
	colorBorder  = colorSurface1
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	inStyle    = lipgloss.NewStyle().Foreground(colorInflow)
	outStyle   = lipgloss.NewStyle().Foreground(colorOutflow)
	badgeStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder)
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorOutflow)
	focusStyle = lipgloss.NewStyle().Foreground(colorFocus)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorBorder).BorderBottom(true).Bold(true)
	s.Selected = s.Selected.Foreground(colorFocus).Bold(true)
	return s
}

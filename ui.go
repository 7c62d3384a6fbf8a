package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Color palette - Modern, professional, with great contrast
var (
	// Primary colors
	primary   = lipgloss.Color("#7c3aed") // Purple
	secondary = lipgloss.Color("#06b6d4") // Cyan
	accent    = lipgloss.Color("#10b981") // Emerald

	// Semantic colors
	success = lipgloss.Color("#22c55e") // Green
	warning = lipgloss.Color("#f59e0b") // Amber
	danger  = lipgloss.Color("#ef4444") // Red
	info    = lipgloss.Color("#3b82f6") // Blue

	// Neutral colors
	background = lipgloss.Color("#0f172a") // Slate-900
	border     = lipgloss.Color("#334155") // Slate-700
	muted      = lipgloss.Color("#64748b") // Slate-500
	text       = lipgloss.Color("#f1f5f9") // Slate-100
	textMuted  = lipgloss.Color("#94a3b8") // Slate-400
)

// Typography styles
var (
	headingStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	labelStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(text).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(warning).
			Bold(true)
)

func renderHeader(width int) string {
	headerBox := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(primary).
		Padding(0, 2)

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a78bfa")).
		Bold(true).
		Render("▣ qrscan")
	subtitle := subtitleStyle.Italic(true).Render("QR • Barcode • History")

	return headerBox.Render(lipgloss.JoinVertical(lipgloss.Center, title, subtitle))
}

// renderPanel draws content in a rounded box; the focused panel gets the
// primary border color.
func renderPanel(title, content string, width int, focused bool) string {
	color := border
	if focused {
		color = primary
	}
	titleBar := lipgloss.NewStyle().
		Background(color).
		Foreground(text).
		Bold(true).
		Padding(0, 1).
		Render(title)

	box := lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, titleBar, content))
}

func renderSwitch(label string, on, selected bool) string {
	mark := lipgloss.NewStyle().Foreground(danger).Bold(true).Render("○ off")
	if on {
		mark = lipgloss.NewStyle().Foreground(success).Bold(true).Render("● on ")
	}
	prefix := "  "
	name := labelStyle.Render(label)
	if selected {
		prefix = selectedStyle.Render("▸ ")
		name = valueStyle.Render(label)
	}
	return fmt.Sprintf("%s%s %s", prefix, mark, name)
}

func renderToast(msg string, width int) string {
	if msg == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Background(info).
		Foreground(text).
		Bold(true).
		Padding(0, 1).
		Render("ⓘ " + msg)
}

func renderBadge(label string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Background(color).
		Foreground(background).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// singleLine flattens scanned payloads for list rendering and truncates
// them to width terminal cells.
func singleLine(s string, width int) string {
	s = strings.NewReplacer("\r\n", "⏎", "\n", "⏎", "\r", "⏎", "\t", " ").Replace(s)
	if s == "" {
		return subtitleStyle.Italic(true).Render("(empty)")
	}
	if width <= 1 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"qrscan/internal/scan"
)

// VIEW
func (m model) View() string {
	switch m.state {
	case stateMain:
		return m.viewMain()
	case stateResult:
		return m.viewResult()
	case stateGallery:
		return m.viewGallery()
	case stateHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m model) viewMain() string {
	var b strings.Builder
	contentWidth := m.getWidth() - 4

	fmt.Fprintf(&b, "%s\n", renderHeader(contentWidth))

	// Live scan
	status := subtitleStyle.Render("ready")
	if m.busy {
		status = m.spin.View() + " " + accentStyle.Render("scanning…")
	}
	torch := subtitleStyle.Render("torch off")
	if m.torchOn {
		torch = lipgloss.NewStyle().Foreground(warning).Bold(true).Render("torch on")
	}
	device := subtitleStyle.Render("keyboard input")
	if m.scans != nil {
		device = accentStyle.Render("scanner connected")
	}
	scanContent := lipgloss.JoinVertical(lipgloss.Left,
		m.input.View(),
		fmt.Sprintf("%s  •  %s  •  %s", status, device, torch))
	fmt.Fprintf(&b, "%s\n", renderPanel("Live scan", scanContent, contentWidth, m.focus == paneScan))

	// Settings
	prefs := m.session.Prefs.Get()
	settingsFocused := m.focus == paneSettings
	settings := lipgloss.JoinVertical(lipgloss.Left,
		renderSwitch("Auto-copy to clipboard", prefs.AutoCopy, settingsFocused && m.settingsSel == 0),
		renderSwitch("Auto-open links", prefs.AutoOpen, settingsFocused && m.settingsSel == 1))
	fmt.Fprintf(&b, "%s\n", renderPanel("Settings", settings, contentWidth, settingsFocused))

	// History
	records := m.session.History.Records()
	title := fmt.Sprintf("History (%d)", len(records))
	fmt.Fprintf(&b, "%s\n", renderPanel(title, m.viewHistory(records, contentWidth-4), contentWidth, m.focus == paneHistory))

	if m.toast != "" {
		fmt.Fprintf(&b, "%s\n", renderToast(m.toast, contentWidth))
	}
	fmt.Fprintf(&b, "%s\n", m.help.ShortHelpView(m.keys.mainHelp(m.focus)))

	return b.String()
}

func (m model) viewHistory(records []scan.Record, width int) string {
	if len(records) == 0 {
		return subtitleStyle.Render("No scans yet")
	}

	maxDisplay := m.getListLines()
	start := 0
	if m.historySel >= maxDisplay {
		start = m.historySel - maxDisplay + 1
	}
	end := min(start+maxDisplay, len(records))

	const stampWidth = 16
	var lines []string
	for i := start; i < end; i++ {
		rec := records[i]
		prefix := "  "
		textStyle := lipgloss.NewStyle().Foreground(text)
		if m.focus == paneHistory && i == m.historySel {
			prefix = selectedStyle.Render("▸ ")
			textStyle = textStyle.Bold(true)
		}

		stamp := labelStyle.Render(formatWhen(rec.When))
		kind := ""
		textWidth := width - stampWidth - 4
		if scan.IsProbableURL(rec.Text) {
			kind = " " + lipgloss.NewStyle().Foreground(secondary).Render("↗")
			textWidth -= 2
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s%s", prefix, stamp, textStyle.Render(singleLine(rec.Text, textWidth)), kind))
	}
	if len(records) > maxDisplay {
		lines = append(lines, subtitleStyle.Render(fmt.Sprintf("(%d-%d of %d)", start+1, end, len(records))))
	}
	return strings.Join(lines, "\n")
}

func (m model) viewResult() string {
	var b strings.Builder
	contentWidth := m.getWidth() - 4

	badge := renderBadge("TEXT", muted)
	if scan.IsProbableURL(m.result.Text) {
		badge = renderBadge("LINK", secondary)
	}
	fmt.Fprintf(&b, "%s %s\n\n", headingStyle.Render("✓ Scan result"), badge)

	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Scanned:"), valueStyle.Render(m.result.When.Format("2006-01-02 15:04:05")))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Length:"), valueStyle.Render(fmt.Sprintf("%d chars", len([]rune(m.result.Text)))))

	body := m.result.Text
	if body == "" {
		body = subtitleStyle.Italic(true).Render("(empty)")
	}
	box := lipgloss.NewStyle().
		Width(contentWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Foreground(text).
		Padding(1, 2)
	fmt.Fprintf(&b, "%s\n", box.Render(body))

	if m.toast != "" {
		fmt.Fprintf(&b, "%s\n", renderToast(m.toast, contentWidth))
	}
	fmt.Fprintf(&b, "%s\n", m.help.ShortHelpView(m.keys.resultHelp()))
	return b.String()
}

func (m model) viewHelp() string {
	var b strings.Builder
	acc := lipgloss.NewStyle().Foreground(secondary)

	fmt.Fprintf(&b, "%s\n\n", headingStyle.Render("▣ qrscan - About & Keyboard Shortcuts"))
	fmt.Fprintf(&b, "%s\n", subtitleStyle.Render("Scans QR codes and barcodes from a scanner, the keyboard or image files,"))
	fmt.Fprintf(&b, "%s\n\n", subtitleStyle.Render("and keeps a local history of everything scanned."))

	fmt.Fprintf(&b, "%s\n", valueStyle.Render("🔸 Live scan"))
	fmt.Fprintf(&b, "  %s %s\n", acc.Render("Enter"), labelStyle.Render("Record the typed or scanned code"))
	fmt.Fprintf(&b, "  %s %s\n", acc.Render("Ctrl+O"), labelStyle.Render("Scan an image from the gallery"))
	fmt.Fprintf(&b, "  %s %s\n\n", acc.Render("Ctrl+T"), labelStyle.Render("Toggle the scanner light"))

	fmt.Fprintf(&b, "%s\n", valueStyle.Render("🔸 History"))
	fmt.Fprintf(&b, "  %s %s\n", acc.Render("Enter"), labelStyle.Render("Open a link, or view the scan"))
	fmt.Fprintf(&b, "  %s %s\n", acc.Render("c"), labelStyle.Render("Copy to clipboard"))
	fmt.Fprintf(&b, "  %s %s\n\n", acc.Render("X"), labelStyle.Render("Clear all history"))

	fmt.Fprintf(&b, "%s\n", valueStyle.Render("🔸 Settings"))
	fmt.Fprintf(&b, "  %s %s\n", acc.Render("Space"), labelStyle.Render("Toggle auto-copy / auto-open"))
	fmt.Fprintf(&b, "  %s %s\n\n", acc.Render("Tab"), labelStyle.Render("Move between panes"))

	fmt.Fprintf(&b, "%s\n", valueStyle.Render("🔸 Tips"))
	fmt.Fprintf(&b, "  • %s\n", labelStyle.Render("Repeated reads of the same code are ignored for a moment"))
	fmt.Fprintf(&b, "  • %s\n", labelStyle.Render("Set device in config.toml to read a serial scanner or FIFO"))
	fmt.Fprintf(&b, "  • %s\n\n", labelStyle.Render("Run with -image FILE to decode one image and exit"))

	fmt.Fprintf(&b, "%s\n", subtitleStyle.Render("Press any key to return"))
	return b.String()
}

func formatWhen(t time.Time) string {
	local := t.Local()
	if local.Format("2006-01-02") == time.Now().Format("2006-01-02") {
		return "today    " + local.Format("15:04:05")
	}
	return local.Format("Jan 02   15:04:05")
}

package main

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qrscan/internal/scan"
)

type resultMsg struct{ record scan.Record }
type noticeMsg struct{ text string }

// deviceReadyMsg hands the model a scanner that can switch its light.
type deviceReadyMsg struct{ torch scan.Torcher }

// teaPresenter forwards handler output into the program's event channel.
type teaPresenter struct {
	events chan<- tea.Msg
}

func (p teaPresenter) ShowResult(r scan.Record) { p.events <- resultMsg{record: r} }
func (p teaPresenter) Notify(text string)       { p.events <- noticeMsg{text: text} }

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// printPresenter is used by the one-shot -image mode.
type printPresenter struct {
	w io.Writer
}

func (p printPresenter) ShowResult(r scan.Record) {
	fmt.Fprintf(p.w, "%s %s\n", labelStyle.Render(r.When.Format(time.RFC3339)), valueStyle.Render(r.Text))
	if scan.IsProbableURL(r.Text) {
		fmt.Fprintf(p.w, "%s\n", accentStyle.Render("↗ link"))
	}
}

func (p printPresenter) Notify(text string) {
	fmt.Fprintf(p.w, "%s\n", subtitleStyle.Render("• "+text))
}

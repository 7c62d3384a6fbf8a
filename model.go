package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"qrscan/internal/kv"
	"qrscan/internal/scan"
)

type appState int

const (
	stateMain appState = iota
	stateResult
	stateGallery
	stateHelp
)

type pane int

const (
	paneScan pane = iota
	paneHistory
	paneSettings
	paneCount
)

const (
	recentDirsKey = "recentGalleryDirs"
	toastDuration = 2500 * time.Millisecond
)

type model struct {
	ctx        context.Context
	session    *scan.Session
	store      kv.Store
	events     <-chan tea.Msg
	scans      <-chan string
	torcher    scan.Torcher
	galleryDir string

	state     appState
	prevState appState
	focus     pane

	input textinput.Model
	spin  spinner.Model
	keys  keyMap
	help  help.Model

	busy        bool
	torchOn     bool
	historySel  int
	settingsSel int
	result      scan.Record
	browser     browserModel
	toast       string
	toastSeq    int
	windowSize  tea.WindowSizeMsg
}

type handledMsg struct{ accepted bool }
type liveScanMsg struct{ text string }
type liveClosedMsg struct{}
type clearToastMsg struct{ seq int }
type historyClearedMsg struct{ err error }

func newModel(ctx context.Context, s *scan.Session, store kv.Store, events <-chan tea.Msg, scans <-chan string, galleryDir string) model {
	input := textinput.New()
	input.Prompt = "▸ "
	input.Placeholder = "point a wedge scanner here, or type and press Enter"
	input.CharLimit = 4096
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		ctx:        ctx,
		session:    s,
		store:      store,
		events:     events,
		scans:      scans,
		galleryDir: galleryDir,
		state:      stateMain,
		focus:      paneScan,
		input:      input,
		spin:       sp,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
}

// listen re-arms the presenter channel reader after each event.
func (m model) listen() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForEvent(m.events)
}

func waitForScan(scans <-chan string) tea.Cmd {
	return func() tea.Msg {
		text, ok := <-scans
		if !ok {
			return liveClosedMsg{}
		}
		return liveScanMsg{text: text}
	}
}

// INIT
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.listen()}
	if m.scans != nil {
		cmds = append(cmds, waitForScan(m.scans))
	}
	return tea.Batch(cmds...)
}

// UPDATE
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowSize = msg
		m.help.Width = msg.Width
		m.input.Width = max(m.getWidth()-12, 10)
		return m, nil
	case resultMsg:
		m.result = msg.record
		m.historySel = 0
		m.state = stateResult
		return m, m.listen()
	case noticeMsg:
		var cmd tea.Cmd
		m, cmd = m.withToast(msg.text)
		return m, tea.Batch(cmd, m.listen())
	case deviceReadyMsg:
		m.torcher = msg.torch
		return m, m.listen()
	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil
	case liveScanMsg:
		m.busy = true
		return m, tea.Batch(m.spin.Tick, m.handleCmd(msg.text), waitForScan(m.scans))
	case liveClosedMsg:
		m.scans = nil
		m.torcher = nil
		m.torchOn = false
		return m.withToast("Scanner disconnected")
	case handledMsg:
		m.busy = false
		m.clampHistory()
		return m, nil
	case historyClearedMsg:
		m.busy = false
		m.historySel = 0
		if msg.err != nil {
			slog.Error("clear history", "err", msg.err)
			return m.withToast(scan.NoticeSaveFailed)
		}
		return m.withToast("History cleared")
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case browserLoadedMsg:
		m.browser.currentPath = msg.path
		m.browser.entries = msg.entries
		m.browser.selected = 0
		m.browser.err = ""
		return m, nil
	case browserErrorMsg:
		m.browser.err = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.state {
		case stateMain:
			return m.updateMain(msg)
		case stateResult:
			return m.updateResult(msg)
		case stateGallery:
			return m.updateGallery(msg)
		case stateHelp:
			m.state = m.prevState
			return m, nil
		}
	}

	if m.state == stateMain && m.focus == paneScan {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextPane):
		m.setFocus((m.focus + 1) % paneCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevPane):
		m.setFocus((m.focus + paneCount - 1) % paneCount)
		return m, nil
	case key.Matches(msg, m.keys.Gallery):
		return m.openGallery()
	case key.Matches(msg, m.keys.Torch):
		return m.toggleTorch()
	}

	switch m.focus {
	case paneScan:
		switch {
		case key.Matches(msg, m.keys.Submit):
			text := m.input.Value()
			m.input.Reset()
			if text == "" {
				return m, nil
			}
			m.busy = true
			return m, tea.Batch(m.spin.Tick, m.ingestCmd(text))
		case key.Matches(msg, m.keys.Back):
			m.setFocus(paneHistory)
			return m, nil
		case msg.String() == "f1":
			return m.showHelp(), nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case paneHistory:
		records := m.session.History.Records()
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.historySel > 0 {
				m.historySel--
			}
		case key.Matches(msg, m.keys.Down):
			if m.historySel < len(records)-1 {
				m.historySel++
			}
		case key.Matches(msg, m.keys.Submit):
			if len(records) == 0 {
				return m, nil
			}
			return m.tapHistory(records[m.historySel])
		case key.Matches(msg, m.keys.Copy):
			if len(records) == 0 {
				return m, nil
			}
			return m, m.copyCmd(records[m.historySel].Text)
		case key.Matches(msg, m.keys.Clear):
			if len(records) == 0 {
				return m, nil
			}
			m.busy = true
			return m, tea.Batch(m.spin.Tick, m.clearHistoryCmd())
		case key.Matches(msg, m.keys.Help):
			return m.showHelp(), nil
		case key.Matches(msg, m.keys.Back):
			m.setFocus(paneScan)
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}

	case paneSettings:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.settingsSel = 0
		case key.Matches(msg, m.keys.Down):
			m.settingsSel = 1
		case key.Matches(msg, m.keys.Toggle):
			return m.toggleSetting()
		case key.Matches(msg, m.keys.Help):
			return m.showHelp(), nil
		case key.Matches(msg, m.keys.Back):
			m.setFocus(paneScan)
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd(m.result.Text)
	case key.Matches(msg, m.keys.Open):
		if !scan.IsProbableURL(m.result.Text) {
			return m.withToast(scan.NoticeNotURL)
		}
		return m, m.openCmd(m.result.Text)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Quit):
		m.state = stateMain
	}
	return m, nil
}

func (m model) updateGallery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.state = stateMain
		return m, nil
	case key.Matches(msg, m.keys.Help):
		return m.showHelp(), nil
	case key.Matches(msg, m.keys.Up):
		if m.browser.selected > 0 {
			m.browser.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.browser.selected < len(m.browser.entries)-1 {
			m.browser.selected++
		}
	case key.Matches(msg, m.keys.RecentDir):
		index := int(msg.String()[0] - '1')
		if index < len(m.browser.recentDirs) {
			return m, loadGalleryEntries(m.browser.recentDirs[index])
		}
	case key.Matches(msg, m.keys.PickCurrent):
		if len(m.browser.entries) == 0 {
			return m, nil
		}
		entry := m.browser.entries[m.browser.selected]
		if entry.IsDir() {
			next := filepath.Join(m.browser.currentPath, entry.Name())
			if entry.Name() == ".." {
				next = filepath.Dir(m.browser.currentPath)
			}
			return m, loadGalleryEntries(next)
		}
		path := filepath.Join(m.browser.currentPath, entry.Name())
		m.rememberDir(m.browser.currentPath)
		m.state = stateMain
		m.busy = true
		return m, tea.Batch(m.spin.Tick, m.galleryCmd(path))
	}
	return m, nil
}

func (m *model) setFocus(p pane) {
	m.focus = p
	if p == paneScan {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m model) showHelp() model {
	m.prevState = m.state
	m.state = stateHelp
	return m
}

// withToast shows text until a newer toast replaces it or it times out.
func (m model) withToast(text string) (model, tea.Cmd) {
	m.toastSeq++
	m.toast = text
	seq := m.toastSeq
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}

func (m *model) clampHistory() {
	n := m.session.History.Len()
	if m.historySel >= n {
		m.historySel = max(n-1, 0)
	}
}

// tapHistory opens links and shows everything else in the result sheet.
func (m model) tapHistory(rec scan.Record) (tea.Model, tea.Cmd) {
	if scan.IsProbableURL(rec.Text) {
		return m, m.openCmd(rec.Text)
	}
	m.result = rec
	m.state = stateResult
	return m, nil
}

func (m model) toggleSetting() (tea.Model, tea.Cmd) {
	prefs := m.session.Prefs.Get()
	var err error
	if m.settingsSel == 0 {
		err = m.session.Prefs.SetAutoCopy(m.ctx, !prefs.AutoCopy)
	} else {
		err = m.session.Prefs.SetAutoOpen(m.ctx, !prefs.AutoOpen)
	}
	if err != nil {
		slog.Error("save preferences", "err", err)
		return m.withToast("Could not save settings")
	}
	return m, nil
}

func (m model) toggleTorch() (tea.Model, tea.Cmd) {
	if m.torcher == nil {
		return m.withToast(scan.NoticeTorchMissing)
	}
	if err := m.torcher.SetTorch(!m.torchOn); err != nil {
		slog.Warn("torch", "err", err)
		return m.withToast(scan.NoticeTorchMissing)
	}
	m.torchOn = !m.torchOn
	return m, nil
}

func (m model) openGallery() (tea.Model, tea.Cmd) {
	recent, err := m.store.Strings(m.ctx, recentDirsKey)
	if err != nil {
		slog.Warn("load recent gallery dirs", "err", err)
	}
	start := m.galleryDir
	if len(recent) > 0 && validatePath(recent[0]) == pathValid {
		start = recent[0]
	}
	m.browser = browserModel{currentPath: start, recentDirs: recent}
	m.state = stateGallery
	return m, loadGalleryEntries(start)
}

func (m *model) rememberDir(dir string) {
	m.browser.recentDirs = addToRecentDirs(m.browser.recentDirs, dir, maxRecentDirs)
	if err := m.store.SetStrings(m.ctx, recentDirsKey, m.browser.recentDirs); err != nil {
		slog.Warn("save recent gallery dirs", "err", err)
	}
}

// Commands run the session's blocking work off the update loop.

func (m model) ingestCmd(text string) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return handledMsg{accepted: s.Ingest(ctx, text)}
	}
}

func (m model) handleCmd(text string) tea.Cmd {
	ctx, h := m.ctx, m.session.Handler
	return func() tea.Msg {
		return handledMsg{accepted: h.Handle(ctx, text)}
	}
}

func (m model) galleryCmd(path string) tea.Cmd {
	ctx, g := m.ctx, m.session.Gallery
	return func() tea.Msg {
		g.ScanFromGallery(ctx, scan.PickedPath(path))
		return handledMsg{accepted: true}
	}
}

func (m model) copyCmd(text string) tea.Cmd {
	h := m.session.Handler
	return func() tea.Msg {
		h.Copy(text)
		return nil
	}
}

func (m model) openCmd(text string) tea.Cmd {
	ctx, h := m.ctx, m.session.Handler
	return func() tea.Msg {
		_ = h.Open(ctx, text)
		return nil
	}
}

func (m model) clearHistoryCmd() tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return historyClearedMsg{err: s.ClearHistory(ctx)}
	}
}

// Responsive layout helpers
func (m model) getWidth() int {
	if m.windowSize.Width > 0 {
		return m.windowSize.Width
	}
	return 80
}

func (m model) getHeight() int {
	if m.windowSize.Height > 0 {
		return m.windowSize.Height
	}
	return 24
}

func (m model) getListLines() int {
	height := m.getHeight()
	if height < 20 {
		return 5
	} else if height < 30 {
		return 10
	}
	return 15
}

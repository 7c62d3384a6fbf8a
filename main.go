package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"qrscan/internal/decode"
	"qrscan/internal/kv"
	"qrscan/internal/scan"
)

func main() {
	configPath := flag.String("config", getConfigPath(), "path to config.toml")
	imagePath := flag.String("image", "", "decode one image, record it and exit")
	incognito := flag.Bool("incognito", false, "keep history and settings in memory only")
	flag.Parse()

	config, cfgErr := loadConfig(*configPath)
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		fmt.Println("error: create data dir:", err)
		os.Exit(1)
	}
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		_ = saveConfig(*configPath, config) // first run: leave an editable copy behind
	}

	logFile, err := tea.LogToFile(config.logPath(), "qrscan")
	if err != nil {
		fmt.Println("error: open log:", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: config.level()}))
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("using default config", "err", cfgErr)
	}

	// The launcher's helper process must not write over the terminal UI.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	store, err := openStore(config, *incognito)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *imagePath != "" {
		os.Exit(runOnce(ctx, store, config, *imagePath))
	}

	events := make(chan tea.Msg, 32)
	session, err := scan.NewSession(ctx, store, scan.Options{
		Cooldown:       config.Cooldown.Duration,
		DebounceWindow: config.DebounceWindow.Duration,
		Clipboard:      scan.SystemClipboard{},
		Launcher:       scan.BrowserLauncher{},
		Decoder:        decode.New(),
		Presenter:      teaPresenter{events: events},
		Log:            logger,
	})
	if err != nil {
		store.Close()
		fmt.Println("error:", err)
		os.Exit(1)
	}

	if notes := checkAccess(config); len(notes) > 0 {
		events <- noticeMsg{text: strings.Join(notes, " • ")}
	}

	m := newModel(ctx, session, store, events, startDevice(ctx, config, session, events), config.GalleryDir)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Println("error:", err)
	}

	cancel()
	if err := session.Close(context.Background()); err != nil {
		logger.Error("flush session", "err", err)
	}
}

func openStore(config appConfig, incognito bool) (kv.Store, error) {
	if incognito {
		return kv.NewMemory(), nil
	}
	return kv.OpenSQLite(filepath.Join(config.DataDir, "qrscan.db"))
}

// startDevice reads the configured scanner in the background. It returns
// nil when no device is configured. With torch commands configured the
// device is opened read-write and offered to the model as a Torcher.
func startDevice(ctx context.Context, config appConfig, s *scan.Session, events chan<- tea.Msg) <-chan string {
	if config.Device == "" {
		return nil
	}
	out := make(chan string)
	go func() {
		flags := os.O_RDONLY
		if config.hasTorch() {
			flags = os.O_RDWR
		}
		// Opening a FIFO read-only blocks until a writer appears.
		f, err := os.OpenFile(config.Device, flags, 0)
		if err != nil {
			slog.Error("open scanner device", "device", config.Device, "err", err)
			close(out)
			events <- noticeMsg{text: "Scanner device unavailable"}
			return
		}
		defer f.Close()

		src := scan.NewLineSource(f, s.Debounce)
		if config.hasTorch() {
			events <- deviceReadyMsg{torch: src.WithTorch(f, config.TorchOn, config.TorchOff)}
		}
		slog.Info("scanner device opened", "device", config.Device, "torch", config.hasTorch())
		if err := src.Run(ctx, out); err != nil && ctx.Err() == nil {
			slog.Warn("scanner device read", "device", config.Device, "err", err)
		}
	}()
	return out
}

// checkAccess stands in for the startup permission prompts: it reports
// configured locations the scanner cannot use.
func checkAccess(config appConfig) []string {
	var notes []string
	if validatePath(config.GalleryDir) != pathValid {
		slog.Warn("gallery dir not accessible", "dir", config.GalleryDir)
		notes = append(notes, "Gallery folder not accessible")
	}
	if config.Device != "" {
		if _, err := os.Stat(config.Device); err != nil {
			slog.Warn("scanner device missing", "device", config.Device, "err", err)
			notes = append(notes, "Scanner device not found")
		}
	}
	return notes
}

// runOnce decodes a single image without the UI.
func runOnce(ctx context.Context, store kv.Store, config appConfig, path string) int {
	out := printPresenter{w: os.Stdout}
	session, err := scan.NewSession(ctx, store, scan.Options{
		Cooldown:  config.Cooldown.Duration,
		Clipboard: scan.SystemClipboard{},
		Launcher:  scan.BrowserLauncher{},
		Decoder:   decode.New(),
		Presenter: out,
		Log:       slog.Default(),
	})
	if err != nil {
		store.Close()
		fmt.Println("error:", err)
		return 1
	}
	defer session.Close(context.Background())

	before := session.History.Len()
	session.Gallery.ScanFromGallery(ctx, scan.PickedPath(path))
	if session.History.Len() == before {
		return 1
	}
	return 0
}

package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultCooldown is how long the gate stays closed after a scan finishes.
const DefaultCooldown = 300 * time.Millisecond

// Notices shown to the user.
const (
	NoticeCopied       = "Copied to clipboard"
	NoticeCopyFailed   = "Copy failed"
	NoticeCannotOpen   = "Cannot open URL"
	NoticeNotURL       = "Not a URL"
	NoticeNotFound     = "No QR/Barcode found"
	NoticeImageError   = "Error scanning image"
	NoticeSaveFailed   = "Could not save history"
	NoticeTorchMissing = "Torch not available"
)

// Handler records scans and applies the auto-copy/auto-open policy. At most
// one scan is handled at a time; scans arriving while one is in flight, or
// within Cooldown after it, are dropped.
type Handler struct {
	History   *History
	Prefs     *PrefsStore
	Clipboard Clipboard
	Launcher  Launcher
	Presenter Presenter
	Log       *slog.Logger

	Cooldown time.Duration
	Now      func() time.Time

	gate atomic.Bool
}

// Busy reports whether the gate is closed.
func (h *Handler) Busy() bool { return h.gate.Load() }

// Handle processes one raw scan. It reports false when the scan was dropped
// because another one holds the gate. Failures never escape.
func (h *Handler) Handle(ctx context.Context, raw string) bool {
	if !h.gate.CompareAndSwap(false, true) {
		h.logger().Debug("scan dropped, handler busy", "len", len(raw))
		return false
	}
	defer h.release()
	defer func() {
		if r := recover(); r != nil {
			h.logger().Error("scan handling panicked", "panic", fmt.Sprint(r))
		}
	}()

	rec := Record{Text: raw, When: h.now()}
	if err := h.History.Add(ctx, rec); err != nil {
		h.logger().Error("persist history", "err", err)
		h.notify(NoticeSaveFailed)
		return true
	}

	prefs := h.Prefs.Get()
	if prefs.AutoCopy {
		h.Copy(raw)
	}
	if prefs.AutoOpen && IsProbableURL(raw) {
		// A failed launch still shows the result.
		_ = h.Open(ctx, raw)
	}

	if h.Presenter != nil {
		h.Presenter.ShowResult(rec)
	}
	return true
}

// Copy writes text to the clipboard and tells the user how it went.
func (h *Handler) Copy(text string) bool {
	if h.Clipboard == nil {
		return false
	}
	if err := h.Clipboard.WriteText(text); err != nil {
		h.logger().Warn("clipboard write", "err", err)
		h.notify(NoticeCopyFailed)
		return false
	}
	h.notify(NoticeCopied)
	return true
}

// Open launches text externally. Launch failures are reported as a notice
// and returned.
func (h *Handler) Open(ctx context.Context, text string) error {
	if h.Launcher == nil {
		return fmt.Errorf("no launcher")
	}
	target := LaunchTarget(text)
	if !h.Launcher.CanLaunch(target) {
		h.notify(NoticeCannotOpen)
		return fmt.Errorf("cannot launch %q", target)
	}
	if err := h.Launcher.Launch(ctx, target); err != nil {
		h.logger().Warn("launch url", "target", target, "err", err)
		h.notify(NoticeCannotOpen)
		return err
	}
	return nil
}

func (h *Handler) release() {
	d := h.Cooldown
	if d <= 0 {
		d = DefaultCooldown
	}
	time.AfterFunc(d, func() { h.gate.Store(false) })
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) notify(text string) {
	if h.Presenter != nil {
		h.Presenter.Notify(text)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

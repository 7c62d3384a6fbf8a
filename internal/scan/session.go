// Package scan holds the scanner's session state and the handlers that
// mutate it: scan results, gallery decodes, history and preferences.
package scan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"qrscan/internal/kv"
)

// Options configures a Session. Zero values take the defaults.
type Options struct {
	Cooldown       time.Duration
	DebounceWindow time.Duration
	Clipboard      Clipboard
	Launcher       Launcher
	Decoder        Decoder
	Presenter      Presenter
	Log            *slog.Logger
}

// Session is the state of one running scanner, loaded from the store at
// start and flushed back on Close.
type Session struct {
	History  *History
	Prefs    *PrefsStore
	Handler  *Handler
	Gallery  *Gallery
	Debounce *Debouncer

	store kv.Store
}

func NewSession(ctx context.Context, store kv.Store, opts Options) (*Session, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	history, err := LoadHistory(ctx, store, log)
	if err != nil {
		return nil, err
	}
	prefs, err := LoadPreferences(ctx, store)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		History:   history,
		Prefs:     prefs,
		Clipboard: opts.Clipboard,
		Launcher:  opts.Launcher,
		Presenter: opts.Presenter,
		Log:       log,
		Cooldown:  opts.Cooldown,
	}
	log.Info("session loaded", "records", history.Len(), "autoCopy", prefs.Get().AutoCopy, "autoOpen", prefs.Get().AutoOpen)

	return &Session{
		History: history,
		Prefs:   prefs,
		Handler: h,
		Gallery: &Gallery{
			Decoder:   opts.Decoder,
			Handler:   h,
			Presenter: opts.Presenter,
			Log:       log,
		},
		Debounce: NewDebouncer(opts.DebounceWindow),
		store:    store,
	}, nil
}

// Ingest passes a live detection through the debouncer to the handler.
func (s *Session) Ingest(ctx context.Context, raw string) bool {
	if !s.Debounce.Accept(raw) {
		return false
	}
	return s.Handler.Handle(ctx, raw)
}

// ClearHistory empties the history and forgets the last live detection,
// so a code still in front of the reader is recorded again.
func (s *Session) ClearHistory(ctx context.Context) error {
	if err := s.History.Clear(ctx); err != nil {
		return err
	}
	s.Debounce.Reset()
	return nil
}

// Close flushes history and closes the store.
func (s *Session) Close(ctx context.Context) error {
	if err := s.History.Save(ctx); err != nil {
		return errors.Join(err, s.store.Close())
	}
	return s.store.Close()
}

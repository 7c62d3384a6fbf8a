package scan

import (
	"context"
	"fmt"
	"sync"

	"qrscan/internal/kv"
)

const (
	autoCopyKey = "autoCopy"
	autoOpenKey = "autoOpen"
)

// Preferences are the two user toggles applied to every scan.
type Preferences struct {
	AutoCopy bool
	AutoOpen bool
}

// DefaultPreferences has both toggles on.
func DefaultPreferences() Preferences {
	return Preferences{AutoCopy: true, AutoOpen: true}
}

// PrefsStore holds the current preferences and persists the full pair on
// every change.
type PrefsStore struct {
	store kv.Store

	mu  sync.RWMutex
	cur Preferences
}

func LoadPreferences(ctx context.Context, store kv.Store) (*PrefsStore, error) {
	p := DefaultPreferences()

	v, ok, err := store.Bool(ctx, autoCopyKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", autoCopyKey, err)
	}
	if ok {
		p.AutoCopy = v
	}

	v, ok, err = store.Bool(ctx, autoOpenKey)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", autoOpenKey, err)
	}
	if ok {
		p.AutoOpen = v
	}

	return &PrefsStore{store: store, cur: p}, nil
}

func (s *PrefsStore) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *PrefsStore) SetAutoCopy(ctx context.Context, v bool) error {
	return s.update(ctx, func(p *Preferences) { p.AutoCopy = v })
}

func (s *PrefsStore) SetAutoOpen(ctx context.Context, v bool) error {
	return s.update(ctx, func(p *Preferences) { p.AutoOpen = v })
}

// update persists the changed pair and only then makes it current. A
// failed second write puts the first key back.
func (s *PrefsStore) update(ctx context.Context, fn func(*Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur
	fn(&next)
	if err := s.store.SetBool(ctx, autoCopyKey, next.AutoCopy); err != nil {
		return fmt.Errorf("save %s: %w", autoCopyKey, err)
	}
	if err := s.store.SetBool(ctx, autoOpenKey, next.AutoOpen); err != nil {
		_ = s.store.SetBool(ctx, autoCopyKey, s.cur.AutoCopy)
		return fmt.Errorf("save %s: %w", autoOpenKey, err)
	}
	s.cur = next
	return nil
}

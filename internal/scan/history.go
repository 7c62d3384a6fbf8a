package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"qrscan/internal/kv"
)

const historyKey = "history"

// Record is a single decoded payload plus the instant it was captured.
type Record struct {
	Text string
	When time.Time
}

// wireRecord is the persisted form of a Record.
type wireRecord struct {
	Text *string `json:"text"`
	When *string `json:"when"`
}

// Zone-less ISO-8601 layouts, as written by clients that store local time.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// EncodeRecord renders r as {"text": ..., "when": ISO-8601}.
func EncodeRecord(r Record) (string, error) {
	when := r.When.Format(time.RFC3339Nano)
	data, err := json.Marshal(wireRecord{Text: &r.Text, When: &when})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeRecord parses one persisted entry. Both fields are required.
func DecodeRecord(s string) (Record, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return Record{}, err
	}
	if w.Text == nil || w.When == nil {
		return Record{}, fmt.Errorf("missing text or when")
	}
	when, err := parseWhen(*w.When)
	if err != nil {
		return Record{}, err
	}
	return Record{Text: *w.Text, When: when}, nil
}

// EncodeRecords encodes every record, preserving order.
func EncodeRecords(records []Record) ([]string, error) {
	out := make([]string, 0, len(records))
	for i, r := range records {
		s, err := EncodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// DecodeRecords decodes entries in order. Malformed entries are skipped
// and reported through skip, which may be nil.
func DecodeRecords(entries []string, skip func(i int, err error)) []Record {
	out := make([]Record, 0, len(entries))
	for i, s := range entries {
		r, err := DecodeRecord(s)
		if err != nil {
			if skip != nil {
				skip(i, err)
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// History is the newest-first scan list, mirrored to the store after every
// mutation.
type History struct {
	store kv.Store
	log   *slog.Logger

	mu      sync.RWMutex
	records []Record
}

// LoadHistory rebuilds the in-memory list from the store.
func LoadHistory(ctx context.Context, store kv.Store, logger *slog.Logger) (*History, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := store.Strings(ctx, historyKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	records := DecodeRecords(entries, func(i int, err error) {
		logger.Warn("skipping malformed history entry", "index", i, "err", err)
	})
	return &History{store: store, log: logger, records: records}, nil
}

// Records returns a copy of the list, newest first.
func (h *History) Records() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Record(nil), h.records...)
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Add prepends r and persists the list. The in-memory list only changes
// once the store has accepted the write.
func (h *History) Add(ctx context.Context, r Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := append([]Record{r}, h.records...)
	if err := h.persistLocked(ctx, next); err != nil {
		return err
	}
	h.records = next
	return nil
}

// Clear removes the stored list, then empties the in-memory one.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.Delete(ctx, historyKey); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	h.records = nil
	return nil
}

// Save writes the current list, overwriting the stored one.
func (h *History) Save(ctx context.Context) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.persistLocked(ctx, h.records)
}

func (h *History) persistLocked(ctx context.Context, records []Record) error {
	entries, err := EncodeRecords(records)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := h.store.SetStrings(ctx, historyKey, entries); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

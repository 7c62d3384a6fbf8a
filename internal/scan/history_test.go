package scan

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrscan/internal/kv"
)

func TestEncodeRecord_Fields(t *testing.T) {
	when := time.Date(2024, 3, 9, 14, 5, 7, 123000000, time.UTC)
	s, err := EncodeRecord(Record{Text: "hello", When: when})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hello","when":"2024-03-09T14:05:07.123Z"}`, s)
}

func TestRecords_RoundTrip(t *testing.T) {
	zone := time.FixedZone("X", 2*3600)
	in := []Record{
		{Text: "https://example.com", When: time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)},
		{Text: "", When: time.Date(2023, 12, 31, 23, 59, 59, 0, zone)},
		{Text: "dup", When: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Text: "dup", When: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	entries, err := EncodeRecords(in)
	require.NoError(t, err)
	out := DecodeRecords(entries, func(i int, err error) {
		t.Fatalf("entry %d rejected: %v", i, err)
	})

	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].Text, out[i].Text)
		assert.True(t, in[i].When.Equal(out[i].When), "record %d: %v != %v", i, in[i].When, out[i].When)
	}
}

func TestDecodeRecord_LocalTimestamp(t *testing.T) {
	r, err := DecodeRecord(`{"text":"x","when":"2024-05-06T07:08:09.123"}`)
	require.NoError(t, err)
	want := time.Date(2024, 5, 6, 7, 8, 9, 123000000, time.Local)
	assert.True(t, want.Equal(r.When))
}

func TestDecodeRecords_SkipsMalformed(t *testing.T) {
	entries := []string{
		`{"text":"ok","when":"2024-01-01T00:00:00Z"}`,
		`not json`,
		`{"text":"no when"}`,
		`{"when":"2024-01-01T00:00:00Z"}`,
		`{"text":"bad when","when":"yesterday"}`,
		`{"text":"ok2","when":"2024-01-02T00:00:00Z"}`,
	}
	var skipped []int
	out := DecodeRecords(entries, func(i int, _ error) { skipped = append(skipped, i) })

	require.Len(t, out, 2)
	assert.Equal(t, "ok", out[0].Text)
	assert.Equal(t, "ok2", out[1].Text)
	assert.Equal(t, []int{1, 2, 3, 4}, skipped)
}

func TestHistory_AddPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	h, err := LoadHistory(ctx, store, nil)
	require.NoError(t, err)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, h.Add(ctx, Record{Text: "first", When: t0}))
	require.NoError(t, h.Add(ctx, Record{Text: "second", When: t0.Add(time.Second)}))

	recs := h.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "second", recs[0].Text)
	assert.Equal(t, "first", recs[1].Text)

	reloaded, err := LoadHistory(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, texts(reloaded.Records()))
}

func TestHistory_Clear(t *testing.T) {
	ctx := context.Background()
	store, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer store.Close()

	h, err := LoadHistory(ctx, store, nil)
	require.NoError(t, err)
	require.NoError(t, h.Add(ctx, Record{Text: "a", When: time.Now()}))
	require.NoError(t, h.Clear(ctx))

	assert.Empty(t, h.Records())
	entries, err := store.Strings(ctx, historyKey)
	require.NoError(t, err)
	assert.Empty(t, entries)

	reloaded, err := LoadHistory(ctx, store, nil)
	require.NoError(t, err)
	assert.Zero(t, reloaded.Len())
}

func TestHistory_FailedWritesKeepMemoryInSync(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	h, err := LoadHistory(ctx, mem, nil)
	require.NoError(t, err)
	require.NoError(t, h.Add(ctx, Record{Text: "kept", When: time.Now()}))

	h.store = &failingStore{Memory: mem}

	err = h.Add(ctx, Record{Text: "unsaved", When: time.Now()})
	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, []string{"kept"}, texts(h.Records()))

	err = h.Clear(ctx)
	require.ErrorIs(t, err, errDiskFull)
	assert.Equal(t, []string{"kept"}, texts(h.Records()))

	entries, err := mem.Strings(ctx, historyKey)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistory_LoadSkipsMalformed(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.SetStrings(ctx, historyKey, []string{
		`{"text":"keep","when":"2024-01-01T00:00:00Z"}`,
		`{broken`,
	}))

	h, err := LoadHistory(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, texts(h.Records()))
}

func TestHistory_RecordsIsACopy(t *testing.T) {
	ctx := context.Background()
	h, err := LoadHistory(ctx, kv.NewMemory(), nil)
	require.NoError(t, err)
	require.NoError(t, h.Add(ctx, Record{Text: "a", When: time.Now()}))

	recs := h.Records()
	recs[0].Text = "mutated"
	assert.Equal(t, "a", h.Records()[0].Text)
}

func texts(recs []Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Text
	}
	return out
}

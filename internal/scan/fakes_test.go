package scan

import (
	"context"
	"errors"
	"sync"

	"qrscan/internal/decode"
	"qrscan/internal/kv"
)

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (c *fakeClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.writes = append(c.writes, text)
	return nil
}

func (c *fakeClipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

type fakeLauncher struct {
	mu       sync.Mutex
	launched []string
	err      error
	refuse   bool
}

func (l *fakeLauncher) CanLaunch(string) bool { return !l.refuse }

func (l *fakeLauncher) Launch(_ context.Context, target string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launched = append(l.launched, target)
	return l.err
}

func (l *fakeLauncher) Launched() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.launched...)
}

type fakePresenter struct {
	mu      sync.Mutex
	results []Record
	notices []string
}

func (p *fakePresenter) ShowResult(r Record) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, r)
}

func (p *fakePresenter) Notify(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, text)
}

func (p *fakePresenter) Notices() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.notices...)
}

func (p *fakePresenter) Results() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Record(nil), p.results...)
}

type fakeDecoder struct {
	results []decode.Result
	err     error
	panics  bool
	paths   []string
}

func (d *fakeDecoder) DecodeImage(_ context.Context, path string) ([]decode.Result, error) {
	d.paths = append(d.paths, path)
	if d.panics {
		panic("decoder exploded")
	}
	return d.results, d.err
}

type errPicker struct{}

func (errPicker) Pick(context.Context) (string, bool, error) {
	return "", false, errors.New("picker unavailable")
}

var errDiskFull = errors.New("disk full")

// failingStore rejects writes to failKey, or to every key when failKey is
// empty. Reads go to the embedded Memory.
type failingStore struct {
	*kv.Memory
	failKey string
}

func (s *failingStore) fails(key string) bool {
	return s.failKey == "" || s.failKey == key
}

func (s *failingStore) SetBool(ctx context.Context, key string, v bool) error {
	if s.fails(key) {
		return errDiskFull
	}
	return s.Memory.SetBool(ctx, key, v)
}

func (s *failingStore) SetStrings(ctx context.Context, key string, v []string) error {
	if s.fails(key) {
		return errDiskFull
	}
	return s.Memory.SetStrings(ctx, key, v)
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	if s.fails(key) {
		return errDiskFull
	}
	return s.Memory.Delete(ctx, key)
}

func (s *failingStore) Close() error {
	_ = s.Memory.Close()
	return errors.New("close failed")
}

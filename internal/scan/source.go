package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrNoTorch is returned by SetTorch on a source without a light.
var ErrNoTorch = errors.New("torch not available")

// Torcher is implemented by sources that drive a light.
type Torcher interface {
	SetTorch(on bool) error
}

// LineSource reads codes from a line-oriented reader such as a serial
// barcode scanner or a FIFO. One line is one detection.
type LineSource struct {
	r        io.Reader
	debounce *Debouncer

	mu       sync.Mutex
	w        io.Writer
	torchOn  string
	torchOff string
}

func NewLineSource(r io.Reader, d *Debouncer) *LineSource {
	return &LineSource{r: r, debounce: d}
}

// WithTorch lets SetTorch switch the reader's illumination by writing the
// on or off command to w, usually the same serial device.
func (s *LineSource) WithTorch(w io.Writer, on, off string) *LineSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.torchOn, s.torchOff = w, on, off
	return s
}

func (s *LineSource) SetTorch(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cmd := s.torchOff
	if on {
		cmd = s.torchOn
	}
	if s.w == nil || cmd == "" {
		return ErrNoTorch
	}
	if _, err := io.WriteString(s.w, cmd); err != nil {
		return fmt.Errorf("write torch command: %w", err)
	}
	return nil
}

// Run emits accepted detections on out until the reader is exhausted or
// ctx is done. It closes out on return.
func (s *LineSource) Run(ctx context.Context, out chan<- string) error {
	defer close(out)

	sc := bufio.NewScanner(s.r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" {
			continue
		}
		if s.debounce != nil && !s.debounce.Accept(line) {
			continue
		}
		select {
		case out <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sc.Err()
}

package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Capture records slog output so tests can assert on it.
type Capture struct {
	mu        sync.Mutex
	records   []slog.Record
	prev      *slog.Logger
	prevLevel slog.Level
}

// CaptureForTest swaps in a capturing default logger at debug level.
// Call Restore when done, typically with defer or t.Cleanup.
func CaptureForTest() *Capture {
	c := &Capture{
		prev:      slog.Default(),
		prevLevel: level.Level(),
	}
	slog.SetDefault(slog.New(&captureHandler{capture: c}))
	SetLevel(slog.LevelDebug)
	return c
}

// Restore puts back the logger and level active before CaptureForTest.
func (c *Capture) Restore() {
	slog.SetDefault(c.prev)
	level.Set(c.prevLevel)
}

// Records returns a copy of everything captured so far.
func (c *Capture) Records() []slog.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]slog.Record, len(c.records))
	copy(out, c.records)
	return out
}

// Has reports whether a record at lvl contains msgSubstring.
func (c *Capture) Has(lvl slog.Level, msgSubstring string) bool {
	_, ok := c.find(lvl, msgSubstring)
	return ok
}

// Attr returns the value of attribute key on the first record at lvl whose
// message contains msgSubstring.
func (c *Capture) Attr(lvl slog.Level, msgSubstring, key string) (slog.Value, bool) {
	r, ok := c.find(lvl, msgSubstring)
	if !ok {
		return slog.Value{}, false
	}
	var (
		val   slog.Value
		found bool
	)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			val, found = a.Value, true
			return false
		}
		return true
	})
	return val, found
}

// Count returns the number of captured records at lvl.
func (c *Capture) Count(lvl slog.Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.records {
		if r.Level == lvl {
			n++
		}
	}
	return n
}

func (c *Capture) find(lvl slog.Level, msgSubstring string) (slog.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.records {
		if r.Level == lvl && strings.Contains(r.Message, msgSubstring) {
			return r, true
		}
	}
	return slog.Record{}, false
}

type captureHandler struct {
	capture *Capture
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.capture.mu.Lock()
	defer h.capture.mu.Unlock()
	h.capture.records = append(h.capture.records, r.Clone())
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

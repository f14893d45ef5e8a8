// Package counter accumulates the price samples of one feed session.
package counter

import (
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrNoSamples indicates that an average was requested from an empty counter.
var ErrNoSamples = errors.New("no price samples recorded")

// Sample is one accepted price together with the frame it was read from.
type Sample struct {
	Price decimal.Decimal
	Raw   string
}

// Counter is a mutex guarded, append-only sequence of samples.
// The zero value is ready to use.
type Counter struct {
	mu      sync.RWMutex
	samples []Sample
}

// New creates an empty counter.
func New() *Counter {
	return &Counter{}
}

// Add appends a sample. No validation happens here.
func (c *Counter) Add(price decimal.Decimal, raw string) {
	c.mu.Lock()
	c.samples = append(c.samples, Sample{Price: price, Raw: raw})
	c.mu.Unlock()
}

// Len returns the number of recorded samples.
func (c *Counter) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.samples)
}

// Average returns the arithmetic mean of every recorded sample, recomputed from
// the full sequence on each call. An empty counter yields ErrNoSamples.
func (c *Counter) Average() (decimal.Decimal, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.samples) == 0 {
		return decimal.Zero, ErrNoSamples
	}

	sum := decimal.Zero
	for _, s := range c.samples {
		sum = sum.Add(s.Price)
	}

	return sum.Div(decimal.NewFromInt(int64(len(c.samples)))), nil
}

// Samples returns a copy of the recorded samples in arrival order.
func (c *Counter) Samples() []Sample {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Data returns the raw frames of all samples joined by newlines.
func (c *Counter) Data() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw := make([]string, len(c.samples))
	for i, s := range c.samples {
		raw[i] = s.Raw
	}
	return strings.Join(raw, "\n")
}

package sampling

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/kayz/docsynth/internal/errs"
)

// Cursor modes. Profile and structure selection each own a cursor so their
// cycles stay independent.
const (
	ModeSequential = "sequential"
	ModeRandom     = "random"
)

// Cursor picks one index in [0, n) per call. Sequential mode is strict
// round-robin with wraparound; random mode draws uniformly with repeats
// allowed. The index is mutex-guarded so parallel callers cannot break the
// cycle ordering.
type Cursor struct {
	mode string

	mu   sync.Mutex
	next int
	rng  *rand.Rand
}

// NewCursor creates a cursor for the given mode. The random source is only
// consulted in random mode but is required either way so mode is a pure
// configuration switch.
func NewCursor(mode string, rng *rand.Rand) (*Cursor, error) {
	switch mode {
	case ModeSequential, ModeRandom:
		return &Cursor{mode: mode, rng: rng}, nil
	default:
		return nil, fmt.Errorf("selection mode %q: %w", mode, errs.ErrConfig)
	}
}

// Mode returns the configured mode.
func (c *Cursor) Mode() string {
	return c.mode
}

// Next returns the next index in [0, n).
func (c *Cursor) Next(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cursor over %d items: %w", n, errs.ErrConfig)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeRandom {
		return c.rng.Intn(n), nil
	}

	if c.next >= n {
		c.next = 0
	}
	idx := c.next
	c.next++
	return idx, nil
}

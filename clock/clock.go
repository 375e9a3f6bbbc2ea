// Package clock provides the Tick Source port: a free-running,
// monotonically non-decreasing 64-bit counter that trace.Instance.Add
// reads once per event and hands to ring.Log.Add.
package clock

import (
	"sync/atomic"
	"time"
)

// Source returns the current tick. Successive calls from one context must
// be non-decreasing; wrap is tolerated by ring.Log's unsigned-subtraction
// delta arithmetic.
type Source interface {
	Now() uint64
}

// Monotonic is the hosted default Tick Source: a wrapper over
// time.Now(), analogous to the original project's x86 rdtsc() fallback
// used "for easy testing" (original_source/emblog/rdtsc.h,
// original_source/emblog/emb_log.c).
type Monotonic struct {
	epoch time.Time
}

// NewMonotonic returns a Source whose ticks are nanoseconds since
// construction.
func NewMonotonic() *Monotonic {
	return &Monotonic{epoch: time.Now()}
}

func (m *Monotonic) Now() uint64 {
	return uint64(time.Since(m.epoch).Nanoseconds())
}

// Counter is a manually driven tick source for tests and for simulating
// an interrupt-context caller: Advance bumps the count, Now reads it.
type Counter struct {
	v atomic.Uint64
}

func (c *Counter) Now() uint64 {
	return c.v.Load()
}

// Advance adds delta ticks and returns the new value.
func (c *Counter) Advance(delta uint64) uint64 {
	return c.v.Add(delta)
}

// Set pins the counter to an exact value, useful for reproducing a fixed
// tick sequence in a test.
func (c *Counter) Set(v uint64) {
	c.v.Store(v)
}

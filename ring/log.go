// Package ring implements the bare circular event buffer: cursor, wrap
// flag, enable gate, start/stop countdowns, one-shot latch, and the
// relative-timestamp packing scheme used to fold a 64-bit tick delta into
// the tail word of each event.
//
// Nothing here allocates after Init and nothing here depends on the
// standard library: a Log only ever touches the []int32 it was handed and
// the catalog.Width it was bound to. That makes Add safe to call from an
// interrupt handler, provided the caller serializes concurrent callers
// itself (see package critsect and package trace, which bracket Add with
// a critical section).
package ring

import "github.com/tracebuf/evtrace/catalog"

const hiWordMask = 0xFFFFFFFF00000000

// Log is the circular event buffer described in the data model: a fixed
// backing array plus the cursor, counters, and flags needed to gate and
// pack events into it.
type Log struct {
	buf        []int32
	width      catalog.Width
	maxEntries int
	cur        int
	cnt        int
	startCnt   int
	stopCnt    int
	lastTS     uint64
	wrapped    bool
	enabled    bool
	first      bool
	oneShot    bool

	// Assert is invoked with a false cond whenever a precondition is
	// violated (today: a payload shorter than byteLen implies). Defaults
	// to a panicking implementation in Init; the host may replace it with
	// a hook suited to its target (halt, log-and-reset, etc).
	Assert func(cond bool, msg string)
}

// Init binds buf as the backing storage and resets every counter and flag
// to its power-on default. It must be called before any other method.
func (l *Log) Init(buf []int32, width catalog.Width) {
	*l = Log{
		buf:        buf,
		width:      width,
		maxEntries: len(buf),
		cur:        0,
		cnt:        0,
		startCnt:   -1,
		stopCnt:    -1,
		wrapped:    false,
		enabled:    true,
		first:      true,
		oneShot:    false,
		Assert:     panicAssert,
	}
}

func panicAssert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}

// SetEnable sets the capture gate directly.
func (l *Log) SetEnable(on bool) {
	l.enabled = on
}

// StartAfterCntMsgs disables capture and arms a countdown: the next n Add
// calls are dropped, and capture enables on call n+1 (the call that finds
// the countdown at zero), which is itself recorded.
func (l *Log) StartAfterCntMsgs(n int) {
	l.enabled = false
	l.startCnt = n
}

// StopAfterCntCaptMsgs arms a countdown of recorded (not attempted)
// events after which capture disables.
func (l *Log) StopAfterCntCaptMsgs(n int) {
	l.stopCnt = n
}

// SetOneShot toggles the one-shot latch: once set, the buffer freezes the
// instant it first wraps, regardless of enabled.
func (l *Log) SetOneShot(v bool) {
	l.oneShot = v
}

// Cur, Wrapped, Enabled, Cnt, MaxEntries expose the read-only state the
// Instance Layer's Dump header reports.
func (l *Log) Cur() int        { return l.cur }
func (l *Log) Wrapped() bool   { return l.wrapped }
func (l *Log) Enabled() bool   { return l.enabled }
func (l *Log) Cnt() int        { return l.cnt }
func (l *Log) MaxEntries() int { return l.maxEntries }
func (l *Log) OneShot() bool   { return l.oneShot }

// emit writes w at cur, advances cur, and latches wrapped. The cursor
// reset is computed arithmetically, by multiplying cur by the in-range
// predicate, rather than via an if-wrap-then-reset assignment; the
// predicate itself and the wrapped latch are set with ordinary if
// statements.
func (l *Log) emit(w int32) {
	l.buf[l.cur] = w
	l.cur++
	inRange := 0
	if l.cur < l.maxEntries {
		inRange = 1
	}
	if inRange == 0 {
		l.wrapped = true
	}
	l.cur *= inRange
}

// Add records one event: msg is a word-aligned payload whose last word is
// the identifier word, byteLen its length in bytes. ts is the caller's
// current tick. Add never allocates and never returns an error; a gated
// or dropped call is silent and observable only via Cnt advancing without
// Cur advancing.
func (l *Log) Add(ts uint64, msg []int32, byteLen int) {
	l.cnt++

	if l.startCnt >= 0 {
		if l.startCnt == 0 {
			l.enabled = true
		}
		l.startCnt--
	}

	if !l.enabled || (l.oneShot && l.wrapped) {
		return
	}

	wordLen := (byteLen + 3) / 4
	if wordLen < 1 {
		return
	}
	if l.Assert != nil {
		l.Assert(len(msg) >= wordLen, "ring: msg shorter than byteLen implies")
	}

	if l.first {
		l.lastTS = ts
		l.first = false
	}

	for i := 0; i < wordLen-1; i++ {
		l.emit(msg[i])
	}

	rel := ts - l.lastTS
	l.lastTS = ts

	var ts64Flag uint32
	switch {
	case rel&hiWordMask != 0:
		l.emit(int32(uint32(rel >> 32)))
		l.emit(int32(uint32(rel)))
		ts64Flag = l.width.TS64Mask
		rel = l.width.TSMax
	case rel >= l.width.TSMax:
		l.emit(int32(uint32(rel)))
		rel = l.width.TSMax
	}

	l.emit(msg[wordLen-1] | int32(ts64Flag) | int32(rel<<l.width.TSShift))

	if l.stopCnt >= 0 && l.enabled {
		l.stopCnt--
		if l.stopCnt == 0 {
			l.enabled = false
		}
	}
}

// DumpFunc receives each stored word during a DumpRaw walk: i is the
// 0-based position within the dump (0 = newest), word the stored value,
// bufOfs its index within the backing buffer.
type DumpFunc func(i int, word int32, bufOfs int)

// DumpRaw walks every stored word newest-first and invokes emit for each.
// It is not reentrant with Add: callers must ensure no producer can run
// concurrently, typically by masking interrupts or halting first.
//
// The walk visits cur-1, cur-2, ..., 0, and then, only if wrapped,
// max_entries-1, ..., cur. It deliberately never visits position cur
// itself when not wrapped, since that slot has not been written since
// the last wrap.
func (l *Log) DumpRaw(emit DumpFunc) {
	i := 0
	end := l.cur
	cur := l.cur
	for cur > 0 {
		cur--
		emit(i, l.buf[cur], cur)
		i++
	}

	if l.wrapped {
		cur = l.maxEntries
		for cur > end {
			cur--
			emit(i, l.buf[cur], cur)
			i++
		}
	}
}

// Package trace is the Instance Layer: it owns one ring.Log plus its
// backing buffer, hooks a clock.Source for timestamps, brackets every
// Add with a critsect.Gate, and renders a human-readable dump through a
// sink.Writer. It is the process-facing wrapper that replaces the
// original project's single global instance with an explicit value.
package trace

import (
	"github.com/tracebuf/evtrace/catalog"
	"github.com/tracebuf/evtrace/clock"
	"github.com/tracebuf/evtrace/critsect"
	"github.com/tracebuf/evtrace/ring"
	"github.com/tracebuf/evtrace/sink"
)

// DefaultCapacity is the buffer capacity used when no WithCapacity option
// is given: 256 words, 1 KiB, matching the original project's
// EMB_LOG_ENTRIES default.
const DefaultCapacity = 256

type options struct {
	capacity int
	oneShot  bool
	width    catalog.Width
	clock    clock.Source
	gate     critsect.Gate
	sink     sink.Writer
}

// Option configures a new Instance. The zero-value defaults are a
// 256-word buffer, catalog.DefaultWidth, a clock.Monotonic tick source, a
// critsect.Mutex gate, and a sink.Stdout writer — all overridable here
// since Go has no build-time macro to select them the way the original
// project's preprocessor config did; these options are the run-time
// equivalent.
type Option func(*options)

// WithCapacity overrides the buffer's word capacity.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithOneShot sets the one-shot default at construction time.
func WithOneShot(v bool) Option {
	return func(o *options) { o.oneShot = v }
}

// WithCatalogWidth binds a non-default catalog.Width (event-id/timestamp
// bit layout) to the instance.
func WithCatalogWidth(w catalog.Width) Option {
	return func(o *options) { o.width = w }
}

// WithClock overrides the Tick Source.
func WithClock(c clock.Source) Option {
	return func(o *options) { o.clock = c }
}

// WithGate overrides the Critical Section Gate.
func WithGate(g critsect.Gate) Option {
	return func(o *options) { o.gate = g }
}

// WithSink overrides the Character Sink used by Dump.
func WithSink(s sink.Writer) Option {
	return func(o *options) { o.sink = s }
}

// Instance is one bound log: backing buffer, Ring Core, and the three
// external collaborators (clock, gate, sink) it bridges between.
type Instance struct {
	log   ring.Log
	buf   []int32
	clock clock.Source
	gate  critsect.Gate
	sink  sink.Writer
}

// New allocates a buffer and binds a fresh Instance to it. Callers that
// need more than one independent tracer just call New again instead of
// reaching for a package-level global.
func New(opts ...Option) *Instance {
	o := options{
		capacity: DefaultCapacity,
		width:    catalog.DefaultWidth,
		clock:    clock.NewMonotonic(),
		gate:     &critsect.Mutex{},
		sink:     sink.Stdout{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	inst := &Instance{
		buf:   make([]int32, o.capacity),
		clock: o.clock,
		gate:  o.gate,
		sink:  o.sink,
	}
	inst.log.Init(inst.buf, o.width)
	inst.log.SetOneShot(o.oneShot)
	return inst
}

// Log exposes the underlying Ring Core, mainly so callers and tests can
// read its state accessors (Cur, Wrapped, Cnt, ...) directly.
func (inst *Instance) Log() *ring.Log { return &inst.log }

func (inst *Instance) SetEnable(on bool)          { inst.log.SetEnable(on) }
func (inst *Instance) StartAfterCntMsgs(n int)    { inst.log.StartAfterCntMsgs(n) }
func (inst *Instance) StopAfterCntCaptMsgs(n int) { inst.log.StopAfterCntCaptMsgs(n) }
func (inst *Instance) SetOneShot(v bool)          { inst.log.SetOneShot(v) }

// Add records one event. The tick read and the Ring Core write are
// bracketed by the Critical Section Gate so they are indivisible with
// respect to preemption by a nested interrupt-context caller.
func (inst *Instance) Add(msg []int32, byteLen int) {
	inst.gate.Enter()
	defer inst.gate.Exit()

	ts := inst.clock.Now()
	inst.log.Add(ts, msg, byteLen)
}

func boolDec(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// Dump renders the current state and buffer contents through the
// Instance's sink.Writer. format 0 is the only implemented format: a
// decimal header (cur, wrapped, enabled, cnt, maxEntries), a start
// banner, the reverse-chronological hex dump (8 words per line), and an
// end banner. Any other format writes a short "not implemented" marker
// plus the numeric format code in hex — no other formatting, and no use
// of fmt or any other formatted-IO package: the hex and decimal helpers
// in package sink are hand-rolled for exactly this reason.
func (inst *Instance) Dump(format int) {
	if format != 0 {
		sink.Print(inst.sink, "\ndump: format not implemented: ")
		sink.PrintHex(inst.sink, uint32(format))
		sink.Println(inst.sink, "")
		return
	}

	sink.Print(inst.sink, "\ncursor=")
	sink.PrintDec(inst.sink, uint32(inst.log.Cur()))
	sink.Print(inst.sink, "\nwrapped=")
	sink.PrintDec(inst.sink, boolDec(inst.log.Wrapped()))
	sink.Print(inst.sink, "\nenabled=")
	sink.PrintDec(inst.sink, boolDec(inst.log.Enabled()))
	sink.Print(inst.sink, "\nevnt_cnt=")
	sink.PrintDec(inst.sink, uint32(inst.log.Cnt()))
	sink.Print(inst.sink, "\nmax_entries=")
	sink.PrintDec(inst.sink, uint32(inst.log.MaxEntries()))
	sink.Print(inst.sink, "\n=== Start buffer dump. Most recent first ===")

	inst.log.DumpRaw(func(i int, word int32, bufOfs int) {
		if i%8 == 0 {
			sink.Print(inst.sink, "\n")
		}
		sink.PrintHex(inst.sink, uint32(word))
		sink.Print(inst.sink, " ")
	})

	sink.Println(inst.sink, "\n=== End buffer dump ===")
}

// Package sink provides the Character Sink port: a byte-at-a-time output
// primitive plus the decimal/hex formatting helpers the Instance Layer
// needs for its dump, with no dependence on fmt or any other formatted-IO
// package: dump output is built one character at a time, the way the
// original project's debug_hw_specific.c emits to a UART.
package sink

// Writer emits one byte at a time, synchronously. Implementations may
// block (e.g. on a serial transport) but must not allocate on the hot
// Add path; Writer is only ever touched during Instance.Dump.
type Writer interface {
	PutChar(b byte)
}

// Print writes s byte-by-byte.
func Print(w Writer, s string) {
	for i := 0; i < len(s); i++ {
		w.PutChar(s[i])
	}
}

// Println writes s followed by a newline.
func Println(w Writer, s string) {
	Print(w, s)
	w.PutChar('\n')
}

const hexDigits = "0123456789ABCDEF"

// PrintHex writes u as 8 uppercase hex digits, no leading "0x".
// Hand-rolled rather than via fmt, mirroring
// original_source/emblog/debug.c's BCD2HEX macro.
func PrintHex(w Writer, u uint32) {
	for i := 7; i >= 0; i-- {
		nibble := (u >> uint(i*4)) & 0xF
		w.PutChar(hexDigits[nibble])
	}
}

// PrintDec writes u in decimal, no leading zeros, no sign. Hand-rolled
// via repeated division, mirroring original_source/emblog/debug.c's
// DEBUG_print_dec.
func PrintDec(w Writer, u uint32) {
	var buf [10]byte
	i := 0
	for {
		next := u / 10
		digit := u - next*10
		buf[i] = byte('0' + digit)
		i++
		u = next
		if u == 0 {
			break
		}
	}
	for i > 0 {
		i--
		w.PutChar(buf[i])
	}
}

// Stdout is a Writer backed by the process's standard output, the hosted
// analogue of original_source/emblog/debug_hw_specific.c's putchar-based
// stub. Write errors from the underlying stream are ignored, exactly as
// the C original ignores putchar's return value: a dump is best-effort
// output with no error channel back into the tracer.
type Stdout struct{}

func (Stdout) PutChar(b byte) {
	osStdoutWrite(b)
}

// Buffer is an in-memory Writer for tests: every byte written is appended
// to Bytes, so a test can assert on exact dump output without touching
// any real transport.
type Buffer struct {
	Bytes []byte
}

func (b *Buffer) PutChar(c byte) {
	b.Bytes = append(b.Bytes, c)
}

func (b *Buffer) String() string {
	return string(b.Bytes)
}

// Reset empties the buffer for reuse across table-driven test cases.
func (b *Buffer) Reset() {
	b.Bytes = b.Bytes[:0]
}

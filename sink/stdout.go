package sink

import "os"

func osStdoutWrite(b byte) {
	buf := [1]byte{b}
	_, _ = os.Stdout.Write(buf[:])
}

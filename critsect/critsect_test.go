package critsect_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tracebuf/evtrace/critsect"
)

func TestMutexSerializesConcurrentCallers(t *testing.T) {
	var gate critsect.Mutex
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate.Enter()
			defer gate.Exit()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestNoOpDoesNotPanic(t *testing.T) {
	var gate critsect.NoOp
	gate.Enter()
	gate.Exit()
}

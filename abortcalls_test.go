package conc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbortConcurrentCalls_SecondCallerSkipped(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex

	wrapped := AbortConcurrentCalls(func() {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-release
	})

	go wrapped()
	<-entered

	wrapped() // concurrent call: must return immediately, skipping fn

	close(release)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, calls)
}

func TestAbortConcurrentCalls_SequentialCallsBothRun(t *testing.T) {
	calls := 0
	wrapped := AbortConcurrentCalls(func() { calls++ })

	wrapped()
	wrapped()

	require.Equal(t, 2, calls)
}

package conc

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThreadGroup_WaitNoErrors(t *testing.T) {
	group := NewThreadGroup()
	for i := 0; i < 5; i++ {
		group.Run(func() {})
	}
	require.NoError(t, group.Wait())
}

func TestThreadGroup_FailureCancelsSiblings(t *testing.T) {
	group := NewThreadGroup()
	sleeping := make(chan struct{})

	group.Run(func() {
		close(sleeping)
		Sleep(100 * time.Second)
	})
	<-sleeping
	time.Sleep(10 * time.Millisecond)

	group.Run(func() {
		panic(errors.New("boom"))
	})

	err := group.Wait()
	require.Error(t, err)

	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 1)
	require.Contains(t, agg.Errors[0].Error(), "boom")
}

func TestThreadGroup_StopCancelsAllWorkers(t *testing.T) {
	group := NewThreadGroup()
	n := 10
	ready := make(chan struct{}, n)

	for i := 0; i < n; i++ {
		group.Run(func() {
			ready <- struct{}{}
			Sleep(100 * time.Second)
		})
	}
	for i := 0; i < n; i++ {
		<-ready
	}

	group.Stop()
	require.NoError(t, group.Wait())
}

func TestThreadGroup_RunAfterStopStartsCancelled(t *testing.T) {
	group := NewThreadGroup()
	group.Stop()

	ran := make(chan bool, 1)
	group.Run(func() {
		ran <- true
	})

	require.NoError(t, group.Wait())
	select {
	case v := <-ran:
		// fn may or may not have reached its body before cancellation
		// landed; either way the worker must finish promptly.
		_ = v
	default:
	}
}

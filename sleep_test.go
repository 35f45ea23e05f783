package conc

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSleep_OutsideWorkerBehavesLikeTimeSleep(t *testing.T) {
	start := time.Now()
	Sleep(20 * time.Millisecond)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWaitFor_WaitsForAllThreads(t *testing.T) {
	var order []int
	var mu sync.Mutex
	record := func(v int) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, v)
	}
	a := Run(func() { Sleep(10 * time.Millisecond); record(1) })
	b := Run(func() { record(2) })

	err := WaitFor(time.Second, a, b)
	require.NoError(t, err)
	require.Len(t, order, 2)
}

func TestWaitFor_TimeoutExpires(t *testing.T) {
	th := Run(func() { Sleep(100 * time.Second) })
	defer th.Stop(time.Second)

	err := WaitFor(30*time.Millisecond, th)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestWaitFor_AggregatesFailures(t *testing.T) {
	a := Run(func() { panic("first") })
	b := Run(func() { panic("second") })

	err := WaitFor(time.Second, a, b)
	require.Error(t, err)

	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 2)
}

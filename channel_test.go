package conc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannel_PutGet(t *testing.T) {
	ch := NewChannel[int]()
	require.NoError(t, ch.Put(1))
	require.NoError(t, ch.Put(2))

	v, err := ch.Get()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestChannel_PutAfterCloseFails(t *testing.T) {
	ch := NewChannel[int]()
	ch.Close()
	require.ErrorIs(t, ch.Put(1), ErrClosed)
}

func TestChannel_GetOnClosedEmptyFails(t *testing.T) {
	ch := NewChannel[string]()
	ch.Close()
	_, err := ch.Get()
	require.ErrorIs(t, err, ErrClosed)
}

func TestChannel_GetDrainsBeforeClosedError(t *testing.T) {
	ch := NewChannel[int]()
	require.NoError(t, ch.Put(42))
	ch.Close()

	v, err := ch.Get()
	require.NoError(t, err)
	require.Equal(t, 42, v)

	_, err = ch.Get()
	require.ErrorIs(t, err, ErrClosed)
}

func TestChannel_IterationNonBlocking(t *testing.T) {
	ch := NewChannel[int]()
	require.NoError(t, ch.Put(1))
	require.NoError(t, ch.Put(2))

	var got []int
	for {
		v, ok := ch.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []int{1, 2}, got)
}

func TestChannel_OnPutCallback(t *testing.T) {
	var seen []int
	ch := NewChannel(WithOnPut(func(v int) { seen = append(seen, v) }))
	require.NoError(t, ch.Put(7))
	require.Equal(t, []int{7}, seen)
}

func TestGetFirst_FastestWins(t *testing.T) {
	v, err := GetFirst(
		func(ch *Channel[int]) {
			Sleep(5 * time.Millisecond)
			_ = ch.Put(1)
		},
		func(ch *Channel[int]) {
			Sleep(100 * time.Second)
			_ = ch.Put(2)
		},
		func(ch *Channel[int]) {
			Sleep(100 * time.Second)
			_ = ch.Put(3)
		},
	)
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestChannel_GetInterruptedByStop(t *testing.T) {
	ch := NewChannel[int]()
	ready := make(chan struct{})
	th := Run(func() {
		close(ready)
		_, _ = ch.Get()
	})

	<-ready
	time.Sleep(10 * time.Millisecond)
	th.Stop(time.Second)

	require.True(t, th.Wait(time.Second))
}

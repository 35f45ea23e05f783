package conc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatch_RunsOnWorker(t *testing.T) {
	q := NewDispatchQueue()
	defer q.Stop()

	r, err := Dispatch(q, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	require.Equal(t, 42, r)
}

func TestDispatch_PropagatesError(t *testing.T) {
	q := NewDispatchQueue()
	defer q.Stop()

	wantErr := errors.New("bad thing")
	_, err := Dispatch(q, func() (int, error) { return 0, wantErr })
	require.ErrorIs(t, err, wantErr)
}

func TestDispatch_RecursiveDispatchFails(t *testing.T) {
	q := NewDispatchQueue()
	defer q.Stop()

	_, err := Dispatch(q, func() (int, error) {
		return Dispatch(q, func() (int, error) { return 1, nil })
	})
	require.ErrorIs(t, err, ErrIllegalDispatch)
}

func TestSafeDispatch_RunsInlineOnOwnWorker(t *testing.T) {
	q := NewDispatchQueue()
	defer q.Stop()

	r, err := Dispatch(q, func() (int, error) {
		return SafeDispatch(q, func() (int, error) { return 7, nil })
	})
	require.NoError(t, err)
	require.Equal(t, 7, r)
}

func TestDispatchFuture_DoesNotBlockCaller(t *testing.T) {
	q := NewDispatchQueue()
	defer q.Stop()

	release := make(chan struct{})
	fut := DispatchFuture(q, func() (int, error) {
		<-release
		return 9, nil
	})

	require.False(t, fut.Done())
	close(release)

	r, err := fut.Wait()
	require.NoError(t, err)
	require.Equal(t, 9, r)
}

func TestDispatch_AfterStopFails(t *testing.T) {
	q := NewDispatchQueue()
	q.Stop()

	_, err := Dispatch(q, func() (int, error) { return 1, nil })
	require.Error(t, err)
}

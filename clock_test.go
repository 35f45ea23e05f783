package conc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestBudget_Unbounded(t *testing.T) {
	b := NewBudget(0, nil, 0)
	require.True(t, b.Unbounded())
	d, err := b.Next()
	require.NoError(t, err)
	require.Zero(t, d)
}

func TestBudget_ExpiresAfterTimeout(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := NewBudget(100*time.Millisecond, clock, 10*time.Millisecond)

	d, err := b.Next()
	require.NoError(t, err)
	require.Equal(t, 10*time.Millisecond, d)

	clock.now = clock.now.Add(100 * time.Millisecond)
	_, err = b.Next()
	require.ErrorIs(t, err, ErrTimeout)
}

func TestBudget_TickCapsReturnedDuration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := NewBudget(time.Second, clock, 10*time.Millisecond)

	d, err := b.Next()
	require.NoError(t, err)
	require.Equal(t, 10*time.Millisecond, d)
}

func TestBudget_RemainingNearingZero(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	b := NewBudget(50*time.Millisecond, clock, 10*time.Millisecond)

	clock.now = clock.now.Add(45 * time.Millisecond)
	d, err := b.Next()
	require.NoError(t, err)
	require.Equal(t, 5*time.Millisecond, d)
}

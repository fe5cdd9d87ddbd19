package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateAwaiting State = "awaiting"

func TestSessionCreatedIdle(t *testing.T) {
	m := NewMemoryManager()
	assert.Equal(t, StateIdle, m.GetState(1))
	assert.Equal(t, 0, m.Len())

	s := m.Session(1)
	assert.Same(t, s, m.Session(1))
	assert.Equal(t, int64(1), s.ChatID)
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.LastSeen().IsZero())
	assert.Equal(t, 1, m.Len())
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewMemoryManager()
	prev := m.Session(1).SetState(stateAwaiting)
	assert.Equal(t, StateIdle, prev)
	assert.Equal(t, stateAwaiting, m.GetState(1))
	assert.Equal(t, StateIdle, m.GetState(2))
}

func TestAbortCancelsTrackedWork(t *testing.T) {
	s := NewMemoryManager().Session(1)
	assert.False(t, s.Abort(ErrPreempted))

	ctx, done := s.Track(context.Background())
	defer done()
	cause := errors.New("cancelled by user")
	assert.True(t, s.Abort(cause))
	<-ctx.Done()
	assert.ErrorIs(t, context.Cause(ctx), cause)
	assert.False(t, s.Abort(cause))
}

func TestTrackPreemptsPrevious(t *testing.T) {
	s := NewMemoryManager().Session(1)
	first, doneFirst := s.Track(context.Background())
	second, doneSecond := s.Track(context.Background())

	<-first.Done()
	assert.ErrorIs(t, context.Cause(first), ErrPreempted)

	// finishing the stale work must not forget the newer one
	doneFirst()
	assert.True(t, s.Abort(ErrPreempted))
	<-second.Done()
	doneSecond()
}

func TestDoneReleasesTracking(t *testing.T) {
	s := NewMemoryManager().Session(1)
	ctx, done := s.Track(context.Background())
	done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.False(t, s.Abort(ErrPreempted))
}

func TestBeginTurnSerializes(t *testing.T) {
	s := NewMemoryManager().Session(1)
	end := s.BeginTurn()

	entered := make(chan struct{})
	go func() {
		defer s.BeginTurn()()
		close(entered)
	}()

	select {
	case <-entered:
		t.Fatal("second turn started while the first was running")
	case <-time.After(20 * time.Millisecond):
	}
	end()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("second turn never started")
	}
}

func TestConcurrentSessionAccess(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s := m.Session(id % 5)
			end := s.BeginTurn()
			s.SetState(stateAwaiting)
			end()
		}(int64(i))
	}
	wg.Wait()
	require.Equal(t, 5, m.Len())
	for id := int64(0); id < 5; id++ {
		assert.Equal(t, stateAwaiting, m.GetState(id))
	}
}

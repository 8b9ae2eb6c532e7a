package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/docket/internal/sections"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	st := NewStore()
	st.now = clock.Now
	return st, clock
}

func TestStore_CreateGetDelete(t *testing.T) {
	st, _ := newTestStore()

	s := st.Create()
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 1, st.Len())

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(s.ID))
	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, st.Delete(s.ID), ErrNotFound)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	st, _ := newTestStore()
	a := st.Create()
	b := st.Create()
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, a.Do(func(l *sections.List) error {
		_, err := l.Add(sections.Entry{Name: "only in a"})
		return err
	}))

	var lenA, lenB int
	require.NoError(t, a.Do(func(l *sections.List) error { lenA = l.Len(); return nil }))
	require.NoError(t, b.Do(func(l *sections.List) error { lenB = l.Len(); return nil }))
	assert.Equal(t, 1, lenA)
	assert.Equal(t, 0, lenB)
}

func TestSession_DoSerializes(t *testing.T) {
	st, _ := newTestStore()
	s := st.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(func(l *sections.List) error {
				_, err := l.Add(sections.Entry{Name: "x"})
				return err
			})
		}()
	}
	wg.Wait()

	var n int
	require.NoError(t, s.Do(func(l *sections.List) error { n = l.Len(); return nil }))
	assert.Equal(t, 50, n)
}

func TestStore_Sweep(t *testing.T) {
	st, clock := newTestStore()
	idle := st.Create()
	active := st.Create()

	clock.Advance(20 * time.Minute)
	require.NoError(t, active.Do(func(*sections.List) error { return nil }))
	clock.Advance(15 * time.Minute)

	removed := st.Sweep(30 * time.Minute)
	assert.Equal(t, 1, removed)

	_, err := st.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Get(active.ID)
	assert.NoError(t, err)
}

func TestStore_IDs(t *testing.T) {
	st, _ := newTestStore()
	a := st.Create()
	b := st.Create()
	ids := st.IDs()
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
	assert.IsIncreasing(t, ids)
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	st := NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		st.Run(ctx, time.Millisecond, time.Hour, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

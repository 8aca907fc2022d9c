package moves

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nerdwave-nick/pokeview/internal/pokeapi"
)

func TestMain(m *testing.M) {
	// otter runs its expiry loop and clock for the life of the process.
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("github.com/maypok86/otter/internal/core.(*Cache[...]).cleanup"),
		goleak.IgnoreAnyFunction("github.com/maypok86/otter/internal/unixtime.startTimer.func1"),
	)
}

type fakeResolver struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
	idFor map[string]int
	delay func(url string) time.Duration
}

func (f *fakeResolver) MoveDetail(ctx context.Context, url string) (*pokeapi.Move, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if f.delay != nil {
		select {
		case <-time.After(f.delay(url)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.fail[url] {
		return nil, errors.New("detail unavailable")
	}
	id, ok := f.idFor[url]
	if !ok {
		fmt.Sscanf(url, "move/%d", &id)
	}
	power := id * 10
	pp := 35
	return &pokeapi.Move{
		ID:          id,
		Name:        url,
		Power:       &power,
		PP:          &pp,
		Type:        pokeapi.NamedAPIResource{Name: "normal"},
		DamageClass: pokeapi.NamedAPIResource{Name: "physical"},
	}, nil
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func refs(n int) []pokeapi.MoveRef {
	out := make([]pokeapi.MoveRef, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, pokeapi.MoveRef{Name: fmt.Sprintf("move-%d", i), URL: fmt.Sprintf("move/%d", i)})
	}
	return out
}

func TestAdvanceInBatchesOfFifteen(t *testing.T) {
	res := &fakeResolver{}
	p := NewPage(6, refs(37))
	ctx := context.Background()

	for _, want := range []int{15, 30, 37, 37} {
		_, err := p.Advance(ctx, 6, res)
		require.NoError(t, err)
		assert.Equal(t, want, p.Cursor())
	}
	assert.True(t, p.Done())
	assert.Equal(t, "37/37", p.Progress())
	assert.Len(t, p.Rows(), 37)
	assert.Equal(t, 37, res.callCount(), "the no-op advance must not fetch")
}

func TestResetWithoutAdvanceIsEmpty(t *testing.T) {
	p := NewPage(1, refs(20))
	_, err := p.Advance(context.Background(), 1, &fakeResolver{})
	require.NoError(t, err)

	p.Reset(4, refs(3))
	assert.Equal(t, 4, p.RecordID())
	assert.Zero(t, p.Cursor())
	assert.Empty(t, p.Rows())
	assert.Equal(t, "0/3", p.Progress())
	assert.False(t, p.Done())
}

func TestAdvanceRejectsStaleRecord(t *testing.T) {
	res := &fakeResolver{}
	p := NewPage(1, refs(20))
	_, err := p.Advance(context.Background(), 1, res)
	require.NoError(t, err)
	before := p.Rows()

	_, err = p.Advance(context.Background(), 2, res)
	require.ErrorIs(t, err, ErrStaleRecord)
	assert.Equal(t, before, p.Rows(), "rows of another record must never be mixed in")
	assert.Equal(t, 15, p.Cursor())
	assert.Equal(t, 15, res.callCount())
}

func TestAdvanceKeepsInputOrder(t *testing.T) {
	// later moves finish first
	res := &fakeResolver{delay: func(url string) time.Duration {
		var id int
		fmt.Sscanf(url, "move/%d", &id)
		return time.Duration(16-id) * time.Millisecond
	}}
	p := NewPage(1, refs(15))
	p.Parallelism = 15

	_, err := p.Advance(context.Background(), 1, res)
	require.NoError(t, err)
	rows := p.Rows()
	require.Len(t, rows, 15)
	for i, row := range rows {
		assert.Equal(t, i+1, row.ID)
		assert.Equal(t, fmt.Sprintf("move-%d", i+1), row.Name)
	}
}

func TestDuplicateIDsOverwrite(t *testing.T) {
	res := &fakeResolver{idFor: map[string]int{"move/1": 7, "move/2": 8, "move/3": 7}}
	p := NewPage(1, refs(3))

	result, err := p.Advance(context.Background(), 1, res)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Resolved)
	rows := p.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, 7, rows[0].ID)
	assert.Equal(t, "move-3", rows[0].Name, "the later move replaces the row in place")
	assert.Equal(t, 8, rows[1].ID)
	assert.Equal(t, 3, p.Cursor())
}

func TestFailedMovesAreSkipped(t *testing.T) {
	res := &fakeResolver{fail: map[string]bool{"move/2": true, "move/5": true}}
	p := NewPage(1, refs(6))

	result, err := p.Advance(context.Background(), 1, res)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Resolved)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "move-2", result.Skipped[0].Name)
	assert.Equal(t, "move-5", result.Skipped[1].Name)
	assert.Equal(t, 6, p.Cursor())

	snap := p.Snapshot()
	assert.Equal(t, 2, snap.Skipped)
	assert.Len(t, snap.Rows, 4)
	assert.True(t, snap.Done)
	assert.Equal(t, "6/6", snap.Progress)
}

func TestCanceledAdvanceLeavesPageUntouched(t *testing.T) {
	res := &fakeResolver{delay: func(string) time.Duration { return time.Second }}
	p := NewPage(1, refs(5))
	p.Parallelism = 5

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Advance(ctx, 1, res)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, p.Cursor())
	assert.Empty(t, p.Rows())
}

func TestPageReadableDuringAdvance(t *testing.T) {
	res := &fakeResolver{delay: func(string) time.Duration { return 300 * time.Millisecond }}
	p := NewPage(1, refs(15))

	done := make(chan error, 1)
	go func() {
		_, err := p.Advance(context.Background(), 1, res)
		done <- err
	}()
	require.Eventually(t, func() bool { return res.callCount() > 0 }, time.Second, time.Millisecond)

	start := time.Now()
	snap := p.Snapshot()
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Zero(t, snap.Cursor)
	assert.Equal(t, "0/15", snap.Progress)

	require.NoError(t, <-done)
	assert.Equal(t, 15, p.Cursor())
}

func TestResetDuringAdvanceDiscardsBatch(t *testing.T) {
	res := &fakeResolver{delay: func(string) time.Duration { return 50 * time.Millisecond }}
	p := NewPage(1, refs(3))
	p.Parallelism = 3

	done := make(chan error, 1)
	go func() {
		_, err := p.Advance(context.Background(), 1, res)
		done <- err
	}()
	require.Eventually(t, func() bool { return res.callCount() > 0 }, time.Second, time.Millisecond)
	p.Reset(2, refs(4))

	require.ErrorIs(t, <-done, ErrStaleRecord)
	snap := p.Snapshot()
	assert.Equal(t, 2, snap.RecordID)
	assert.Zero(t, snap.Cursor)
	assert.Empty(t, snap.Rows)
	assert.Equal(t, "0/4", snap.Progress)
}

func TestEmptyMoveList(t *testing.T) {
	p := NewPage(132, nil)
	assert.True(t, p.Done())
	result, err := p.Advance(context.Background(), 132, &fakeResolver{})
	require.NoError(t, err)
	assert.Zero(t, result.Resolved)
	assert.Equal(t, "0/0", p.Progress())
}

func TestRowCarriesDetail(t *testing.T) {
	p := NewPage(1, refs(1))
	_, err := p.Advance(context.Background(), 1, &fakeResolver{})
	require.NoError(t, err)
	row := p.Rows()[0]
	assert.Equal(t, "normal", row.Type)
	assert.Equal(t, "physical", row.DamageClass)
	require.NotNil(t, row.Power)
	assert.Equal(t, 10, *row.Power)
	assert.Nil(t, row.Accuracy)
}

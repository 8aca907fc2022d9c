package moves

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreKeepsOnePagePerRecord(t *testing.T) {
	s, err := NewStore(16, time.Hour, 4, nil)
	require.NoError(t, err)
	defer s.Close()

	bulba := s.Open(1, refs(20))
	_, err = bulba.Advance(context.Background(), 1, &fakeResolver{})
	require.NoError(t, err)

	charm := s.Open(4, refs(5))
	assert.Zero(t, charm.Cursor())

	again := s.Open(1, refs(20))
	assert.Same(t, bulba, again)
	assert.Equal(t, 15, again.Cursor())

	got, ok := s.Lookup(4)
	require.True(t, ok)
	assert.Same(t, charm, got)
}

func TestStoreDrop(t *testing.T) {
	s, err := NewStore(16, time.Hour, 1, nil)
	require.NoError(t, err)
	defer s.Close()

	p := s.Open(25, refs(3))
	_, err = p.Advance(context.Background(), 25, &fakeResolver{})
	require.NoError(t, err)

	s.Drop(25)
	_, ok := s.Lookup(25)
	assert.False(t, ok)
	assert.Zero(t, s.Open(25, refs(3)).Cursor())
}

func TestStoreUseKeepsPageAlive(t *testing.T) {
	if testing.Short() {
		t.Skip("waits on the cache clock")
	}
	s, err := NewStore(16, 4*time.Second, 1, nil)
	require.NoError(t, err)
	defer s.Close()

	p := s.Open(7, refs(3))
	time.Sleep(2 * time.Second)
	_, ok := s.Lookup(7)
	require.True(t, ok)

	// past the first write's expiry, within the refreshed one
	time.Sleep(2500 * time.Millisecond)
	got, ok := s.Lookup(7)
	require.True(t, ok)
	assert.Same(t, p, got)
}

package pending

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_LastWriteWins(t *testing.T) {
	s := New()
	s.Set("a")
	s.Set("b")

	got, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	// Get does not clear.
	got, ok = s.Get()
	assert.True(t, ok)
	assert.Equal(t, "b", got)
}

func TestStore_Expire(t *testing.T) {
	s := New()
	s.Set("a")
	s.Expire()

	_, ok := s.Get()
	assert.False(t, ok)
}

func TestStore_SetEmptyClears(t *testing.T) {
	s := New()
	s.Set("a")
	s.Set("")

	_, ok := s.Get()
	assert.False(t, ok)
	_, ok = s.Take()
	assert.False(t, ok)
}

func TestStore_EmptyAtStart(t *testing.T) {
	_, ok := New().Get()
	assert.False(t, ok)
}

func TestStore_Take(t *testing.T) {
	s := New()
	s.Set("metamask://connect?channelId=1")

	got, ok := s.Take()
	assert.True(t, ok)
	assert.Equal(t, "metamask://connect?channelId=1", got)

	_, ok = s.Take()
	assert.False(t, ok)
}

func TestStore_ConcurrentSet(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for _, v := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			s.Set(v)
		}(v)
	}
	wg.Wait()

	got, ok := s.Get()
	assert.True(t, ok)
	assert.Contains(t, []string{"a", "b", "c", "d"}, got)
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"), time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemoryTTLExpiry(t *testing.T) {
	c := NewMemory()
	now := time.Now()
	c.SetClock(func() time.Time { return now })

	c.Set("k", []byte("v"), 60*time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(59 * time.Second)
	_, ok = c.Get("k")
	assert.True(t, ok, "entry should survive inside the TTL window")

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should expire past the TTL")
}

func TestMemoryNoTTL(t *testing.T) {
	c := NewMemory()
	now := time.Now()
	c.SetClock(func() time.Time { return now })

	c.Set("k", []byte("v"), 0)
	now = now.Add(24 * time.Hour)
	_, ok := c.Get("k")
	assert.True(t, ok, "ttl<=0 stores without expiry")
}

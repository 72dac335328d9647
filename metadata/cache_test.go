package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetMiss(t *testing.T) {
	c := newResultCache(time.Hour)
	_, ok := c.get("absent")
	assert.False(t, ok)
}

func TestCacheSetGet(t *testing.T) {
	c := newResultCache(time.Hour)
	want := []ScoredMatch{{Source: "src", Confidence: 0.9}}
	c.set("game", want)

	got, ok := c.get("game")
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestCacheExpiredEntryIsAbsent(t *testing.T) {
	c := newResultCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.set("game", []ScoredMatch{{Source: "src"}})

	now = now.Add(59 * time.Second)
	_, ok := c.get("game")
	assert.True(t, ok, "entry inside the TTL must be served")

	now = now.Add(2 * time.Second)
	_, ok = c.get("game")
	assert.False(t, ok, "entry past the TTL must not be served")
	assert.Equal(t, 0, c.len(), "expired entry must be dropped on lookup")
}

func TestCacheSetOverwrites(t *testing.T) {
	c := newResultCache(time.Hour)
	c.set("game", []ScoredMatch{{Source: "old"}})
	c.set("game", []ScoredMatch{{Source: "new"}})

	got, ok := c.get("game")
	assert.True(t, ok)
	assert.Equal(t, "new", got[0].Source)
	assert.Equal(t, 1, c.len())
}

func TestCacheClear(t *testing.T) {
	c := newResultCache(time.Hour)
	c.set("a", nil)
	c.set("b", nil)
	c.clear()
	assert.Equal(t, 0, c.len())
}

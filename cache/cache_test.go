package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	lc := NewLocalCache(time.Minute)
	defer lc.StopCleanup()

	lc.Update(NamedPreview{Id: "1-0", Png: []byte{0x89}}, time.Now().Add(time.Minute).Unix())

	preview, err := lc.Read("1-0")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89}, preview.Png)

	_, err = lc.Read("missing")
	assert.Error(t, err)
}

func TestCacheExpiry(t *testing.T) {
	lc := NewLocalCache(time.Minute)
	defer lc.StopCleanup()

	lc.Update(NamedPreview{Id: "stale"}, time.Now().Add(-time.Second).Unix())
	_, err := lc.Read("stale")
	assert.Error(t, err, "expired entries are not served even before cleanup runs")
}

func TestEmptyCache(t *testing.T) {
	lc := NewLocalCache(time.Minute)
	defer lc.StopCleanup()

	lc.Update(NamedPreview{Id: "a"}, time.Now().Add(time.Minute).Unix())
	lc.EmptyCache()
	_, err := lc.Read("a")
	assert.Error(t, err)
}

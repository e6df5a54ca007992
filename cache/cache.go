// Package cache holds rendered annotation previews in memory so repeated
// preview requests do not re-rasterize the same example.
package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type NamedPreview struct {
	Id  string
	Png []byte
}

type cachedPreview struct {
	NamedPreview
	expireAtTimestamp int64
}

type LocalCache struct {
	stop chan struct{}

	wg       sync.WaitGroup
	mu       sync.RWMutex
	previews map[string]cachedPreview
}

// NewLocalCache Create a new local cache
func NewLocalCache(cleanupInterval time.Duration) *LocalCache {
	log.Info("Creating new preview cache with cleanup interval ", cleanupInterval)
	lc := &LocalCache{
		previews: make(map[string]cachedPreview),
		stop:     make(chan struct{}),
	}

	lc.wg.Add(1)
	go func(cleanupInterval time.Duration) {
		defer lc.wg.Done()
		lc.cleanupLoop(cleanupInterval)
	}(cleanupInterval)

	return lc
}

// cleanupLoop Drop expired previews
func (lc *LocalCache) cleanupLoop(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-lc.stop:
			return
		case <-t.C:
			lc.mu.Lock()
			for uid, cu := range lc.previews {
				if cu.expireAtTimestamp <= time.Now().Unix() {
					log.Debug("Preview expired: ", uid)
					delete(lc.previews, uid)
				}
			}
			lc.mu.Unlock()
		}
	}
}

// StopCleanup Stop the background cleanup goroutine.
func (lc *LocalCache) StopCleanup() {
	close(lc.stop)
	lc.wg.Wait()
}

// Update Add a preview to the cache
func (lc *LocalCache) Update(u NamedPreview, expireAtTimestamp int64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	log.Debug(fmt.Sprintf("Updating %s in cache", u.Id))

	lc.previews[u.Id] = cachedPreview{
		NamedPreview:      u,
		expireAtTimestamp: expireAtTimestamp,
	}
}

var errPreviewNotInCache = errors.New("the preview isn't in cache")

// Read Read a preview from the cache
func (lc *LocalCache) Read(id string) (NamedPreview, error) {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	cu, ok := lc.previews[id]
	if !ok {
		return NamedPreview{}, errPreviewNotInCache
	}
	if cu.expireAtTimestamp <= time.Now().Unix() {
		return NamedPreview{}, errPreviewNotInCache
	}
	return cu.NamedPreview, nil
}

// EmptyCache Remove all elements from cache
func (lc *LocalCache) EmptyCache() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	log.Debug("Emptying complete cache.")
	for key := range lc.previews {
		delete(lc.previews, key)
	}
}

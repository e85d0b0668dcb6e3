// Copyright 2025 The oma-helen-cli Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// memoCache memoizes the result of an expensive fetch keyed by its full
// argument tuple. Entries expire a fixed TTL after insertion and the least
// recently used entry is evicted once capacity is exceeded. Concurrent
// callers asking for the same missing key share one upstream fetch. The cache
// lives in memory only and is dropped with the process.
type memoCache[V any] struct {
	mu       sync.Mutex
	name     string
	capacity int
	ttl      time.Duration
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	group    singleflight.Group
	logger   *Logger
	now      func() time.Time
}

type memoEntry[V any] struct {
	key        string
	value      V
	insertedAt time.Time
}

// newMemoCache creates a memoCache. The name is used only for log fields.
func newMemoCache[V any](name string, capacity int, ttl time.Duration, logger *Logger) *memoCache[V] {
	return &memoCache[V]{
		name:     name,
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// GetOrFetch returns the cached value for key when present and fresh,
// otherwise runs fetch once and stores its result. Fetch errors are returned
// to every waiting caller and nothing is stored for the key.
func (c *memoCache[V]) GetOrFetch(key string, fetch func() (V, error)) (V, error) {
	if value, ok := c.get(key); ok {
		return value, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A caller that was queued behind the winning flight finds the entry
		// already populated.
		if value, ok := c.get(key); ok {
			return value, nil
		}
		value, err := fetch()
		if err != nil {
			return nil, err
		}
		c.put(key, value)
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// get returns a live entry and promotes it to most recently used. Expired
// entries are removed on sight and reported as a miss.
func (c *memoCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.entries[key]
	if !ok {
		if c.logger != nil {
			c.logger.LogCacheMiss(c.name, "absent")
		}
		return zero, false
	}

	entry := elem.Value.(*memoEntry[V])
	age := c.now().Sub(entry.insertedAt)
	if age >= c.ttl {
		c.order.Remove(elem)
		delete(c.entries, key)
		if c.logger != nil {
			c.logger.LogCacheMiss(c.name, "expired")
		}
		return zero, false
	}

	c.order.MoveToFront(elem)
	if c.logger != nil {
		c.logger.LogCacheHit(c.name, age.Seconds())
	}
	return entry.value, true
}

// put inserts or replaces an entry and evicts from the LRU end while over
// capacity.
func (c *memoCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoEntry[V])
		entry.value = value
		entry.insertedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	elem := c.order.PushFront(&memoEntry[V]{key: key, value: value, insertedAt: c.now()})
	c.entries[key] = elem

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*memoEntry[V]).key)
	}
}

// Len reports the number of stored entries, expired ones included until they
// are touched.
func (c *memoCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

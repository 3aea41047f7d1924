// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stores

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// snapshotEncMode encodes snapshots with sorted keys, so equal caches have
// equal snapshots.
var snapshotEncMode cbor.EncMode

func init() {
	var err error
	snapshotEncMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
}

// Cache is an in-memory cache of values. It is safe for concurrent use by
// multiple goroutines.
type Cache struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewCache returns a new cache with the given values. values can be nil.
func NewCache(values map[string]string) *Cache {
	c := &Cache{values: make(map[string]string, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Get implements the resolve.Cache interface. It returns the error of ctx
// if ctx is done.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	return v, ok, nil
}

// Set sets the value of key.
func (c *Cache) Set(key, value string) {
	c.mu.Lock()
	c.values[key] = value
	c.mu.Unlock()
}

// Delete deletes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.values, key)
	c.mu.Unlock()
}

// Clear deletes all the keys.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.values = map[string]string{}
	c.mu.Unlock()
}

// Len returns the number of keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	n := len(c.values)
	c.mu.RUnlock()
	return n
}

// Snapshot returns a copy of the values.
func (c *Cache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	values := make(map[string]string, len(c.values))
	for k, v := range c.values {
		values[k] = v
	}
	return values
}

// WriteSnapshot writes the values to w in canonical CBOR.
func (c *Cache) WriteSnapshot(w io.Writer) error {
	data, err := snapshotEncMode.Marshal(c.Snapshot())
	if err != nil {
		return fmt.Errorf("stores: encoding cache snapshot: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ReadSnapshot reads a snapshot written by WriteSnapshot from r and merges
// its values into the cache.
func (c *Cache) ReadSnapshot(r io.Reader) error {
	var values map[string]string
	if err := cbor.NewDecoder(r).Decode(&values); err != nil {
		return fmt.Errorf("stores: decoding cache snapshot: %w", err)
	}
	c.mu.Lock()
	for k, v := range values {
		c.values[k] = v
	}
	c.mu.Unlock()
	return nil
}

// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/open2b/sharptag"
	"github.com/open2b/sharptag/internal/config"
	"github.com/open2b/sharptag/resolve"
	"github.com/open2b/sharptag/stores"
)

// env is the environment of a command, built from the configuration file.
type env struct {
	config *config.Config
	engine *sharptag.Engine
	cache  *stores.Cache
}

// loadEnv loads the configuration file at path and returns the environment.
// An empty path means the default configuration.
func loadEnv(path string) (*env, error) {
	c := config.Default()
	if path != "" {
		var err error
		c, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	cache := stores.NewCache(c.Cache)
	if name := c.Path(c.CacheFile); name != "" {
		f, err := os.Open(name)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			err = cache.ReadSnapshot(f)
			_ = f.Close()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	engine := sharptag.New(&sharptag.Options{
		Start:    c.Delimiters.Start,
		End:      c.Delimiters.End,
		Location: c.Location(),
	})
	return &env{config: c, engine: engine, cache: cache}, nil
}

// stores returns the stores shared by all the documents.
func (e *env) stores() *resolve.Stores {
	byName, byID := stores.SheetIDs(e.config.Spreadsheets)
	return &resolve.Stores{
		Config:              stores.Map(e.config.Config),
		ConfigDisabled:      !e.config.InjectConfig(),
		Cache:               e.cache,
		Namespace:           e.config.Namespace,
		Globals:             stores.Map(e.config.Globals),
		SpreadsheetIDByName: byName,
		SpreadsheetNameByID: byID,
	}
}

// saveCache writes the cache to the cache file.
func (e *env) saveCache() error {
	name := e.config.Path(e.config.CacheFile)
	if name == "" {
		return errors.New("no cache file is configured")
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := e.cache.WriteSnapshot(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config reads the configuration file of the sharptag command.
//
// The file is in YAML:
//
//	version: v1.0.0
//	delimiters: {start: "<#", end: "#>"}
//	namespace: shop
//	timezone: America/New_York
//	config_injection: true
//	config: {site_name: Shop}
//	globals: {greeting: Hello}
//	cache: {rate: "1.25"}
//	cache_file: cache.cbor
//	spreadsheets: {Orders: 1AbC}
//	serve: {addr: ":8080", root: "."}
//
// All the fields are optional.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ErrVersion is the error returned when the version of a configuration
// file is not supported.
var ErrVersion = errors.New("config: unsupported version")

// SupportedMajor is the supported major version of the configuration
// files.
const SupportedMajor = "v1"

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("schema.json", schemaJSON)

// Config is a configuration.
type Config struct {
	Version         string            `yaml:"version"`
	Delimiters      Delimiters        `yaml:"delimiters"`
	Namespace       string            `yaml:"namespace"`
	Timezone        string            `yaml:"timezone"`
	ConfigInjection *bool             `yaml:"config_injection"`
	Config          map[string]string `yaml:"config"`
	Globals         map[string]string `yaml:"globals"`
	Cache           map[string]string `yaml:"cache"`
	CacheFile       string            `yaml:"cache_file"`
	Spreadsheets    map[string]string `yaml:"spreadsheets"`
	Serve           Serve             `yaml:"serve"`

	dir string // directory of the file.
}

// Delimiters are the tag delimiters.
type Delimiters struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Serve is the configuration of the serve command.
type Serve struct {
	Addr string `yaml:"addr"`
	Root string `yaml:"root"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{Serve: Serve{Addr: ":8080", Root: "."}}
}

// Load reads the configuration file at path. Relative paths in the file
// are relative to the directory of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// Parse parses a configuration. Fields not present in data have their
// default values.
func Parse(data []byte) (*Config, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if raw != nil {
		if err := validate(raw); err != nil {
			return nil, err
		}
	}
	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if c.Version != "" {
		v := c.Version
		if !strings.HasPrefix(v, "v") {
			v = "v" + v
		}
		if !semver.IsValid(v) || semver.Major(v) != SupportedMajor {
			return nil, fmt.Errorf("%w %q", ErrVersion, c.Version)
		}
		c.Version = semver.Canonical(v)
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return nil, fmt.Errorf("config: timezone: %w", err)
		}
	}
	return c, nil
}

// validate validates the YAML document raw against the schema.
func validate(raw any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("config: %s", basicOutput(ve))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// basicOutput returns the messages of the innermost causes of ve.
func basicOutput(ve *jsonschema.ValidationError) string {
	var msgs []string
	for _, e := range ve.BasicOutput().Errors {
		if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		msgs = append(msgs, loc+": "+e.Error)
	}
	if len(msgs) == 0 {
		return ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Location returns the location of the configured timezone, or UTC if
// there is no timezone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// InjectConfig reports whether the "config" bucket is enabled. It is
// enabled by default.
func (c *Config) InjectConfig() bool {
	return c.ConfigInjection == nil || *c.ConfigInjection
}

// Path returns name relative to the directory of the configuration file.
// Absolute names are returned unchanged.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) || c.dir == "" {
		return name
	}
	return filepath.Join(c.dir, name)
}

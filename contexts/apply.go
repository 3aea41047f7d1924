// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contexts

import (
	"context"
	"time"

	"github.com/yuin/goldmark"
)

// Env is the environment in which a pipeline is applied. The zero value is
// usable: dates are read and printed in UTC, salt variables resolve to the
// empty string and salts are not expanded.
type Env struct {

	// Location is the location of dates. nil means UTC.
	Location *time.Location

	// Lookup returns the value of the variable name. It is called to
	// resolve the salt variable of a Hash context.
	Lookup func(ctx context.Context, name string) (string, error)

	// Expand expands the tags in s. It is called on the literal salt of a
	// Hash context.
	Expand func(ctx context.Context, s string) (string, error)

	// Markdown converts the value of a "markdown" context. nil means a
	// goldmark converter with the default options.
	Markdown goldmark.Markdown
}

var defaultMarkdown = goldmark.New()

func (env *Env) location() *time.Location {
	if env == nil || env.Location == nil {
		return time.UTC
	}
	return env.Location
}

func (env *Env) markdown() goldmark.Markdown {
	if env == nil || env.Markdown == nil {
		return defaultMarkdown
	}
	return env.Markdown
}

// Apply applies the distinct contexts of p to value, in the order they are
// written in the expression, and returns the transformed value.
//
// Values that cannot be transformed, as a date that cannot be parsed, are
// passed unchanged to the next context. The returned error is non-nil only
// if the Lookup or Expand function of env returns an error.
func Apply(ctx context.Context, value string, p Pipeline, env *Env) (string, error) {
	var err error
	for _, c := range p.Ordered() {
		switch c := c.(type) {
		case Simple:
			value = applySimple(env, c.Name, value)
		case TimestampAdjust:
			value = adjustTimestamp(value, c, env.location())
		case DateFormat:
			value = formatDate(value, c, env.location())
		case Hash:
			value, err = applyHash(ctx, env, c, value)
			if err != nil {
				return "", err
			}
		}
	}
	return value, nil
}

// applyHash applies the Hash context c to value.
func applyHash(ctx context.Context, env *Env, c Hash, value string) (string, error) {
	salt := c.Salt
	var err error
	switch {
	case c.SaltVar != "":
		if env != nil && env.Lookup != nil {
			salt, err = env.Lookup(ctx, c.SaltVar)
		}
	case salt != "":
		if env != nil && env.Expand != nil {
			salt, err = env.Expand(ctx, salt)
		}
	}
	if err != nil {
		return "", err
	}
	digest, ok := Digest(c.Algorithm, salt+value)
	if !ok {
		return value, nil
	}
	return digest, nil
}

// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sharptag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/open2b/sharptag/contexts"
	"github.com/open2b/sharptag/internal/ctxlog"
	"github.com/open2b/sharptag/internal/scanner"
	"github.com/open2b/sharptag/resolve"

	"github.com/yuin/goldmark"
)

// DefaultMaxDepth is the default maximum depth of nested tags.
const DefaultMaxDepth = 8

// Options are the options of an Engine.
type Options struct {

	// Start and End are the tag delimiters. Empty delimiters are "<#" and
	// "#>".
	Start string
	End   string

	// Location is the location of the dates read and written by the
	// contexts. nil means UTC.
	Location *time.Location

	// Markdown converts the values of the "markdown" context. nil means a
	// goldmark converter with the default options.
	Markdown goldmark.Markdown

	// MaxDepth is the maximum depth of nested tags, as a tag in a hash salt
	// or in the expression of another tag. Deeper tags are left as they
	// are. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Engine renders documents. An Engine is safe for concurrent use by
// multiple goroutines.
type Engine struct {
	scanner  *scanner.Scanner
	location *time.Location
	markdown goldmark.Markdown
	maxDepth int
}

// New returns a new engine with the given options. options can be nil.
func New(options *Options) *Engine {
	e := &Engine{maxDepth: DefaultMaxDepth}
	var start, end string
	if options != nil {
		start, end = options.Start, options.End
		e.location = options.Location
		e.markdown = options.Markdown
		if options.MaxDepth > 0 {
			e.maxDepth = options.MaxDepth
		}
	}
	e.scanner = scanner.New(start, end)
	return e
}

// Delimiters returns the tag delimiters.
func (e *Engine) Delimiters() (string, string) {
	return e.scanner.Delimiters()
}

// Render renders doc, replacing each tag with its value.
//
// If a store returns an error, Render stops and returns an error that
// wraps it.
func (e *Engine) Render(ctx context.Context, doc string, st *resolve.Stores) (string, error) {
	return e.render(ctx, doc, st, nil, 0)
}

// RenderScope is like Render but the names of the plain tags are looked up
// in scope before the stores. scope can be nil.
func (e *Engine) RenderScope(ctx context.Context, doc string, st *resolve.Stores, scope resolve.Local) (string, error) {
	return e.render(ctx, doc, st, scope, 0)
}

// RenderRows renders doc once for each data row of sheet, with the row as
// scope, and returns the concatenation of the rendered documents.
func (e *Engine) RenderRows(ctx context.Context, doc string, st *resolve.Stores, sheet *resolve.Sheet) (string, error) {
	if sheet == nil {
		return "", nil
	}
	var b strings.Builder
	for _, row := range sheet.Rows() {
		out, err := e.render(ctx, doc, st, row, 0)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// RenderTable renders doc once for each row of the named table, with the
// row as scope, and returns the concatenation of the rendered documents.
// The rows are keyed by column names normalized with resolve.SQLName.
func (e *Engine) RenderTable(ctx context.Context, doc string, st *resolve.Stores, table string, rows []map[string]string) (string, error) {
	var b strings.Builder
	for i, row := range rows {
		scope := &resolve.TableRow{
			Table:   table,
			Current: row,
			Counter: i + 1,
			Total:   len(rows),
		}
		out, err := e.render(ctx, doc, st, scope, 0)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Resolve returns the value of the expression expr, written as the content
// of a tag without the delimiters. For example
//
//	v, err := e.Resolve(ctx, "total as dollars", st)
func (e *Engine) Resolve(ctx context.Context, expr string, st *resolve.Stores) (string, error) {
	tag := scanner.Tag{Expr: strings.TrimSpace(expr), Kind: scanner.Plain}
	return e.tag(ctx, tag, st, nil, 0)
}

// render renders doc at the given depth of nesting.
func (e *Engine) render(ctx context.Context, doc string, st *resolve.Stores, scope resolve.Local, depth int) (string, error) {
	return e.scanner.Replace(doc, func(tag scanner.Tag) (string, error) {
		return e.tag(ctx, tag, st, scope, depth)
	})
}

// tag returns the value of tag.
func (e *Engine) tag(ctx context.Context, tag scanner.Tag, st *resolve.Stores, scope resolve.Local, depth int) (string, error) {
	base, pipeline := contexts.Parse(tag.Expr)
	if depth < e.maxDepth && e.scanner.Contains(base) {
		var err error
		base, err = e.render(ctx, base, st, scope, depth+1)
		if err != nil {
			return "", err
		}
		base = strings.TrimSpace(base)
	}
	value, err := e.lookup(ctx, base, tag.Kind, st, scope)
	if err != nil {
		return "", fmt.Errorf("sharptag: resolving %q: %w", tag.Expr, err)
	}
	if len(pipeline) == 0 {
		return value, nil
	}
	env := &contexts.Env{
		Location: e.location,
		Markdown: e.markdown,
		Lookup: func(ctx context.Context, name string) (string, error) {
			return e.lookup(ctx, name, scanner.Plain, st, scope)
		},
		Expand: func(ctx context.Context, s string) (string, error) {
			if depth >= e.maxDepth {
				return s, nil
			}
			return e.render(ctx, s, st, scope, depth+1)
		},
	}
	value, err = contexts.Apply(ctx, value, pipeline, env)
	if err != nil {
		return "", fmt.Errorf("sharptag: resolving %q: %w", tag.Expr, err)
	}
	return value, nil
}

// lookup returns the value of name. Plain names are looked up in scope
// and then in the stores, the other names only in the stores.
func (e *Engine) lookup(ctx context.Context, name string, kind scanner.Kind, st *resolve.Stores, scope resolve.Local) (string, error) {
	if kind == scanner.Plain && scope != nil {
		if v, ok := scope.Lookup(name); ok {
			return v, nil
		}
	}
	v, err := st.Resolve(ctx, name)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("store failed", "name", name, "err", err)
		return "", err
	}
	if v == "" {
		ctxlog.FromContext(ctx).Debug("unresolved name", "name", name, "kind", kind)
	}
	return v, nil
}

// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/open2b/sharptag/contexts"
	"github.com/open2b/sharptag/internal/scanner"
	"github.com/open2b/sharptag/resolve"
)

// errIssues is returned by the lint command when it finds issues.
var errIssues = errors.New("issues found")

func newLintCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lint FILE...",
		Short: "Report suspicious tags",
		Long: `Lint reports the tags with an empty name, an unknown context, an unknown
hash algorithm or a name whose bucket looks like a misspelled reserved bucket.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(global.config)
			if err != nil {
				return err
			}
			start, end := e.engine.Delimiters()
			s := scanner.New(start, end)
			n := 0
			for _, file := range args {
				doc, err := readDocument(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				issues := lint(s, doc)
				printIssues(cmd.OutOrStdout(), file, issues)
				n += len(issues)
			}
			if n > 0 {
				return fmt.Errorf("%d %w", n, errIssues)
			}
			return nil
		},
	}
}

// issue is an issue found in a document.
type issue struct {
	Line   int
	Column int
	Msg    string
}

// lint returns the issues of the tags of doc. The issues of nested tags
// have the position of the outermost tag.
func lint(s *scanner.Scanner, doc string) []issue {
	var issues []issue
	for _, tag := range s.Scan(doc) {
		line, col := position(doc, tag.Start)
		var walk func(tag scanner.Tag)
		walk = func(tag scanner.Tag) {
			for _, msg := range lintTag(s, tag) {
				issues = append(issues, issue{Line: line, Column: col, Msg: msg})
			}
			for _, nested := range s.Scan(tag.Expr) {
				walk(nested)
			}
		}
		walk(tag)
	}
	return issues
}

// lintTag returns the messages of the issues of tag.
func lintTag(s *scanner.Scanner, tag scanner.Tag) []string {
	var msgs []string
	name, pipeline := contexts.Parse(tag.Expr)
	if name == "" {
		msgs = append(msgs, "empty tag")
	}
	for _, c := range pipeline {
		switch c := c.(type) {
		case contexts.Simple:
			if !contexts.IsKeyword(c.Name) {
				msgs = append(msgs, "unknown context "+strconv.Quote(c.Name)+suggest(c.Name, contexts.Keywords()))
			}
		case contexts.Hash:
			if _, ok := contexts.Digest(c.Algorithm, ""); !ok {
				msgs = append(msgs, "unknown hash algorithm "+strconv.Quote(c.Algorithm)+suggest(c.Algorithm, contexts.Algorithms()))
			}
		}
	}
	if tag.Kind == scanner.Plain && !s.Contains(name) {
		ref := resolve.ParseReference(name)
		if ref.Bucket != "" && !isBucket(ref.Bucket) && !strings.EqualFold(ref.Bucket, resolve.BucketRow) {
			if m := closest(strings.ToLower(ref.Bucket), resolve.Buckets()); m != "" {
				msgs = append(msgs, "unknown bucket "+strconv.Quote(ref.Bucket)+", did you mean "+strconv.Quote(m)+"?")
			}
		}
	}
	return msgs
}

func isBucket(name string) bool {
	name = strings.ToLower(name)
	for _, b := range resolve.Buckets() {
		if b == name {
			return true
		}
	}
	return false
}

// suggest returns a suggestion for the misspelled word, or the empty
// string if no word is close enough.
func suggest(word string, words []string) string {
	if m := closest(strings.ToLower(word), words); m != "" {
		return ", did you mean " + strconv.Quote(m) + "?"
	}
	return ""
}

// closest returns the word of words closest to target, or the empty
// string if no word is close enough.
func closest(target string, words []string) string {
	ranks := fuzzy.RankFindFold(target, words)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		if ranks[0].Distance <= 2 {
			return ranks[0].Target
		}
	}
	best, dist := "", 3
	for _, w := range words {
		if d := fuzzy.LevenshteinDistance(target, w); d < dist {
			best, dist = w, d
		}
	}
	return best
}

// position returns the line and column, starting from 1, of the byte at
// offset p of doc.
func position(doc string, p int) (int, int) {
	line := 1 + strings.Count(doc[:p], "\n")
	col := p - strings.LastIndexByte(doc[:p], '\n')
	return line, col
}

func printIssues(w io.Writer, file string, issues []issue) {
	if file == "-" {
		file = "<stdin>"
	}
	for _, is := range issues {
		fmt.Fprintf(w, "%s:%d:%d: %s\n", file, is.Line, is.Column, is.Msg)
	}
}

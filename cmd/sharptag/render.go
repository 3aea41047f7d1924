// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/open2b/sharptag/resolve"
	"github.com/open2b/sharptag/stores"
)

type renderFlags struct {
	set       []string
	query     []string
	output    string
	sheet     string
	sheetName string
	db        string
	sql       string
	table     string
}

func newRenderCmd(global *globalFlags) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render [flags] FILE",
		Short: "Render a document",
		Long: `Render renders the document FILE, or the standard input if FILE is "-",
and writes the result to the standard output.

With --sheet the document is rendered once for each data row of a worksheet.
With --db and --sql it is rendered once for each row returned by the query.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], global, &flags)
		},
	}
	f := cmd.Flags()
	f.StringArrayVar(&flags.set, "set", nil, "Set a value as bucket.key=value, where bucket is session, cookie, post, config, cache or global")
	f.StringArrayVar(&flags.query, "query", nil, "Set a query parameter as key=value")
	f.StringVarP(&flags.output, "output", "o", "", "Write the result to a file")
	f.StringVar(&flags.sheet, "sheet", "", "Render the rows of an XLSX workbook")
	f.StringVar(&flags.sheetName, "sheet-name", "", "Worksheet of the workbook (default the active one)")
	f.StringVar(&flags.db, "db", "", "PostgreSQL connection string")
	f.StringVar(&flags.sql, "sql", "", "Query returning the rows to render")
	f.StringVar(&flags.table, "table", "", "Table name of the rows returned by --sql")
	cmd.MarkFlagsRequiredTogether("db", "sql")
	cmd.MarkFlagsMutuallyExclusive("sheet", "db")
	return cmd
}

func runRender(cmd *cobra.Command, file string, global *globalFlags, flags *renderFlags) error {
	ctx := cmd.Context()
	e, err := loadEnv(global.config)
	if err != nil {
		return err
	}
	doc, err := readDocument(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}
	st := e.stores()
	if err := applyValues(st, e, flags.set, flags.query); err != nil {
		return err
	}
	st.System = resolve.NewSystem(nil, time.Now().In(e.config.Location()))

	var out string
	switch {
	case flags.sheet != "":
		sheet, err := stores.LoadSheet(flags.sheet, flags.sheetName)
		if err != nil {
			return err
		}
		out, err = e.engine.RenderRows(ctx, doc, st, sheet)
		if err != nil {
			return err
		}
	case flags.db != "":
		pool, err := pgxpool.New(ctx, flags.db)
		if err != nil {
			return fmt.Errorf("connecting to the database: %w", err)
		}
		defer pool.Close()
		rows, err := stores.Query(ctx, pool, flags.sql)
		if err != nil {
			return err
		}
		out, err = e.engine.RenderTable(ctx, doc, st, flags.table, rows)
		if err != nil {
			return err
		}
	default:
		out, err = e.engine.Render(ctx, doc, st)
		if err != nil {
			return err
		}
	}

	if flags.output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	return os.WriteFile(flags.output, []byte(out), 0o644)
}

// readDocument reads the document file, or r if file is "-".
func readDocument(r io.Reader, file string) (string, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// applyValues adds to st the values of the --set and --query flags.
func applyValues(st *resolve.Stores, e *env, set, query []string) error {
	buckets := map[string]stores.Map{}
	for _, s := range set {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("invalid value %q for --set: missing '='", s)
		}
		ref := resolve.ParseReference(name)
		if ref.Bucket == "" || ref.Key == "" {
			return fmt.Errorf("invalid value %q for --set: missing bucket", s)
		}
		bucket := strings.ToLower(ref.Bucket)
		switch bucket {
		case "cache":
			e.cache.Set(ref.Key, value)
			continue
		case "session", "cookie", "post", "config", "global":
		default:
			return fmt.Errorf("invalid value %q for --set: unknown bucket %q", s, ref.Bucket)
		}
		m, ok := buckets[bucket]
		if !ok {
			m = stores.Map{}
			buckets[bucket] = m
		}
		m[ref.Key] = value
	}
	if m, ok := buckets["session"]; ok {
		st.Session = m
	}
	if m, ok := buckets["cookie"]; ok {
		st.Cookies = m
	}
	if m, ok := buckets["post"]; ok {
		st.Post = m
	}
	if m, ok := buckets["config"]; ok {
		st.Config = merge(st.Config, m)
	}
	if m, ok := buckets["global"]; ok {
		st.Globals = merge(st.Globals, m)
	}
	if len(query) > 0 {
		values := url.Values{}
		for _, q := range query {
			k, v, ok := strings.Cut(q, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid value %q for --query: expecting key=value", q)
			}
			values.Add(k, v)
		}
		st.Query = stores.Values(values)
	}
	return nil
}

// merge returns the values of base overridden by the values of m.
func merge(base resolve.Store, m stores.Map) stores.Map {
	merged := stores.Map{}
	if b, ok := base.(stores.Map); ok {
		for k, v := range b {
			merged[k] = v
		}
	}
	for k, v := range m {
		merged[k] = v
	}
	return merged
}

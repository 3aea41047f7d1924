// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocFS(t *testing.T, root string) *docFS {
	t.Helper()
	fsys, err := newDocFS(root, func(err error) { t.Log(err) })
	if err != nil {
		t.Skipf("cannot watch files: %s", err)
	}
	t.Cleanup(func() { _ = fsys.Close() })
	return fsys
}

func get(t *testing.T, u string) (int, string) {
	t.Helper()
	res, err := http.Get(u)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestServer(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "sharptag.yaml", testConfig)
	writeFile(t, dir, "index.html", "Hello <# url.name as html #>, <# total as dollars #>")
	writeFile(t, dir, "docs/page.md", "# <# config.site_name #> <# url.name #>\n")
	writeFile(t, dir, "form.html", "<# post.qty #>|<# request.qty #>|<# cookie.theme #>")
	writeFile(t, dir, "style.css", "body { color: red } <# url.name #>")

	e, err := loadEnv(cfg)
	require.NoError(t, err)
	srv := newServer(e, newTestDocFS(t, dir), dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	code, body := get(t, ts.URL+"/?name=%3Cb%3E")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Hello &lt;b&gt;, $ 1,234.50", body)

	code, body = get(t, ts.URL+"/docs/page.md?name=Ann")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "<h1>Shop Ann</h1>\n", body)

	code, body = get(t, ts.URL+"/style.css?name=Ann")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "body { color: red } <# url.name #>", body)

	code, _ = get(t, ts.URL+"/missing.html")
	assert.Equal(t, http.StatusNotFound, code)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/form.html", nil)
	require.NoError(t, err)
	form := url.Values{"qty": {"3"}}
	res, err := http.PostForm(ts.URL+"/form.html", form)
	require.NoError(t, err)
	body2, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "3|3|", string(body2))

	req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body2, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "||dark", string(body2))
}

func TestServerBadRequest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "<# url.a #>")
	e, err := loadEnv("")
	require.NoError(t, err)
	srv := newServer(e, newTestDocFS(t, dir), dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	code, _ := get(t, ts.URL+"/index.html?a=%zz")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDocFS(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "one")
	fsys := newTestDocFS(t, dir)

	doc, err := fsys.ReadDocument("a.html")
	require.NoError(t, err)
	assert.Equal(t, "one", doc)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	assert.Eventually(t, func() bool {
		doc, err := fsys.ReadDocument("a.html")
		return err == nil && doc == "two"
	}, 5*time.Second, 10*time.Millisecond)

	_, err = fsys.ReadDocument("missing.html")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = fsys.ReadDocument("../a.html")
	assert.Error(t, err)

	fsys.forget("a.html")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("three"), 0o644))
	assert.Eventually(t, func() bool {
		doc, _ := fsys.ReadDocument("a.html")
		return doc == "three"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestDocFSStaleRead(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.html", "new")
	fsys := newTestDocFS(t, dir)

	// A document read before a change is not kept.
	fsys.Lock()
	gen := fsys.gen
	fsys.Unlock()
	fsys.forget("a.html")
	fsys.store("a.html", "old", gen)
	doc, err := fsys.ReadDocument("a.html")
	require.NoError(t, err)
	assert.Equal(t, "new", doc)

	fsys.Lock()
	gen = fsys.gen
	fsys.Unlock()
	fsys.store("b.html", "kept", gen)
	doc, err = fsys.ReadDocument("b.html")
	require.NoError(t, err)
	assert.Equal(t, "kept", doc)
}

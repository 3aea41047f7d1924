// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"github.com/open2b/sharptag/internal/ctxlog"
	"github.com/open2b/sharptag/stores"
)

// maxMemory is the maximum memory used to parse a multipart body.
const maxMemory = 10 << 20

func newServeCmd(global *globalFlags) *cobra.Command {
	var addr, root string
	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Serve the documents of a directory",
		Long: `Serve serves the files of a directory over HTTP. The tags of the files with
extension .html and .md are resolved against the request, and the .md files
are then converted to HTML. The other files are served as they are.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(global.config)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = e.config.Serve.Addr
			}
			if root == "" {
				root = e.config.Path(e.config.Serve.Root)
			}
			return serve(cmd.Context(), e, addr, root)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default from the configuration, or :8080)")
	cmd.Flags().StringVar(&root, "root", "", "Directory of the documents (default from the configuration, or .)")
	return cmd
}

func serve(ctx context.Context, e *env, addr, root string) error {
	logger := ctxlog.FromContext(ctx)
	fsys, err := newDocFS(root, func(err error) {
		logger.Error("watching documents", "err", err)
	})
	if err != nil {
		return err
	}
	defer fsys.Close()

	s := &http.Server{
		Addr:           addr,
		Handler:        newServer(e, fsys, root, logger).routes(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdown)
	}()

	logger.Info("web server is available", "addr", addr, "root", root)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type server struct {
	env      *env
	fsys     *docFS
	static   http.Handler
	markdown goldmark.Markdown
	logger   *slog.Logger
}

func newServer(e *env, fsys *docFS, root string, logger *slog.Logger) *server {
	return &server{
		env:      e,
		fsys:     fsys,
		static:   http.FileServer(http.Dir(root)),
		markdown: goldmark.New(),
		logger:   logger,
	}
}

func (srv *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/*", srv.serveDocument)
	r.Head("/*", srv.serveDocument)
	r.Post("/*", srv.serveDocument)
	return r
}

func (srv *server) serveDocument(w http.ResponseWriter, r *http.Request) {

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" || strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}

	ext := path.Ext(name)
	if ext != ".html" && ext != ".md" {
		if r.Method == http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		srv.static.ServeHTTP(w, r)
		return
	}

	logger := srv.logger.With("request_id", middleware.GetReqID(r.Context()), "path", name)
	ctx := ctxlog.WithLogger(r.Context(), logger)

	doc, err := srv.fsys.ReadDocument(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			http.NotFound(w, r)
			return
		}
		logger.Error("reading document", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	st, err := stores.FromRequest(r, maxMemory)
	if err != nil {
		switch {
		case errors.Is(err, stores.ErrBadRequest):
			http.Error(w, "Bad Request", http.StatusBadRequest)
		case errors.Is(err, stores.ErrRequestEntityTooLarge):
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		default:
			logger.Error("reading request", "err", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}
	base := srv.env.stores()
	st.Config = base.Config
	st.ConfigDisabled = base.ConfigDisabled
	st.Cache = base.Cache
	st.Namespace = base.Namespace
	st.Globals = base.Globals
	st.SpreadsheetIDByName = base.SpreadsheetIDByName
	st.SpreadsheetNameByID = base.SpreadsheetNameByID

	out, err := srv.env.engine.Render(ctx, doc, st)
	if err != nil {
		logger.Error("rendering document", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var b bytes.Buffer
	if ext == ".md" {
		if err := srv.markdown.Convert([]byte(out), &b); err != nil {
			logger.Error("converting markdown", "err", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	} else {
		b.WriteString(out)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", fmt.Sprint(b.Len()))
	if r.Method == http.MethodHead {
		return
	}
	if _, err := b.WriteTo(w); err != nil {
		logger.Debug("writing response", "err", err)
	}
}

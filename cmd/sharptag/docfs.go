// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// docFS reads the documents in a directory and keeps them in memory until
// they change on disk.
type docFS struct {
	root    string
	fsys    fs.FS
	watcher *fsnotify.Watcher
	errors  func(error)

	sync.Mutex
	docs map[string]string
	gen  uint64 // incremented when a document is forgotten.
}

// newDocFS returns a docFS reading the documents in root. onError is
// called with the errors of the watcher.
func newDocFS(root string, onError func(error)) (*docFS, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	d := &docFS{
		root:    root,
		fsys:    os.DirFS(root),
		watcher: watcher,
		errors:  onError,
		docs:    map[string]string{},
	}
	go d.watch()
	return d, nil
}

func (d *docFS) watch() {
	for {
		select {
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) != 0 {
				if name, err := filepath.Rel(d.root, event.Name); err == nil {
					d.forget(filepath.ToSlash(name))
				}
			}
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			if d.errors != nil {
				d.errors(err)
			}
		}
	}
}

// ReadDocument returns the document with the given name. name is a slash
// separated path relative to the root.
func (d *docFS) ReadDocument(name string) (string, error) {
	d.Lock()
	doc, ok := d.docs[name]
	gen := d.gen
	d.Unlock()
	if ok {
		return doc, nil
	}
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if err := d.watcher.Add(filepath.Join(d.root, filepath.FromSlash(name))); err != nil {
		return "", &fs.PathError{Op: "open", Path: name, Err: err}
	}
	data, err := fs.ReadFile(d.fsys, name)
	if err != nil {
		return "", err
	}
	doc = string(data)
	d.store(name, doc, gen)
	return doc, nil
}

// store keeps doc in memory unless a document has been forgotten since
// the generation gen, as doc could have been read before the change.
func (d *docFS) store(name, doc string, gen uint64) {
	d.Lock()
	if d.gen == gen {
		d.docs[name] = doc
	}
	d.Unlock()
}

// forget removes the document with the given name from memory.
func (d *docFS) forget(name string) {
	d.Lock()
	delete(d.docs, name)
	d.gen++
	d.Unlock()
}

// Close stops watching the documents.
func (d *docFS) Close() error {
	return d.watcher.Close()
}

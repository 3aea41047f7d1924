// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stores

import (
	"errors"
	"mime"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/open2b/sharptag/resolve"
)

// ErrBadRequest is the error that occurs when parsing a malformed HTTP
// request body or query string.
var ErrBadRequest = errors.New("stores: bad request")

// ErrRequestEntityTooLarge is the error that occurs when the HTTP
// request's body is too large.
var ErrRequestEntityTooLarge = errors.New("stores: request entity too large")

// FromRequest returns the stores of the HTTP request r: its cookies, its
// query parameters, the fields of its body and its system metadata. A
// multipart/form-data body is parsed with r.ParseMultipartForm with the
// given maxMemory. The names of the uploaded files are the values of their
// fields, unless a field with the same name has a value.
//
// It returns ErrBadRequest if the request is not valid and
// ErrRequestEntityTooLarge if the body is too large.
func FromRequest(r *http.Request, maxMemory int64) (*resolve.Stores, error) {
	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, ErrBadRequest
	}
	post, err := parseBody(r, maxMemory)
	if err != nil {
		return nil, err
	}
	cookies := Map{}
	for _, c := range r.Cookies() {
		if _, ok := cookies[c.Name]; !ok {
			cookies[c.Name] = c.Value
		}
	}
	return &resolve.Stores{
		Cookies: cookies,
		Post:    post,
		Query:   Values(query),
		System:  resolve.NewSystem(r, time.Now()),
	}, nil
}

// parseBody parses the body of r and returns its fields.
func parseBody(r *http.Request, maxMemory int64) (Values, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			_, escape := err.(url.EscapeError)
			return nil, formError(r, err, escape || err.Error() == "invalid semicolon separator in query")
		}
		return Values(r.PostForm), nil
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, formError(r, err, isMultipartFormError(err))
	}
	post := Values{}
	for field, vs := range r.MultipartForm.Value {
		post[field] = vs
	}
	for field, fhs := range r.MultipartForm.File {
		if _, ok := post[field]; ok {
			continue
		}
		names := make([]string, len(fhs))
		for i, fh := range fhs {
			names[i] = fh.Filename
		}
		post[field] = names
	}
	return post, nil
}

// formError returns the error to return for the parsing error err. bad
// reports whether err is due to a malformed request.
func formError(r *http.Request, err error, bad bool) error {
	if bad {
		return ErrBadRequest
	}
	if err.Error() == "http: POST too large" || errors.As(err, new(*http.MaxBytesError)) {
		return ErrRequestEntityTooLarge
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if _, _, e := mime.ParseMediaType(ct); e != nil {
			return ErrBadRequest
		}
	}
	return errors.New("stores: " + err.Error())
}

// isMultipartFormError reports whether err is an error due to an invalid
// multipart message returned from the (*http.Request).ParseMultipartForm
// method.
func isMultipartFormError(err error) bool {
	if err == http.ErrMissingBoundary {
		return true
	}
	if _, ok := err.(url.EscapeError); ok {
		return true
	}
	s := err.Error()
	if s == "invalid semicolon separator in query" || s == "multipart: boundary is empty" {
		return true
	}
	if strings.HasPrefix(s, "multipart: NextPart: ") {
		return true
	}
	if strings.HasPrefix(s, "multipart: unexpected line in Next(): ") {
		return true
	}
	if err, ok := err.(textproto.ProtocolError); ok {
		s = err.Error()
		if strings.HasPrefix(s, "malformed MIME header initial line: ") {
			return true
		}
		if strings.HasPrefix(s, "malformed MIME header line: ") {
			return true
		}
	}
	return false
}

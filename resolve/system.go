// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// System is the system metadata of a request, read by the "system.name"
// tags. Its keys are lower case.
type System map[string]string

// Lookup implements the Store interface.
func (s System) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// NewSystem returns the system metadata of the request r received at time
// now. r can be nil, in this case only the time metadata is set.
func NewSystem(r *http.Request, now time.Time) System {
	s := System{
		"timestamp":     strconv.FormatInt(now.Unix(), 10),
		"microtime":     strconv.FormatFloat(float64(now.UnixMicro())/1e6, 'f', 6, 64),
		"date":          now.Format("2006-01-02"),
		"time":          now.Format("15:04:05"),
		"datetime":      now.Format("2006-01-02 15:04:05"),
		"iso8601":       now.Format(time.RFC3339),
		"year":          strconv.Itoa(now.Year()),
		"month":         now.Format("01"),
		"month_name":    now.Month().String(),
		"month_short":   now.Format("Jan"),
		"day":           now.Format("02"),
		"weekday":       now.Weekday().String(),
		"weekday_short": now.Format("Mon"),
		"hour":          now.Format("15"),
		"minute":        now.Format("04"),
		"second":        now.Format("05"),
	}
	s["timestamp_float"] = s["microtime"]
	if r == nil {
		return s
	}
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	s["host"] = host
	s["domain"] = hostname(host)
	s["http_host"] = "http://" + host
	s["https_host"] = "https://" + host
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if r.URL != nil {
		s["path"] = r.URL.Path
		s["query"] = r.URL.RawQuery
		s["url"] = scheme + "://" + host + r.URL.RequestURI()
	}
	if ref := r.Referer(); ref != "" {
		s["referrer"] = ref
		if u, err := url.Parse(ref); err == nil {
			s["referrer_domain"] = u.Hostname()
			s["referrer_path"] = u.Path
			s["referrer_query"] = u.RawQuery
		}
	}
	s["ip"] = clientIP(r)
	s["method"] = r.Method
	s["user_agent"] = r.UserAgent()
	return s
}

// hostname returns host without the port.
func hostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// clientIP returns the IP address of the client that sent r. The first
// address of the X-Forwarded-For header takes precedence over the remote
// address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(ip)
	}
	return hostname(r.RemoteAddr)
}

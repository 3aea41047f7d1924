// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Fatal("expecting the default logger")
	}
	var buf bytes.Buffer
	logger := New(&buf, false)
	ctx := WithLogger(context.Background(), logger)
	if got := FromContext(ctx); got != logger {
		t.Fatal("expecting the logger of the context")
	}
	FromContext(ctx).Debug("hidden")
	FromContext(ctx).Info("shown", "name", "total")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("unexpected debug record in %q", out)
	}
	if !strings.Contains(out, "msg=shown name=total") {
		t.Errorf("missing info record in %q", out)
	}
}

func TestNewDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "level=DEBUG msg=visible") {
		t.Fatalf("missing debug record in %q", buf.String())
	}
}

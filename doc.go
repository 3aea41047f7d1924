// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sharptag resolves the tags of a document.
//
// A tag is an expression between the delimiters "<#" and "#>". The
// expression is a name, optionally followed by contexts that transform its
// value:
//
//	<p>Hello <# session.user.name as html #></p>
//	<p>Total: <# order.total as number as dollars #></p>
//	<p>Due: <# order.date as timestamp +30 days as date "MM DD, Y" #></p>
//
// The name is resolved against the stores of a resolve.Stores value: the
// session, the cookies, the request fields and query parameters, the
// configuration, the cache and the globals registered for the request.
// A bracketed tag, as <#[ name ]#>, is always resolved against the stores,
// and <# system.name #> reads the system metadata of the request.
//
// A document is rendered with the Render method of an Engine:
//
//	e := sharptag.New(nil)
//	out, err := e.Render(ctx, doc, &resolve.Stores{
//	    Session: stores.Map{"user.name": "<b>Bob</b>"},
//	})
//
// Names that cannot be resolved are replaced with the empty string and
// values that a context cannot transform are left unchanged. Render
// returns an error only if a store returns an error.
//
// # Rows
//
// RenderRows and RenderTable render a document once for each row of a
// spreadsheet or of a table. The columns of the row are resolved before
// the stores: with a spreadsheet row "<# row.B #>" and "<# row.price #>"
// are the column B and the column with header "Price", with a table row
// "<# row.id #>" is the column "uuid".
package sharptag

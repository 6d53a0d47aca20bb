// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package query defines the relational query IR: From, Where, Select,
// OrderBy, GroupBy, Having, Join, Distinct, Limit, set operations,
// explicit subquery materialisation, scalar queries, and the
// INSERT/UPDATE/DELETE statements. Nodes are immutable values built
// bottom-up; a chaining call (Where, Select, ...) always returns a new
// node that references its source rather than mutating it (§3.3).
package query

import "github.com/sqltree/sqltree/expr"

// Field is one element of a Query's tuple shape: an optional
// user-supplied name plus the expression that produces it.
type Field struct {
	Name string // "" if the caller did not name this projection
	Expr expr.Node
}

// Shape is the ordered tuple a Query exposes to its consumers.
type Shape []Field

// Query is the common interface satisfied by every query-IR node.
type Query interface {
	// Shape returns the ordered (name, expr) tuple this query
	// produces.
	Shape() Shape
	isQuery()
}

// sourceOf is satisfied by every Query variant that wraps exactly one
// child query. The normaliser and compiler driver do not use it; they
// walk the chain with type switches.
type sourceOf interface {
	source() Query
}

// Statement is the common interface for INSERT/UPDATE/DELETE, which
// have no output shape.
type Statement interface {
	isStatement()
}

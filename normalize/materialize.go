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

package normalize

import (
	"github.com/sqltree/sqltree/expr"
	"github.com/sqltree/sqltree/query"
)

// joinBasePassthrough reports whether q may sit directly under a Join
// as Base without forcing materialisation. A join operand must be a
// clean table reference -- a real table, a previously-fused join
// chain, or an already-materialised derived table -- never a bare
// Where/Select/GroupBy/etc. mid-expression (§4.2 rule 4, bullet 2).
func joinBasePassthrough(q query.Query) bool {
	switch q.(type) {
	case *query.FromTable, *query.Join, *query.Subquery:
		return true
	default:
		return false
	}
}

// clauseSourcePassthrough reports whether q may sit directly under a
// Where/Select/OrderBy, contributing to the same SELECT being built, rather
// than requiring an explicit Subquery boundary. Select, Limit and
// SetOp are always terminal: each represents a complete, independently
// shaped statement, so anything built on top of one must see it as a
// derived table (§4.2 rule 4, bullets 1 and 4).
func clauseSourcePassthrough(q query.Query) bool {
	switch q.(type) {
	case *query.Select, *query.Limit, *query.SetOp:
		return false
	default:
		return true
	}
}

// materialize wraps inner in a Subquery and returns the wrapped node
// together with a rewriter that retargets expressions written against
// inner's raw output (e.g. the Column/Alias/computed-expression nodes
// of inner.Shape()) to Alias nodes bound to the new subquery handle.
//
// Outer references are retargeted by structural equality against
// inner's pre-wrap shape, not by identity tracking: a node in the
// predicate/projection being rewritten is replaced wherever it is
// Equals to one of inner's shape entries. This is sufficient for the
// common case (the outer clause references a source column or a
// previously-named projection verbatim) and is recorded as a resolved
// Open Question in DESIGN.md.
func materialize(inner query.Query) (*query.Subquery, func(expr.Node) expr.Node) {
	shape := inner.Shape()
	sub := query.Materialize(inner)
	handle := sub.Handle()
	rewriter := &aliasRewriter{shape: shape, handle: handle}
	apply := func(n expr.Node) expr.Node {
		if n == nil {
			return nil
		}
		return expr.Rewrite(rewriter, n)
	}
	return sub, apply
}

// aliasRewriter retargets any expression structurally equal to one of
// shape's entries to the corresponding Alias column of handle.
type aliasRewriter struct {
	shape  query.Shape
	handle *expr.QueryHandle
}

func (a *aliasRewriter) Walk(expr.Node) expr.Rewriter { return a }

func (a *aliasRewriter) Rewrite(n expr.Node) expr.Node {
	for i, f := range a.shape {
		if f.Expr.Equals(n) {
			return a.handle.Col(i, n.Kind())
		}
	}
	return n
}

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

// Normalize applies the shallow local rewrites of §4.2 to q's own
// node, without descending into whatever Source/Base ends up
// underneath it. The compiler driver calls Normalize again each time
// it descends one level, so repeated shallow application achieves a
// full top-down normalisation of the tree (§4.3 step 1).
//
// Normalize(Normalize(q)) == Normalize(q): join- and where-fusion
// loop until no further fusion is possible, and materialisation is
// only introduced where the immediate child is already a terminal
// shape, so a second application is always a no-op.
func Normalize(q query.Query) query.Query {
	switch n := q.(type) {
	case *query.Where:
		return normalizeWhere(n)
	case *query.Join:
		return normalizeJoin(n)
	case *query.Select:
		return normalizeSelect(n)
	case *query.GroupBy:
		return normalizeGroupBy(n)
	case *query.Distinct:
		return normalizeDistinct(n)
	case *query.OrderBy:
		return normalizeOrderBy(n)
	default:
		return q
	}
}

func normalizeWhere(w *query.Where) query.Query {
	fused := fuseWhere(w)
	if clauseSourcePassthrough(fused.Source) {
		return fused
	}
	sub, apply := materialize(fused.Source)
	return query.Filter(sub, apply(fused.Predicate))
}

func normalizeJoin(j *query.Join) query.Query {
	fused := fuseJoin(j)
	if joinBasePassthrough(fused.Base) {
		return fused
	}
	sub, apply := materialize(fused.Base)
	edges := make([]query.JoinEdge, len(fused.Edges))
	for i, e := range fused.Edges {
		e.OuterKey = apply(e.OuterKey)
		edges[i] = e
	}
	return &query.Join{Base: sub, Edges: edges}
}

func normalizeSelect(s *query.Select) query.Query {
	if clauseSourcePassthrough(s.Source) {
		return s
	}
	sub, apply := materialize(s.Source)
	return query.Project(sub, rewriteAll(apply, s.Projections), s.Names)
}

// normalizeGroupBy forces GroupBy's Source down to a clean row source
// (table, join chain, filtered rows, or an already-materialised
// derived table): grouping a Select's output, another GroupBy, or a
// terminal shape always requires an explicit derived table.
func normalizeGroupBy(g *query.GroupBy) query.Query {
	switch g.Source.(type) {
	case *query.FromTable, *query.Join, *query.Where, *query.Subquery:
		return g
	default:
		sub, apply := materialize(g.Source)
		return query.Group(sub, rewriteAll(apply, g.Keys)...)
	}
}

// normalizeOrderBy allows ORDER BY to decorate any non-terminal
// source; ordering the output of a Limit or SetOp requires wrapping,
// since LIMIT/OFFSET and set operations are always the final clause
// of their own statement.
func normalizeOrderBy(o *query.OrderBy) query.Query {
	if clauseSourcePassthrough(o.Source) {
		return o
	}
	sub, apply := materialize(o.Source)
	keys := make([]query.OrderKey, len(o.Keys))
	for i, k := range o.Keys {
		keys[i] = query.OrderKey{Expr: apply(k.Expr), Dir: k.Dir}
	}
	return query.SortBy(sub, keys...)
}

// normalizeDistinct ensures Distinct always sits directly on a Select,
// per that type's documented contract. When it doesn't, an identity
// projection is inserted -- not a Subquery boundary, since this still
// belongs to the same statement and only gives the driver something
// to hang SELECT DISTINCT off of.
func normalizeDistinct(d *query.Distinct) query.Query {
	if _, ok := d.Source.(*query.Select); ok {
		return d
	}
	shape := d.Source.Shape()
	projections := make([]expr.Node, len(shape))
	names := make([]string, len(shape))
	for i, f := range shape {
		projections[i] = f.Expr
		names[i] = f.Name
	}
	return &query.Distinct{Source: query.Project(d.Source, projections, names)}
}

// rewriteAll applies apply to every expression in ns, returning a new
// slice (ns is never mutated in place, per the IR's immutability
// rule).
func rewriteAll(apply func(expr.Node) expr.Node, ns []expr.Node) []expr.Node {
	out := make([]expr.Node, len(ns))
	for i, n := range ns {
		out[i] = apply(n)
	}
	return out
}

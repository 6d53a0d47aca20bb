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

// Package normalize implements the §4.2 local rewrite rules: where-
// fusion, join-fusion, and subquery materialisation. The rules are
// confluent and terminating (each pass strictly shrinks or leaves
// unchanged the number of Where/Join levels), so Normalize can be
// applied repeatedly with no further effect -- see TestNormalizeIdempotent
// and the "normalise(normalise(q)) = normalise(q)" property (§8).
//
// Modelled on the teacher's plan/pir package: a fixed sequence of
// small, single-purpose passes (plan/pir/filterelim.go,
// plan/pir/optimize.go) rather than one monolithic rewrite function.
package normalize

import (
	"golang.org/x/exp/slices"

	"github.com/sqltree/sqltree/expr"
	"github.com/sqltree/sqltree/query"
)

// fuseWhere implements §4.2 rule 1: Where(Where(q, p1), p2) -> Where(q,
// p1 AND p2), applied transitively.
func fuseWhere(w *query.Where) *query.Where {
	pred := w.Predicate
	src := w.Source
	for {
		inner, ok := src.(*query.Where)
		if !ok {
			break
		}
		pred = expr.NewBinary(expr.And, inner.Predicate, pred)
		src = inner.Source
	}
	return query.Filter(src, pred)
}

// fuseJoin implements §4.2 rule 2: a Join whose Base is itself a plain
// (unmaterialised) Join collapses into one N-ary join, preserving
// alias order (base, T1, T2, ...). Because query.Join.Base only ever
// points directly at another *query.Join when the builder chained
// .Join() calls with no intervening clause, "Base is *Join" already
// implies "the outer Join's projection is the default row tuple" --
// any intervening Select/Where/OrderBy/GroupBy would have produced a
// different wrapper type in Base instead.
func fuseJoin(j *query.Join) *query.Join {
	edges := j.Edges
	base := j.Base
	for {
		inner, ok := base.(*query.Join)
		if !ok {
			break
		}
		merged := slices.Clone(inner.Edges)
		merged = append(merged, edges...)
		edges = merged
		base = inner.Base
	}
	return &query.Join{Base: base, Edges: edges}
}

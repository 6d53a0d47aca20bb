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

package query

import "github.com/sqltree/sqltree/expr"

// Subquery is an explicit materialisation boundary (§3.2, §4.2 rule
// 4): the outer query sees Inner's shape under a fresh alias rather
// than seeing Inner's own tables. The normaliser introduces Subquery
// nodes implicitly wherever a clause can't legally fuse into its
// source; Subquery can also be constructed directly to force
// materialisation explicitly.
type Subquery struct {
	Inner  Query
	handle *expr.QueryHandle
}

// Materialize wraps inner as an explicit derived table.
func Materialize(inner Query) *Subquery {
	return &Subquery{Inner: inner, handle: expr.NewQueryHandle("subquery")}
}

// Handle returns the abstract occurrence identity that Alias nodes
// referencing this subquery's projections are bound to.
func (s *Subquery) Handle() *expr.QueryHandle { return s.handle }

func (s *Subquery) Shape() Shape {
	inner := s.Inner.Shape()
	out := make(Shape, len(inner))
	for i, f := range inner {
		out[i] = Field{Name: f.Name, Expr: s.handle.Col(i, f.Expr.Kind())}
	}
	return out
}

func (s *Subquery) isQuery()      {}
func (s *Subquery) source() Query { return s.Inner }

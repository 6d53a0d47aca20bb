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

// ScalarQuery marks Inner as producing exactly one row and one column,
// so it can be compiled both as a top-level object (ToSql) and
// embedded in an expression (expr.ScalarQueryExpr, expr.InSubquery).
// Nothing is checked here. The compiler checks only that Inner
// produces exactly one column, and only when the scalar query is
// embedded in an expression; the row count and the top operator are
// not checked.
type ScalarQuery struct {
	Inner Query
}

// Scalar wraps inner as a scalar query.
func Scalar(inner Query) *ScalarQuery {
	return &ScalarQuery{Inner: inner}
}

func (s *ScalarQuery) Shape() Shape   { return s.Inner.Shape() }
func (s *ScalarQuery) isQuery()       {}
func (s *ScalarQuery) source() Query  { return s.Inner }

// Debug implements expr.SubqueryNode.
func (s *ScalarQuery) Debug() string { return "scalar query" }

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

package expr

// ScalarQueryExpr embeds a scalar query (one row, one column) in
// expression position. Per §4.2 rule 5, it is emitted exactly as its
// compiled SQL wrapped in parentheses -- no rewrite beyond that.
type ScalarQueryExpr struct {
	Query SubqueryNode
	K     Kind
}

func NewScalarQueryExpr(q SubqueryNode, k Kind) *ScalarQueryExpr {
	return &ScalarQueryExpr{Query: q, K: k}
}

func (s *ScalarQueryExpr) Kind() Kind { return s.K }

func (s *ScalarQueryExpr) Equals(o Node) bool {
	os, ok := o.(*ScalarQueryExpr)
	return ok && os.Query == s.Query
}

func (s *ScalarQueryExpr) walk(v Visitor) {}

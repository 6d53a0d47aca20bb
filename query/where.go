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

// Where filters Source by Predicate. Shape passes through unchanged.
type Where struct {
	Source    Query
	Predicate expr.Node
}

// Filter wraps source in a Where. Consecutive Where calls are fused by
// the normaliser (§4.2 rule 1), not here -- this constructor always
// produces a literal Where(source, predicate) node.
func Filter(source Query, predicate expr.Node) *Where {
	return &Where{Source: source, Predicate: predicate}
}

func (w *Where) Shape() Shape   { return w.Source.Shape() }
func (w *Where) isQuery()       {}
func (w *Where) source() Query  { return w.Source }

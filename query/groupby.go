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

// GroupBy marks Source as grouped by Keys. Shape is unchanged until a
// following Select projects keys and/or aggregates.
type GroupBy struct {
	Source Query
	Keys   []expr.Node
}

func Group(source Query, keys ...expr.Node) *GroupBy {
	return &GroupBy{Source: source, Keys: keys}
}

func (g *GroupBy) Shape() Shape   { return g.Source.Shape() }
func (g *GroupBy) isQuery()       {}
func (g *GroupBy) source() Query  { return g.Source }

// Having filters a grouped source by Predicate, which may reference
// aggregates.
type Having struct {
	Source    *GroupBy
	Predicate expr.Node
}

func HavingFilter(source *GroupBy, predicate expr.Node) *Having {
	return &Having{Source: source, Predicate: predicate}
}

func (h *Having) Shape() Shape   { return h.Source.Shape() }
func (h *Having) isQuery()       {}
func (h *Having) source() Query  { return h.Source }

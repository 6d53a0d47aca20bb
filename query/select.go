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

// Select replaces Source's shape with Projections, optionally named by
// the parallel Names slice (Names[i] == "" means unnamed -- the
// compiler's projection-alias policy, §4.5, picks the AS alias).
type Select struct {
	Source      Query
	Projections []expr.Node
	Names       []string
}

// Project wraps source in a Select. len(names) must equal
// len(projections); pass "" for an unnamed projection.
func Project(source Query, projections []expr.Node, names []string) *Select {
	if names == nil {
		names = make([]string, len(projections))
	}
	return &Select{Source: source, Projections: projections, Names: names}
}

func (s *Select) Shape() Shape {
	out := make(Shape, len(s.Projections))
	for i, p := range s.Projections {
		out[i] = Field{Name: s.Names[i], Expr: p}
	}
	return out
}

func (s *Select) isQuery()      {}
func (s *Select) source() Query { return s.Source }

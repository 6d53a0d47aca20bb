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

import (
	"github.com/sqltree/sqltree/expr"
	"github.com/sqltree/sqltree/schema"
)

// JoinKind is the kind of one join edge.
type JoinKind int

const (
	Inner JoinKind = iota
	Left
)

// JoinEdge is one table joined onto the running left-deep chain.
type JoinEdge struct {
	Kind     JoinKind
	Table    *schema.TableMeta
	OuterKey expr.Node // evaluated against the chain built so far
	InnerKey expr.Node // evaluated against Table
}

// Join is an N-ary left-deep join: Base, then Edges in source order.
// A single user-level ".Join()" call always builds Join{Base: prior,
// Edges: []JoinEdge{edge}}; the normaliser's join-fusion rule (§4.2
// rule 2) flattens a chain of such nodes into one Join with multiple
// Edges, provided no intervening clause forced materialisation.
//
// Join's default shape is the natural row tuple: Base's shape followed
// by each edge's table's columns, in order (spec.md §4.2 rule 2's
// "default row tuple"). Once a Select sits above the join, that Select
// replaces the shape; Join itself never stores an independent
// projection list.
type Join struct {
	Base  Query
	Edges []JoinEdge
}

// JoinOn joins table onto base using kind, matching outerKey (against
// base) to innerKey (against table).
func JoinOn(base Query, kind JoinKind, table *schema.TableMeta, outerKey, innerKey expr.Node) *Join {
	return &Join{Base: base, Edges: []JoinEdge{{Kind: kind, Table: table, OuterKey: outerKey, InnerKey: innerKey}}}
}

func (j *Join) Shape() Shape {
	s := append(Shape{}, j.Base.Shape()...)
	for _, e := range j.Edges {
		for _, c := range e.Table.Columns() {
			s = append(s, Field{Name: c.Name, Expr: e.Table.Col(c.Name)})
		}
	}
	return s
}

func (j *Join) isQuery()      {}
func (j *Join) source() Query { return j.Base }

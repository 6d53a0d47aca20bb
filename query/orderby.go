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

// Direction is an ORDER BY key's sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// OrderKey is one ORDER BY key.
type OrderKey struct {
	Expr expr.Node
	Dir  Direction
}

// OrderBy sorts Source by Keys; shape is unchanged.
type OrderBy struct {
	Source Query
	Keys   []OrderKey
}

func SortBy(source Query, keys ...OrderKey) *OrderBy {
	return &OrderBy{Source: source, Keys: keys}
}

func (o *OrderBy) Shape() Shape   { return o.Source.Shape() }
func (o *OrderBy) isQuery()       {}
func (o *OrderBy) source() Query  { return o.Source }

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

import "github.com/sqltree/sqltree/schema"

// FromTable is the base of a query: all columns of one table
// occurrence.
type FromTable struct {
	Table *schema.TableMeta
}

// From starts a query over table.
func From(table *schema.TableMeta) *FromTable {
	return &FromTable{Table: table}
}

func (f *FromTable) Shape() Shape {
	cols := f.Table.Columns()
	s := make(Shape, len(cols))
	for i, c := range cols {
		s[i] = Field{Name: c.Name, Expr: f.Table.Col(c.Name)}
	}
	return s
}

func (f *FromTable) isQuery() {}

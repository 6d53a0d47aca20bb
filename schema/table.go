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

// Package schema holds the caller-declared TableMeta contract (§6.2):
// the table/column schema collaborator consumed by package query. The
// fluent builder surface that normally generates TableMeta values from
// a struct tag DSL is out of scope (spec.md §1); callers construct
// TableMeta directly, or generate it with their own tooling.
package schema

import "github.com/sqltree/sqltree/expr"

// ColumnDesc is one (name, kind) descriptor of a table's schema.
type ColumnDesc struct {
	Name string
	Kind expr.Kind
}

// TableMeta describes one occurrence of a table: its SQL name and its
// ordered columns. Each TableMeta value is a distinct table
// occurrence (see expr.TableHandle) -- a self-join is expressed by
// constructing two TableMeta values for the same table name.
type TableMeta struct {
	handle  *expr.TableHandle
	name    string
	columns []ColumnDesc
}

// New declares a table occurrence named name with the given columns,
// in FROM-clause order.
func New(name string, columns ...ColumnDesc) *TableMeta {
	return &TableMeta{
		handle:  expr.NewTableHandle(name),
		name:    name,
		columns: columns,
	}
}

// Name returns the table's SQL name, as it appears verbatim in FROM.
func (t *TableMeta) Name() string { return t.name }

// Columns returns the table's ordered column descriptors.
func (t *TableMeta) Columns() []ColumnDesc { return t.columns }

// Handle returns the abstract occurrence identity the compiler's scope
// stack resolves against.
func (t *TableMeta) Handle() *expr.TableHandle { return t.handle }

// Col returns a Column node bound to this occurrence. It panics if
// name is not one of the table's declared columns -- this is a schema
// authoring error, not a compile-time query error, and TableMeta
// values are meant to be built once at package init time.
func (t *TableMeta) Col(name string) *expr.Column {
	for _, c := range t.columns {
		if c.Name == name {
			return t.handle.Col(name, c.Kind)
		}
	}
	panic("schema: table " + t.name + " has no column " + name)
}

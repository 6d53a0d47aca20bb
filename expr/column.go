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

// TableHandle is the abstract identity of one occurrence of a table in
// a FROM/JOIN clause. Column references are bound to a TableHandle, not
// to a table name, so that a self-join (the same table occurring twice)
// is represented by two distinct handles: the compiler's scope stack
// resolves a Column by walking handle identity, not by name.
//
// schema.TableMeta embeds a *TableHandle; every call to a table's
// column accessor returns a Column bound to that instance's handle.
type TableHandle struct {
	// TableName is the table's SQL name, kept only for diagnostics
	// (unresolved-column error messages).
	TableName string
}

// NewTableHandle creates a fresh table occurrence identity.
func NewTableHandle(tableName string) *TableHandle {
	return &TableHandle{TableName: tableName}
}

// Col builds a Column bound to h.
func (h *TableHandle) Col(name string, k Kind) *Column {
	return &Column{Table: h, Name: name, K: k}
}

// Column references a named column of a concrete table occurrence.
type Column struct {
	Table *TableHandle
	Name  string
	K     Kind
}

func (c *Column) Kind() Kind { return c.K }

func (c *Column) Equals(o Node) bool {
	oc, ok := o.(*Column)
	return ok && oc.Table == c.Table && oc.Name == c.Name && oc.K == c.K
}

func (c *Column) walk(v Visitor) {}

// QueryHandle is the abstract identity of one materialised subquery
// occurrence, analogous to TableHandle but for Alias references into a
// subquery's projected shape rather than a base table's columns.
type QueryHandle struct {
	// DebugName is a human-readable label, kept for diagnostics only.
	DebugName string
}

// NewQueryHandle creates a fresh subquery occurrence identity.
func NewQueryHandle(debugName string) *QueryHandle {
	return &QueryHandle{DebugName: debugName}
}

// Col builds an Alias referencing the projection at index idx.
func (h *QueryHandle) Col(index int, k Kind) *Alias {
	return &Alias{Query: h, Index: index, K: k}
}

// Alias references a projected column of a subquery occurrence by
// positional index into that subquery's shape.
type Alias struct {
	Query *QueryHandle
	Index int
	K     Kind
}

func (a *Alias) Kind() Kind { return a.K }

func (a *Alias) Equals(o Node) bool {
	oa, ok := o.(*Alias)
	return ok && oa.Query == a.Query && oa.Index == a.Index && oa.K == a.K
}

func (a *Alias) walk(v Visitor) {}

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

// Assignment is one `col = expr` pair, used by Insert's column list
// and Update's SET list.
type Assignment struct {
	Column string
	Value  expr.Node
}

// Insert emits INSERT INTO Table (cols...) VALUES (exprs...).
type Insert struct {
	Table  *schema.TableMeta
	Values []Assignment
}

func NewInsert(table *schema.TableMeta, values ...Assignment) *Insert {
	return &Insert{Table: table, Values: values}
}

func (i *Insert) isStatement() {}

// Update emits UPDATE Table SET col = expr, ... [WHERE Predicate].
// Predicate is nil for an unconditional update.
type Update struct {
	Table     *schema.TableMeta
	Sets      []Assignment
	Predicate expr.Node
}

func NewUpdate(table *schema.TableMeta, sets ...Assignment) *Update {
	return &Update{Table: table, Sets: sets}
}

func (u *Update) Where(predicate expr.Node) *Update {
	return &Update{Table: u.Table, Sets: u.Sets, Predicate: predicate}
}

func (u *Update) isStatement() {}

// Delete emits DELETE FROM Table [WHERE Predicate]. Predicate is nil
// for an unconditional delete.
type Delete struct {
	Table     *schema.TableMeta
	Predicate expr.Node
}

func NewDelete(table *schema.TableMeta) *Delete {
	return &Delete{Table: table}
}

func (d *Delete) Where(predicate expr.Node) *Delete {
	return &Delete{Table: d.Table, Predicate: predicate}
}

func (d *Delete) isStatement() {}

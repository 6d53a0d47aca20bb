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

package compiler

import (
	"fmt"

	"github.com/sqltree/sqltree/dialect"
	"github.com/sqltree/sqltree/query"
)

// ToSql compiles q -- a query.Query (including query.ScalarQuery and
// query.SetOp) or a query.Statement (Insert/Update/Delete) -- against
// the named dialect. Each call builds a fresh Context (§5): nothing is
// cached or shared across calls, so alias and parameter numbering is
// deterministic and reproducible for identical input (§8).
func ToSql(q any, name dialect.Name, opts ...Option) (string, map[string]Binding, error) {
	ctx := newContext(dialect.For(name), opts...)
	switch v := q.(type) {
	case query.Statement:
		sql, err := compileStatement(ctx, v)
		if err != nil {
			return "", nil, err
		}
		return sql, ctx.Params(), nil
	case query.Query:
		sql, _, _, err := compileQuery(ctx, v)
		if err != nil {
			return "", nil, err
		}
		return sql, ctx.Params(), nil
	default:
		return "", nil, fmt.Errorf("compiler: %T is neither a query.Query nor a query.Statement", q)
	}
}

// ToSqlServer compiles q for T-SQL.
func ToSqlServer(q any, opts ...Option) (string, map[string]Binding, error) {
	return ToSql(q, dialect.SqlServer, opts...)
}

// ToSqlite compiles q for SQLite.
func ToSqlite(q any, opts ...Option) (string, map[string]Binding, error) {
	return ToSql(q, dialect.SQLite, opts...)
}

// ToPostgreSql compiles q for PostgreSQL. Inline boolean literals never
// reach the parameter map (§6.4) -- BindParam is only called for
// values a dialect actually binds.
func ToPostgreSql(q any, opts ...Option) (string, map[string]Binding, error) {
	return ToSql(q, dialect.PostgreSQL, opts...)
}

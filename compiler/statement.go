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
	"strings"

	"github.com/sqltree/sqltree/query"
)

// compileStatement emits INSERT/UPDATE/DELETE (C7), reusing the same
// parameter allocator as query compilation.
func compileStatement(ctx *Context, stmt query.Statement) (string, error) {
	switch s := stmt.(type) {
	case *query.Insert:
		return compileInsert(ctx, s)
	case *query.Update:
		return compileUpdate(ctx, s)
	case *query.Delete:
		return compileDelete(ctx, s)
	default:
		return "", fmt.Errorf("compiler: unsupported statement %T", stmt)
	}
}

// compileInsert's Values carry no table-column references (a row's own
// column values can't reference its other columns in this IR), so its
// Assignment.Value expressions are compiled with no table scope pushed.
func compileInsert(ctx *Context, ins *query.Insert) (string, error) {
	ctx.pushPath("Insert")
	defer ctx.popPath()

	cols := make([]string, len(ins.Values))
	vals := make([]string, len(ins.Values))
	for i, a := range ins.Values {
		cols[i] = a.Column
		s, err := compileExpr(ctx, a.Value)
		if err != nil {
			return "", err
		}
		vals[i] = s
	}
	kw := ctx.indent()
	return fmt.Sprintf("%sINSERT INTO %s (%s)\n%sVALUES (%s)",
		kw, ins.Table.Name(), strings.Join(cols, ", "), kw, strings.Join(vals, ", ")), nil
}

// compileUpdate pushes the target table under an empty alias, so its
// SET/WHERE expressions reference columns unqualified ("Age = Age + 1"),
// matching how a single-table UPDATE/DELETE is written by hand.
func compileUpdate(ctx *Context, u *query.Update) (string, error) {
	ctx.pushPath("Update")
	defer ctx.popPath()
	ctx.PushTableScope(u.Table.Handle(), "")
	defer ctx.PopScopes(1)

	// WHERE is compiled before SET, source-to-outer (matching
	// compileSelect's WHERE-before-projections ordering, §4.1), so
	// parameter numbers follow the order the caller chained .Where()
	// onto the update rather than the order SET is written out in.
	var wsql string
	if u.Predicate != nil {
		s, err := compileExpr(ctx, u.Predicate)
		if err != nil {
			return "", err
		}
		wsql = s
	}

	sets := make([]string, len(u.Sets))
	for i, a := range u.Sets {
		s, err := compileChild(ctx, a.Value)
		if err != nil {
			return "", err
		}
		sets[i] = a.Column + " = " + s
	}

	kw := ctx.indent()
	body := ctx.bodyIndent()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%sUPDATE %s SET\n", kw, u.Table.Name()))
	for i, s := range sets {
		sep := ","
		if i == len(sets)-1 {
			sep = ""
		}
		b.WriteString(body + s + sep + "\n")
	}
	if u.Predicate != nil {
		b.WriteString(kw + "WHERE\n" + body + wsql + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func compileDelete(ctx *Context, d *query.Delete) (string, error) {
	ctx.pushPath("Delete")
	defer ctx.popPath()
	ctx.PushTableScope(d.Table.Handle(), "")
	defer ctx.PopScopes(1)

	kw := ctx.indent()
	body := ctx.bodyIndent()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%sDELETE FROM %s\n", kw, d.Table.Name()))
	if d.Predicate != nil {
		wsql, err := compileExpr(ctx, d.Predicate)
		if err != nil {
			return "", err
		}
		b.WriteString(kw + "WHERE\n" + body + wsql + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

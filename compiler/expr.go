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

	"github.com/sqltree/sqltree/dialect"
	"github.com/sqltree/sqltree/expr"
	"github.com/sqltree/sqltree/query"
	"github.com/sqltree/sqltree/sqlerr"
)

// compileExpr renders n without any self-parenthesisation; callers at
// a position where a Binary child would be ambiguous use compileChild
// instead (§4.4's parenthesisation policy).
func compileExpr(ctx *Context, n expr.Node) (string, error) {
	switch v := n.(type) {
	case *expr.Const:
		return compileConst(ctx, v)
	case *expr.Null:
		return compileNull(ctx, v)
	case *expr.Param:
		return ctx.BindParam(v.Name, nil, v.K)
	case *expr.Column:
		return ctx.ResolveColumn(v)
	case *expr.Alias:
		return ctx.ResolveAlias(v)
	case *expr.Binary:
		return compileBinary(ctx, v)
	case *expr.Unary:
		return compileUnary(ctx, v)
	case *expr.Case:
		return compileCase(ctx, v)
	case *expr.In:
		return compileIn(ctx, v)
	case *expr.InSubquery:
		return compileInSubquery(ctx, v)
	case *expr.Like:
		return compileLike(ctx, v)
	case *expr.IsNull:
		return compileIsNull(ctx, v)
	case *expr.Aggregate:
		return compileAggregate(ctx, v)
	case *expr.FuncString:
		return compileFuncString(ctx, v)
	case *expr.FuncMath:
		return compileFuncMath(ctx, v)
	case *expr.FuncDate:
		return compileFuncDate(ctx, v)
	case *expr.ScalarQueryExpr:
		return compileScalarQueryExpr(ctx, v)
	default:
		return "", sqlerr.New(sqlerr.ErrKindMismatch, ctx.path, fmt.Sprintf("unsupported expression node %T", n))
	}
}

// compileChild renders n as a sub-expression of another Binary or as a
// SELECT projection's top-level expression: a *expr.Binary child is
// always wrapped in parentheses in both positions, conservatively,
// rather than only when precedence actually requires it (§4.4, per the
// S1/S3/S6 fixtures -- including Concat, which SQLite/PostgreSQL
// render as the infix "||" and so is just as ambiguous unwrapped as
// any other binary operator).
func compileChild(ctx *Context, n expr.Node) (string, error) {
	s, err := compileExpr(ctx, n)
	if err != nil {
		return "", err
	}
	if _, ok := n.(*expr.Binary); ok {
		return "(" + s + ")", nil
	}
	return s, nil
}

func compileConst(ctx *Context, c *expr.Const) (string, error) {
	if c.K == expr.Bool {
		b, _ := c.Value.(bool)
		e := ctx.Dialect.BoolLiteral(b)
		if e.Inline {
			return e.Token, nil
		}
		v := int32(0)
		if b {
			v = 1
		}
		return ctx.BindParam("", v, expr.Bool)
	}
	return ctx.BindParam("", c.Value, c.K)
}

// compileNull renders a typed NULL. Only Null<Bool> needs dialect
// input (§9 Open Question): every other kind is always a bare literal
// NULL token, never a bound parameter.
func compileNull(ctx *Context, n *expr.Null) (string, error) {
	if n.K == expr.Bool {
		if ctx.Dialect.BoolLiteral(false).Inline {
			return "NULL", nil
		}
		return ctx.BindParam("", nil, expr.Bool)
	}
	return "NULL", nil
}

func compileBinary(ctx *Context, b *expr.Binary) (string, error) {
	lk, rk := b.Left.Kind(), b.Right.Kind()
	kindsOK := true
	switch b.Op {
	case expr.Concat:
		kindsOK = lk == expr.String && rk == expr.String
	case expr.And, expr.Or:
		kindsOK = lk == expr.Bool && rk == expr.Bool
	case expr.Add, expr.Sub, expr.Mul, expr.Div:
		_, kindsOK = expr.Widen(lk, rk)
	}
	if !kindsOK {
		return "", sqlerr.New(sqlerr.ErrKindMismatch, ctx.path,
			fmt.Sprintf("%s applied to %s and %s", b.Op, lk, rk))
	}
	l, err := compileChild(ctx, b.Left)
	if err != nil {
		return "", err
	}
	r, err := compileChild(ctx, b.Right)
	if err != nil {
		return "", err
	}
	if b.Op == expr.Concat {
		return ctx.Dialect.Concat(l, r), nil
	}
	return l + " " + b.Op.String() + " " + r, nil
}

func compileUnary(ctx *Context, u *expr.Unary) (string, error) {
	arg, err := compileChild(ctx, u.Arg)
	if err != nil {
		return "", err
	}
	if u.Op == expr.Not {
		return "NOT " + arg, nil
	}
	return "-" + arg, nil
}

func compileCase(ctx *Context, c *expr.Case) (string, error) {
	cond, err := compileExpr(ctx, c.Cond)
	if err != nil {
		return "", err
	}
	then, err := compileExpr(ctx, c.Then)
	if err != nil {
		return "", err
	}
	els, err := compileExpr(ctx, c.Else)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CASE WHEN %s THEN %s ELSE %s END", cond, then, els), nil
}

func compileIn(ctx *Context, n *expr.In) (string, error) {
	if len(n.Items) == 0 {
		return "", sqlerr.New(sqlerr.ErrArityMismatch, ctx.path, "IN with an empty item list")
	}
	val, err := compileExpr(ctx, n.Value)
	if err != nil {
		return "", err
	}
	items := make([]string, len(n.Items))
	for i, it := range n.Items {
		s, err := compileExpr(ctx, it)
		if err != nil {
			return "", err
		}
		items[i] = s
	}
	return fmt.Sprintf("%s IN (%s)", val, strings.Join(items, ", ")), nil
}

func compileInSubquery(ctx *Context, n *expr.InSubquery) (string, error) {
	val, err := compileExpr(ctx, n.Value)
	if err != nil {
		return "", err
	}
	sub, err := compileEmbeddedSubquery(ctx, n.Query)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s IN (%s)", val, sub), nil
}

func compileLike(ctx *Context, n *expr.Like) (string, error) {
	val, err := compileExpr(ctx, n.Value)
	if err != nil {
		return "", err
	}
	pat, err := compileExpr(ctx, n.Pattern)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s LIKE %s", val, pat), nil
}

func compileIsNull(ctx *Context, n *expr.IsNull) (string, error) {
	arg, err := compileExpr(ctx, n.Arg)
	if err != nil {
		return "", err
	}
	if n.Not {
		return arg + " IS NOT NULL", nil
	}
	return arg + " IS NULL", nil
}

func compileAggregate(ctx *Context, a *expr.Aggregate) (string, error) {
	if a.Op == expr.CountStar {
		return "COUNT(*)", nil
	}
	arg, err := compileExpr(ctx, a.Arg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", a.Op.String(), arg), nil
}

func compileFuncString(ctx *Context, f *expr.FuncString) (string, error) {
	switch f.Name {
	case expr.Upper, expr.Lower, expr.Trim:
		arg, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		name := map[expr.StringFunc]string{expr.Upper: "UPPER", expr.Lower: "LOWER", expr.Trim: "TRIM"}[f.Name]
		return fmt.Sprintf("%s(%s)", name, arg), nil
	case expr.Length:
		arg, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		return ctx.Dialect.Length(arg), nil
	case expr.Substring:
		x, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		start, err := compileExpr(ctx, f.Args[1])
		if err != nil {
			return "", err
		}
		length, err := compileExpr(ctx, f.Args[2])
		if err != nil {
			return "", err
		}
		return ctx.Dialect.Substring(x, start, length), nil
	case expr.ConcatFunc:
		if len(f.Args) == 0 {
			return "", sqlerr.New(sqlerr.ErrArityMismatch, ctx.path, "concat with no arguments")
		}
		acc, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		for _, a := range f.Args[1:] {
			s, err := compileExpr(ctx, a)
			if err != nil {
				return "", err
			}
			acc = ctx.Dialect.Concat(acc, s)
		}
		return acc, nil
	default:
		return "", sqlerr.New(sqlerr.ErrKindMismatch, ctx.path, "unsupported string function")
	}
}

func compileFuncMath(ctx *Context, f *expr.FuncMath) (string, error) {
	name, _ := f.Name.(expr.MathFunc)
	switch name {
	case expr.Abs:
		arg, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ABS(%s)", arg), nil
	case expr.Round:
		x, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		digits, err := compileExpr(ctx, f.Args[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("ROUND(%s, %s)", x, digits), nil
	case expr.Ceiling:
		arg, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		return ctx.Dialect.Ceiling(arg), nil
	case expr.Floor:
		arg, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		return ctx.Dialect.Floor(arg), nil
	default:
		return "", sqlerr.New(sqlerr.ErrKindMismatch, ctx.path, "unsupported math function")
	}
}

// funcToUnit maps a DateFunc to the date-arithmetic unit it operates
// on; Year/Month/Day is both a unit extraction and, for
// Add/Diff<Unit>, the arithmetic granularity.
func funcToUnit(name expr.DateFunc) dialect.DateUnit {
	switch name {
	case expr.Month, expr.AddMonths, expr.DiffMonths:
		return dialect.Month
	case expr.Year, expr.AddYears, expr.DiffYears:
		return dialect.Year
	default:
		return dialect.Day
	}
}

// compileDateStep renders the integer step argument to AddDays/
// AddMonths/AddYears. Dialects that inline the step (SQLite,
// PostgreSQL) embed a literal Const directly rather than going through
// the default synthetic-parameter path; SqlServer always binds it.
func compileDateStep(ctx *Context, n expr.Node) (string, error) {
	if ctx.Dialect.InlineDateStep {
		if c, ok := n.(*expr.Const); ok {
			return fmt.Sprintf("%v", c.Value), nil
		}
	}
	return compileExpr(ctx, n)
}

func compileFuncDate(ctx *Context, f *expr.FuncDate) (string, error) {
	name, _ := f.Name.(expr.DateFunc)
	switch name {
	case expr.Now:
		return ctx.Dialect.Now(), nil
	case expr.Year, expr.Month, expr.Day:
		x, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		return ctx.Dialect.DatePart(funcToUnit(name), x), nil
	case expr.AddDays, expr.AddMonths, expr.AddYears:
		x, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		step, err := compileDateStep(ctx, f.Args[1])
		if err != nil {
			return "", err
		}
		return ctx.Dialect.DateAdd(funcToUnit(name), x, step), nil
	case expr.DiffDays, expr.DiffMonths, expr.DiffYears:
		a, err := compileExpr(ctx, f.Args[0])
		if err != nil {
			return "", err
		}
		b, err := compileExpr(ctx, f.Args[1])
		if err != nil {
			return "", err
		}
		return ctx.Dialect.DateDiff(funcToUnit(name), a, b), nil
	default:
		return "", sqlerr.New(sqlerr.ErrKindMismatch, ctx.path, "unsupported date function")
	}
}

func compileScalarQueryExpr(ctx *Context, n *expr.ScalarQueryExpr) (string, error) {
	sub, err := compileEmbeddedSubquery(ctx, n.Query)
	if err != nil {
		return "", err
	}
	return "(" + sub + ")", nil
}

// compileEmbeddedSubquery compiles sn.Inner through the same Context
// so a correlated reference to an outer table resolves against the
// outer scope entries still on the stack (§5.3). *query.ScalarQuery is
// the only concrete implementer of expr.SubqueryNode in this module.
func compileEmbeddedSubquery(ctx *Context, sn expr.SubqueryNode) (string, error) {
	sq, ok := sn.(*query.ScalarQuery)
	if !ok {
		return "", sqlerr.New(sqlerr.ErrKindMismatch, ctx.path, fmt.Sprintf("unsupported embedded subquery node %T", sn))
	}
	ctx.curDepth++
	sql, names, _, err := compileQuery(ctx, sq.Inner)
	ctx.curDepth--
	if err != nil {
		return "", err
	}
	if len(names) != 1 {
		return "", sqlerr.New(sqlerr.ErrArityMismatch, ctx.path,
			fmt.Sprintf("scalar query must produce exactly one column, got %d", len(names)))
	}
	return sql, nil
}

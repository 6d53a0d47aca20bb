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
	"strconv"
	"strings"

	"github.com/sqltree/sqltree/expr"
	"github.com/sqltree/sqltree/normalize"
	"github.com/sqltree/sqltree/query"
	"github.com/sqltree/sqltree/sqlerr"
)

// compileQuery is the recursive compiler driver (§4.3). It normalises
// q one level at a time as it descends -- normalize.Normalize is
// re-invoked at every recursion step rather than once up front -- and
// returns the emitted SQL text together with the actual column names
// and kinds the statement produces, for use by a caller that
// materialises this query as a FROM-position derived table.
func compileQuery(ctx *Context, q query.Query) (string, []string, []expr.Kind, error) {
	if ctx.curDepth > ctx.maxDepth {
		return "", nil, nil, fmt.Errorf("compiler: max recursion depth %d exceeded", ctx.maxDepth)
	}
	for {
		sq, ok := q.(*query.ScalarQuery)
		if !ok {
			break
		}
		q = sq.Inner
	}
	if so, ok := q.(*query.SetOp); ok {
		return compileSetOp(ctx, so)
	}
	return compileSelect(ctx, q)
}

func compileSetOp(ctx *Context, s *query.SetOp) (string, []string, []expr.Kind, error) {
	ctx.pushPath("SetOp")
	defer ctx.popPath()

	lsql, lnames, lkinds, err := compileQuery(ctx, s.Left)
	if err != nil {
		return "", nil, nil, err
	}
	rsql, rnames, rkinds, err := compileQuery(ctx, s.Right)
	if err != nil {
		return "", nil, nil, err
	}
	if len(lnames) != len(rnames) {
		return "", nil, nil, sqlerr.New(sqlerr.ErrArityMismatch, ctx.path,
			fmt.Sprintf("%s sides have %d and %d columns", s.Op, len(lnames), len(rnames)))
	}
	for i := range lkinds {
		if lkinds[i] == rkinds[i] {
			continue
		}
		if _, ok := expr.Widen(lkinds[i], rkinds[i]); !ok {
			return "", nil, nil, sqlerr.New(sqlerr.ErrKindMismatch, ctx.path,
				fmt.Sprintf("%s column %d: %s vs %s", s.Op, i, lkinds[i], rkinds[i]))
		}
	}
	sql := lsql + "\n" + ctx.indent() + s.Op.String() + "\n" + rsql
	return sql, lnames, lkinds, nil
}

// compileSelect collects every clause wrapping a FROM-position source
// into one SELECT statement (§4.3 steps 2-6). Repeated occurrences of a
// given clause kind never reach this loop more than once per level:
// normalize.Normalize already fused consecutive Where/Join pairs and
// materialised anything else that would otherwise make the collection
// ambiguous (§4.2).
func compileSelect(ctx *Context, q query.Query) (string, []string, []expr.Kind, error) {
	ctx.pushPath("Select")
	defer ctx.popPath()

	var sel *query.Select
	distinct := false
	var whereExpr expr.Node
	var groupKeys []expr.Node
	var havingExpr expr.Node
	var orderKeys []query.OrderKey
	var limit *query.Limit

	cur := normalize.Normalize(q)
collect:
	for {
		switch n := cur.(type) {
		case *query.Distinct:
			distinct = true
			cur = normalize.Normalize(n.Source)
		case *query.Select:
			sel = n
			cur = normalize.Normalize(n.Source)
		case *query.Where:
			whereExpr = n.Predicate
			cur = normalize.Normalize(n.Source)
		case *query.Having:
			havingExpr = n.Predicate
			gb := normalize.Normalize(n.Source).(*query.GroupBy)
			groupKeys = gb.Keys
			cur = normalize.Normalize(gb.Source)
		case *query.GroupBy:
			groupKeys = n.Keys
			cur = normalize.Normalize(n.Source)
		case *query.OrderBy:
			orderKeys = n.Keys
			cur = normalize.Normalize(n.Source)
		case *query.Limit:
			limit = n
			cur = normalize.Normalize(n.Source)
		default:
			break collect
		}
	}

	srcSQL, srcShape, popN, err := compileSource(ctx, cur)
	if err != nil {
		return "", nil, nil, err
	}
	defer ctx.PopScopes(popN)

	var projExprs []expr.Node
	var projNames []string
	if sel != nil {
		if len(sel.Projections) == 0 {
			return "", nil, nil, sqlerr.New(sqlerr.ErrArityMismatch, ctx.path, "SELECT with an empty projection list")
		}
		projExprs = sel.Projections
		projNames = sel.Names
	} else {
		projExprs = make([]expr.Node, len(srcShape))
		projNames = make([]string, len(srcShape))
		for i, f := range srcShape {
			projExprs[i] = f.Expr
			projNames[i] = f.Name
		}
	}

	if len(groupKeys) > 0 {
		for _, p := range projExprs {
			if !projectionLegalUnderGrouping(p, groupKeys) {
				return "", nil, nil, sqlerr.New(sqlerr.ErrInvalidGrouping, ctx.path,
					"projection mixes an aggregate with a non-key, non-aggregate column")
			}
		}
	}

	// Expressions are compiled source-to-outer -- WHERE, GROUP BY,
	// HAVING, ORDER BY, then the projection list -- so that parameter
	// numbers follow the order the clauses were chained onto the query
	// (§4.1), not the order they're written out in the rendered SQL.
	var wsql string
	if whereExpr != nil {
		s, err := compileExpr(ctx, whereExpr)
		if err != nil {
			return "", nil, nil, err
		}
		wsql = s
	}

	var groupParts []string
	if len(groupKeys) > 0 {
		groupParts = make([]string, len(groupKeys))
		for i, k := range groupKeys {
			s, err := compileExpr(ctx, k)
			if err != nil {
				return "", nil, nil, err
			}
			groupParts[i] = s
		}
	}

	var hsql string
	if havingExpr != nil {
		s, err := compileExpr(ctx, havingExpr)
		if err != nil {
			return "", nil, nil, err
		}
		hsql = s
	}

	var orderParts []string
	if len(orderKeys) > 0 {
		orderParts = make([]string, len(orderKeys))
		for i, k := range orderKeys {
			s, err := compileExpr(ctx, k.Expr)
			if err != nil {
				return "", nil, nil, err
			}
			dir := "ASC"
			if k.Dir == query.Desc {
				dir = "DESC"
			}
			orderParts[i] = s + " " + dir
		}
	}

	ctx.resetProjAlias()
	projSQL := make([]string, len(projExprs))
	outNames := make([]string, len(projExprs))
	outKinds := make([]expr.Kind, len(projExprs))
	for i, p := range projExprs {
		s, err := compileChild(ctx, p)
		if err != nil {
			return "", nil, nil, err
		}
		alias := projectionAlias(ctx, p, projNames[i])
		projSQL[i] = s + " AS " + alias
		outNames[i] = alias
		outKinds[i] = p.Kind()
	}

	kw := ctx.indent()
	body := ctx.bodyIndent()

	var b strings.Builder
	if distinct {
		b.WriteString(kw + "SELECT DISTINCT\n")
	} else {
		b.WriteString(kw + "SELECT\n")
	}
	for i, p := range projSQL {
		sep := ","
		if i == len(projSQL)-1 {
			sep = ""
		}
		b.WriteString(body + p + sep + "\n")
	}
	b.WriteString(kw + "FROM\n")
	b.WriteString(srcSQL + "\n")

	if whereExpr != nil {
		b.WriteString(kw + "WHERE\n" + body + wsql + "\n")
	}
	if len(groupKeys) > 0 {
		b.WriteString(kw + "GROUP BY\n" + body + strings.Join(groupParts, ", ") + "\n")
	}
	if havingExpr != nil {
		b.WriteString(kw + "HAVING\n" + body + hsql + "\n")
	}
	if len(orderKeys) > 0 {
		b.WriteString(kw + "ORDER BY\n" + body + strings.Join(orderParts, ", ") + "\n")
	}
	if limit != nil {
		if ctx.Dialect.RequireOrderByForLimit && len(orderKeys) == 0 {
			return "", nil, nil, sqlerr.New(sqlerr.ErrInvalidLimit, ctx.path,
				"LIMIT/OFFSET requires an ORDER BY under this dialect")
		}
		countStr := strconv.FormatUint(limit.Count, 10)
		offsetStr := ""
		hasOffset := limit.Offset != nil
		if hasOffset {
			offsetStr = strconv.FormatUint(*limit.Offset, 10)
		}
		b.WriteString(kw + ctx.Dialect.Limit(countStr, offsetStr, hasOffset) + "\n")
	}

	return strings.TrimRight(b.String(), "\n"), outNames, outKinds, nil
}

// projectionAlias implements §4.5: a named tuple element wins; else a
// bare Column uses its own name; else a fresh Proj<N>.
func projectionAlias(ctx *Context, p expr.Node, declared string) string {
	if declared != "" {
		return declared
	}
	if col, ok := p.(*expr.Column); ok {
		return col.Name
	}
	return ctx.FreshProjAlias()
}

// projectionLegalUnderGrouping reports whether proj may appear in a
// SELECT list alongside GROUP BY groupKeys: proj is itself one of the
// keys (by structural equality), or every bare column it references
// outside of an aggregate's argument is one of the keys.
func projectionLegalUnderGrouping(proj expr.Node, groupKeys []expr.Node) bool {
	for _, k := range groupKeys {
		if proj.Equals(k) {
			return true
		}
	}
	legal := true
	expr.Walk(expr.WalkFunc(func(n expr.Node) bool {
		if _, ok := n.(*expr.Aggregate); ok {
			return false
		}
		switch n.(type) {
		case *expr.Column, *expr.Alias:
			for _, k := range groupKeys {
				if n.Equals(k) {
					return true
				}
			}
			legal = false
		}
		return true
	}), proj)
	return legal
}

// compileSource compiles a FROM-position node: a base table, an N-ary
// join chain, or a materialised subquery. It returns the rendered SQL
// (already indented one level under its caller's clause keywords), the
// shape visible to the enclosing SELECT when it has no explicit
// projection list, and the number of scope entries it pushed -- the
// caller pops them once the enclosing statement is fully compiled.
func compileSource(ctx *Context, q query.Query) (string, query.Shape, int, error) {
	switch n := q.(type) {
	case *query.FromTable:
		alias := ctx.FreshTableAlias()
		ctx.PushTableScope(n.Table.Handle(), alias)
		return ctx.bodyIndent() + n.Table.Name() + " " + alias, n.Shape(), 1, nil
	case *query.Join:
		return compileJoinSource(ctx, n)
	case *query.Subquery:
		return compileSubquerySource(ctx, n)
	default:
		return "", nil, 0, sqlerr.New(sqlerr.ErrKindMismatch, ctx.path, fmt.Sprintf("unsupported FROM source %T", q))
	}
}

func compileJoinSource(ctx *Context, j *query.Join) (string, query.Shape, int, error) {
	baseSQL, baseShape, basePop, err := compileSource(ctx, j.Base)
	if err != nil {
		return "", nil, 0, err
	}
	lines := []string{baseSQL}
	shape := append(query.Shape{}, baseShape...)
	pushed := basePop
	for _, e := range j.Edges {
		alias := ctx.FreshTableAlias()
		ctx.PushTableScope(e.Table.Handle(), alias)
		pushed++
		outer, err := compileExpr(ctx, e.OuterKey)
		if err != nil {
			ctx.PopScopes(pushed)
			return "", nil, 0, err
		}
		inner, err := compileExpr(ctx, e.InnerKey)
		if err != nil {
			ctx.PopScopes(pushed)
			return "", nil, 0, err
		}
		kw := "INNER JOIN"
		if e.Kind == query.Left {
			kw = "LEFT JOIN"
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s ON %s = %s", ctx.bodyIndent(), kw, e.Table.Name(), alias, outer, inner))
		for _, c := range e.Table.Columns() {
			shape = append(shape, query.Field{Name: c.Name, Expr: e.Table.Col(c.Name)})
		}
	}
	return strings.Join(lines, "\n"), shape, pushed, nil
}

func compileSubquerySource(ctx *Context, s *query.Subquery) (string, query.Shape, int, error) {
	ctx.curDepth++
	innerSQL, names, kinds, err := compileQuery(ctx, s.Inner)
	ctx.curDepth--
	if err != nil {
		return "", nil, 0, err
	}
	alias := ctx.FreshTableAlias()
	ctx.PushQueryScope(s.Handle(), alias, names)
	shape := make(query.Shape, len(names))
	for i, nm := range names {
		shape[i] = query.Field{Name: nm, Expr: s.Handle().Col(i, kinds[i])}
	}
	text := ctx.bodyIndent() + "(\n" + innerSQL + "\n" + ctx.bodyIndent() + ") " + alias
	return text, shape, 1, nil
}

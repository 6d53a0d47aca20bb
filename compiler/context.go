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

// Package compiler implements the recursive compiler driver (C5), the
// context/allocators it threads through compilation (C4), and the
// INSERT/UPDATE/DELETE statement surface (C7). ToSql and its
// dialect-specific wrappers are the package's only public entry
// points; everything else here is compilation machinery.
package compiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sqltree/sqltree/dialect"
	"github.com/sqltree/sqltree/expr"
	"github.com/sqltree/sqltree/sqlerr"
)

// Binding is one bound parameter's value and declared kind, as
// returned in the parameters map of ToSql (§6.4).
type Binding struct {
	Value any
	Kind  expr.Kind
}

// scopeEntry binds one table or subquery occurrence to the alias the
// compiler assigned it when it entered scope (§4.1's scope stack).
type scopeEntry struct {
	table *expr.TableHandle
	query *expr.QueryHandle
	alias string
	// names holds the AS name assigned to each projected column, by
	// shape index; valid only when query != nil.
	names []string
}

// Context is threaded through one compilation run (§4.1, §5): the
// target dialect, the parameter bag, the table-alias and per-SELECT
// projection-alias counters, and the scope stack used to resolve
// Column/Alias references. A fresh Context is built per ToSql* call
// and discarded after; nothing here is shared across calls.
type Context struct {
	Dialect dialect.Dialect

	paramKeys  []string
	params     map[string]Binding
	syntheticN int

	tableAliasN int
	scopes      []scopeEntry

	projAliasN int

	logger   *zap.Logger
	maxDepth int
	curDepth int

	path sqlerr.Path
}

// indent returns the n*4-space prefix for the current nesting depth,
// per §6.3's "subqueries are re-indented by four spaces relative to
// their host" rule; body lines are one level deeper than their
// clause's own keyword line.
func (c *Context) indent() string  { return strings.Repeat("    ", c.curDepth) }
func (c *Context) bodyIndent() string { return strings.Repeat("    ", c.curDepth+1) }

// pushPath/popPath track the node path reported by compile errors
// (§4.7). Callers push on entry and pop via defer.
func (c *Context) pushPath(tag string) { c.path = append(c.path, tag) }
func (c *Context) popPath()            { c.path = c.path[:len(c.path)-1] }

func newContext(d dialect.Dialect, opts ...Option) *Context {
	c := &Context{
		Dialect:  d,
		params:   make(map[string]Binding),
		maxDepth: 64,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Params returns the bound parameters keyed by placeholder (including
// dialect prefix). The result is a plain Go map and does not keep the
// order in which parameters were bound; that order is held only in the
// Context's own paramKeys.
func (c *Context) Params() map[string]Binding {
	out := make(map[string]Binding, len(c.paramKeys))
	for _, k := range c.paramKeys {
		out[c.Dialect.ParamPrefix+k] = c.params[k]
	}
	return out
}

// FreshTableAlias returns the next aN in sequence (§4.1).
func (c *Context) FreshTableAlias() string {
	a := fmt.Sprintf("a%d", c.tableAliasN)
	c.tableAliasN++
	return a
}

// FreshProjAlias returns the next Proj<N> in the current SELECT's
// sequence (§4.5 rule 3).
func (c *Context) FreshProjAlias() string {
	a := fmt.Sprintf("Proj%d", c.projAliasN)
	c.projAliasN++
	return a
}

// resetProjAlias starts a fresh Proj<N> sequence for a new SELECT.
func (c *Context) resetProjAlias() { c.projAliasN = 0 }

// PushTableScope brings one table occurrence into scope under alias.
// Pass alias = "" for an UPDATE/DELETE target, whose WHERE clause
// references columns unqualified rather than through a FROM alias.
func (c *Context) PushTableScope(h *expr.TableHandle, alias string) {
	c.scopes = append(c.scopes, scopeEntry{table: h, alias: alias})
	if c.logger != nil {
		c.logger.Debug("push table scope", zap.String("table", h.TableName), zap.String("alias", alias))
	}
}

// PushQueryScope brings one materialised subquery occurrence into
// scope under alias; names holds the AS name chosen for each
// projected column; Alias nodes resolve against it by index.
func (c *Context) PushQueryScope(h *expr.QueryHandle, alias string, names []string) {
	c.scopes = append(c.scopes, scopeEntry{query: h, alias: alias, names: names})
	if c.logger != nil {
		c.logger.Debug("push subquery scope", zap.String("alias", alias), zap.Strings("names", names))
	}
}

// PopScopes removes the n most recently pushed scope entries at once
// (a Join's Base plus its edges all leave scope together when the
// enclosing statement finishes). Every push is matched by a pop on
// every exit path, including error returns -- callers use defer.
func (c *Context) PopScopes(n int) {
	c.scopes = c.scopes[:len(c.scopes)-n]
}

// ResolveColumn looks up col's table occurrence inner-to-outer (§4.1).
func (c *Context) ResolveColumn(col *expr.Column) (string, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		e := c.scopes[i]
		if e.table == col.Table {
			if e.alias == "" {
				return col.Name, nil
			}
			return e.alias + "." + col.Name, nil
		}
	}
	return "", sqlerr.New(sqlerr.ErrUnresolvedReference, c.path,
		fmt.Sprintf("column %q of table %q is not in scope", col.Name, col.Table.TableName))
}

// ResolveAlias looks up al's subquery occurrence inner-to-outer.
func (c *Context) ResolveAlias(al *expr.Alias) (string, error) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		e := c.scopes[i]
		if e.query == al.Query {
			if al.Index < 0 || al.Index >= len(e.names) {
				return "", sqlerr.New(sqlerr.ErrUnresolvedReference, c.path,
					fmt.Sprintf("projection index %d out of range for subquery %q", al.Index, e.query.DebugName))
			}
			return e.alias + "." + e.names[al.Index], nil
		}
	}
	return "", sqlerr.New(sqlerr.ErrUnresolvedReference, c.path,
		fmt.Sprintf("subquery reference %q is not in scope", al.Query.DebugName))
}

// BindParam allocates or reuses a placeholder for value/kind under
// name (§4.1). An empty name gets the next synthetic pN; a
// caller-supplied name is honoured verbatim. Rebinding the same name
// with an equal value is idempotent; rebinding with a different value
// is a ParameterCollision.
func (c *Context) BindParam(name string, value any, kind expr.Kind) (string, error) {
	if name == "" {
		name = fmt.Sprintf("p%d", c.syntheticN)
		c.syntheticN++
	}
	if existing, ok := c.params[name]; ok {
		if existing.Kind == kind && valuesEqual(existing.Value, value) {
			return c.Dialect.ParamPrefix + name, nil
		}
		return "", sqlerr.New(sqlerr.ErrParameterCollision, c.path,
			fmt.Sprintf("parameter %q already bound to a different value", name))
	}
	c.params[name] = Binding{Value: value, Kind: kind}
	c.paramKeys = append(c.paramKeys, name)
	if c.logger != nil {
		c.logger.Debug("bind parameter", zap.String("placeholder", c.Dialect.ParamPrefix+name), zap.Stringer("kind", kind))
	}
	return c.Dialect.ParamPrefix + name, nil
}

// valuesEqual compares two bound parameter values for the purpose of
// BindParam's idempotent-rebind check. decimal.Decimal and time.Time
// carry internal fields that plain == does not compare the way their
// own Equal methods do, so those two kinds are special-cased; every
// other bound value (the remaining Kinds are all Go-comparable) falls
// through to ==.
func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

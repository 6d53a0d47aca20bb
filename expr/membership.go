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

// SubqueryNode is the minimal contract a query-IR node must satisfy to
// be embedded inside an expression (InSubquery, ScalarQueryExpr). It
// exists so that package expr never imports package query (which
// imports expr for its Select/Where/... predicates): query.ScalarQuery
// implements this marker, and package compiler, which imports both,
// type-asserts it back to a concrete *query.ScalarQuery when compiling.
type SubqueryNode interface {
	// Debug returns a short human-readable label, used only in error
	// paths; it carries no semantic weight.
	Debug() string
}

// In is constant-list membership: Value IN (Items...).
type In struct {
	Value Node
	Items []Node
}

func NewIn(value Node, items ...Node) *In {
	return &In{Value: value, Items: items}
}

func (n *In) Kind() Kind { return Bool }

func (n *In) Equals(o Node) bool {
	on, ok := o.(*In)
	if !ok || !on.Value.Equals(n.Value) || len(on.Items) != len(n.Items) {
		return false
	}
	for i := range n.Items {
		if !n.Items[i].Equals(on.Items[i]) {
			return false
		}
	}
	return true
}

func (n *In) walk(v Visitor) {
	Walk(v, n.Value)
	for _, it := range n.Items {
		Walk(v, it)
	}
}

func (n *In) rewrite(r Rewriter) Node {
	n.Value = Rewrite(r, n.Value)
	for i := range n.Items {
		n.Items[i] = Rewrite(r, n.Items[i])
	}
	return n
}

// InSubquery is membership over a column produced by a scalar query.
type InSubquery struct {
	Value Node
	Query SubqueryNode
}

func NewInSubquery(value Node, q SubqueryNode) *InSubquery {
	return &InSubquery{Value: value, Query: q}
}

func (n *InSubquery) Kind() Kind { return Bool }

func (n *InSubquery) Equals(o Node) bool {
	on, ok := o.(*InSubquery)
	return ok && on.Value.Equals(n.Value) && on.Query == n.Query
}

func (n *InSubquery) walk(v Visitor) { Walk(v, n.Value) }

func (n *InSubquery) rewrite(r Rewriter) Node {
	n.Value = Rewrite(r, n.Value)
	return n
}

// Like is a pattern match: Value LIKE Pattern, where Pattern is a
// normal string-valued expression whose value already carries the
// SQL %/_ wildcards.
type Like struct {
	Value   Node
	Pattern Node
}

func NewLike(value, pattern Node) *Like {
	return &Like{Value: value, Pattern: pattern}
}

func (n *Like) Kind() Kind { return Bool }

func (n *Like) Equals(o Node) bool {
	on, ok := o.(*Like)
	return ok && on.Value.Equals(n.Value) && on.Pattern.Equals(n.Pattern)
}

func (n *Like) walk(v Visitor) {
	Walk(v, n.Value)
	Walk(v, n.Pattern)
}

func (n *Like) rewrite(r Rewriter) Node {
	n.Value = Rewrite(r, n.Value)
	n.Pattern = Rewrite(r, n.Pattern)
	return n
}

// IsNull is `Arg IS NULL`; Not, when true, makes it `Arg IS NOT NULL`
// (IsNotNull in the spec is represented as IsNull{Not: true}).
type IsNull struct {
	Arg Node
	Not bool
}

func NewIsNull(arg Node) *IsNull    { return &IsNull{Arg: arg} }
func NewIsNotNull(arg Node) *IsNull { return &IsNull{Arg: arg, Not: true} }

func (n *IsNull) Kind() Kind { return Bool }

func (n *IsNull) Equals(o Node) bool {
	on, ok := o.(*IsNull)
	return ok && on.Not == n.Not && on.Arg.Equals(n.Arg)
}

func (n *IsNull) walk(v Visitor) { Walk(v, n.Arg) }

func (n *IsNull) rewrite(r Rewriter) Node {
	n.Arg = Rewrite(r, n.Arg)
	return n
}

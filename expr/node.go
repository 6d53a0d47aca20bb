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

// Package expr defines the typed scalar/predicate expression IR:
// constants, parameters, columns, arithmetic, logic, comparison,
// CASE, IN, LIKE, aggregates, and the string/math/date function
// families. Every Node carries a Kind so that the compiler can
// reject ill-typed trees before any SQL is emitted.
package expr

// Kind is the SQL-level type tag every expression node carries.
type Kind int

const (
	Int Kind = iota
	Long
	Double
	Decimal
	Bool
	String
	DateTime
	Guid
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Int"
	case Long:
		return "Long"
	case Double:
		return "Double"
	case Decimal:
		return "Decimal"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case DateTime:
		return "DateTime"
	case Guid:
		return "Guid"
	default:
		return "Kind(?)"
	}
}

// Numeric reports whether k is one of the arithmetic kinds.
func (k Kind) Numeric() bool {
	switch k {
	case Int, Long, Double, Decimal:
		return true
	default:
		return false
	}
}

// Node is the common interface satisfied by every expression in the IR.
//
// Node deliberately has no SQL-emission method: emission is
// dialect-specific (see package dialect/compiler) and is performed by a
// single recursive emitter via a type switch, not by per-node methods,
// per the "dialect descriptor value, not polymorphic subclasses" design.
type Node interface {
	// Kind returns the result kind this node produces.
	Kind() Kind
	// Equals reports whether n and other are structurally identical.
	Equals(other Node) bool
	walk(v Visitor)
}

// nonleaf is satisfied by every Node that has children; leaves
// (Const, Null, Param, Column, Alias) do not implement it.
type nonleaf interface {
	rewrite(r Rewriter) Node
}

// Visitor is invoked once per node encountered by Walk.
type Visitor interface {
	Visit(Node) Visitor
}

// Rewriter rewrites nodes in depth-first order. Like the teacher's
// plan/pir rewrite passes, nonleaf nodes update their own child
// fields in place and are returned as-is unless a Rewriter replaces
// them outright; a tree passed to Rewrite is consumed by the pass, not
// preserved -- callers that need the original must not retain
// references to it, or must rebuild it, after rewriting.
type Rewriter interface {
	// Rewrite is applied to a node after its children (if any)
	// have already been rewritten.
	Rewrite(Node) Node
	// Walk returns the Rewriter to use for n's children, or nil
	// to stop descending into n.
	Walk(Node) Rewriter
}

// Walk traverses n in depth-first order, calling v.Visit for every node.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	w := v.Visit(n)
	if w != nil {
		n.walk(w)
	}
}

// Rewrite recursively applies r to n in depth-first order, returning
// the rewritten node.
func Rewrite(r Rewriter, n Node) Node {
	if n == nil {
		return nil
	}
	if nl, ok := n.(nonleaf); ok {
		if rc := r.Walk(n); rc != nil {
			n = nl.rewrite(rc)
		}
	}
	return r.Rewrite(n)
}

// WalkFunc adapts a plain function to the Visitor interface; returning
// false from fn stops descent into the visited node's children.
type WalkFunc func(Node) bool

func (f WalkFunc) Visit(n Node) Visitor {
	if f(n) {
		return f
	}
	return nil
}

// Kind validation that can fail a whole compile (KindMismatch) happens
// in package compiler, not in these constructors, so that IR values
// stay trivially constructible in tests without a Context in scope.

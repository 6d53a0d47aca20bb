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

// Widen computes the result kind of a binary arithmetic operation over
// a and b, applying the one widening rule the spec allows: int<->long
// widen to long. Any other kind mismatch is reported by ok=false, and
// the caller (the compiler's type checker) turns that into a
// KindMismatch error; Widen itself never fails loudly since IR
// construction must stay side-effect-free.
func Widen(a, b Kind) (Kind, bool) {
	if a == b {
		return a, a.Numeric()
	}
	if (a == Int && b == Long) || (a == Long && b == Int) {
		return Long, true
	}
	return a, false
}

// NewBinary constructs a Binary node, computing its result kind from
// op and the operand kinds. It does not validate that the operands are
// well-typed for op (e.g. Concat on two ints) -- that check happens in
// the compiler's type checker, which has the node path needed to
// produce a useful KindMismatch error.
func NewBinary(op BinaryOp, left, right Node) *Binary {
	var k Kind
	switch {
	case op.isLogic(), op.isComparison():
		k = Bool
	case op == Concat:
		k = String
	default:
		k, _ = Widen(left.Kind(), right.Kind())
	}
	return &Binary{Op: op, Left: left, Right: right, K: k}
}

// NewUnary constructs a Unary node.
func NewUnary(op UnaryOp, arg Node) *Unary {
	k := arg.Kind()
	if op == Not {
		k = Bool
	}
	return &Unary{Op: op, Arg: arg, K: k}
}

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

// StringFunc enumerates the string function family. Names match the
// spec's canonical names; dialect-specific spelling (LEN vs LENGTH,
// SUBSTRING vs SUBSTR, CONCAT vs ||) is the job of package dialect.
type StringFunc int

const (
	Upper StringFunc = iota
	Lower
	Trim
	Length
	Substring
	ConcatFunc
)

// FuncString applies a string function to Args.
//
//	Upper, Lower, Trim, Length: Args = [str]
//	Substring:                  Args = [str, start, len]
//	ConcatFunc:                 Args = [a, b, ...]
type FuncString struct {
	Name StringFunc
	Args []Node
}

func NewFuncString(name StringFunc, args ...Node) *FuncString {
	return &FuncString{Name: name, Args: args}
}

func (f *FuncString) Kind() Kind {
	if f.Name == Length {
		return Long
	}
	return String
}

func (f *FuncString) Equals(o Node) bool { return equalFuncArgs(f.Name, f.Args, o) }

func (f *FuncString) walk(v Visitor) {
	for _, a := range f.Args {
		Walk(v, a)
	}
}

func (f *FuncString) rewrite(r Rewriter) Node {
	for i := range f.Args {
		f.Args[i] = Rewrite(r, f.Args[i])
	}
	return f
}

func equalFuncArgs(name any, args []Node, o Node) bool {
	var oargs []Node
	switch of := o.(type) {
	case *FuncString:
		if of.Name != name {
			return false
		}
		oargs = of.Args
	case *FuncMath:
		if of.Name != name {
			return false
		}
		oargs = of.Args
	case *FuncDate:
		if of.Name != name {
			return false
		}
		oargs = of.Args
	default:
		return false
	}
	if len(oargs) != len(args) {
		return false
	}
	for i := range args {
		if !args[i].Equals(oargs[i]) {
			return false
		}
	}
	return true
}

// MathFunc enumerates the math function family.
type MathFunc int

const (
	Abs MathFunc = iota
	Round
	Ceiling
	Floor
)

// FuncMath applies a math function to Args.
//
//	Abs, Ceiling, Floor: Args = [x]
//	Round:               Args = [x, digits]
//
// Name is typed any (always a MathFunc) so equalFuncArgs can compare
// the three function-name enums (StringFunc/MathFunc/DateFunc) without
// reflection.
type FuncMath struct {
	Name any
	Args []Node
	K    Kind
}

func NewFuncMath(name MathFunc, resultKind Kind, args ...Node) *FuncMath {
	return &FuncMath{Name: name, Args: args, K: resultKind}
}

func (f *FuncMath) Kind() Kind { return f.K }

func (f *FuncMath) Equals(o Node) bool { return equalFuncArgs(f.Name, f.Args, o) }

func (f *FuncMath) walk(v Visitor) {
	for _, a := range f.Args {
		Walk(v, a)
	}
}

func (f *FuncMath) rewrite(r Rewriter) Node {
	for i := range f.Args {
		f.Args[i] = Rewrite(r, f.Args[i])
	}
	return f
}

// DateFunc enumerates the date function family.
type DateFunc int

const (
	Year DateFunc = iota
	Month
	Day
	Now
	AddDays
	AddMonths
	AddYears
	DiffDays
	DiffMonths
	DiffYears
)

// FuncDate applies a date function to Args.
//
//	Year, Month, Day:            Args = [date]
//	Now:                         Args = []
//	AddDays/AddMonths/AddYears:  Args = [date, n]
//	DiffDays/DiffMonths/DiffYears: Args = [a, b]
//
// Name is typed any (always a DateFunc); see FuncMath.Name.
type FuncDate struct {
	Name any
	Args []Node
	K    Kind
}

func NewFuncDate(name DateFunc, args ...Node) *FuncDate {
	k := DateTime
	switch name {
	case Year, Month, Day, DiffDays, DiffMonths, DiffYears:
		k = Long
	}
	return &FuncDate{Name: name, Args: args, K: k}
}

func (f *FuncDate) Kind() Kind { return f.K }

func (f *FuncDate) Equals(o Node) bool { return equalFuncArgs(f.Name, f.Args, o) }

func (f *FuncDate) walk(v Visitor) {
	for _, a := range f.Args {
		Walk(v, a)
	}
}

func (f *FuncDate) rewrite(r Rewriter) Node {
	for i := range f.Args {
		f.Args[i] = Rewrite(r, f.Args[i])
	}
	return f
}

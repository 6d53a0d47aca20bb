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

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Const is a literal of kind K. The dynamic type of Value matches K:
//
//	Int      int32
//	Long     int64
//	Double   float64
//	Decimal  decimal.Decimal
//	Bool     bool
//	String   string
//	DateTime time.Time
//	Guid     uuid.UUID
type Const struct {
	K     Kind
	Value any
}

func ConstInt(v int32) *Const            { return &Const{K: Int, Value: v} }
func ConstLong(v int64) *Const           { return &Const{K: Long, Value: v} }
func ConstDouble(v float64) *Const       { return &Const{K: Double, Value: v} }
func ConstDecimal(v decimal.Decimal) *Const { return &Const{K: Decimal, Value: v} }
func ConstBool(v bool) *Const             { return &Const{K: Bool, Value: v} }
func ConstString(v string) *Const         { return &Const{K: String, Value: v} }
func ConstDateTime(v time.Time) *Const    { return &Const{K: DateTime, Value: v} }
func ConstGuid(v uuid.UUID) *Const        { return &Const{K: Guid, Value: v} }

func (c *Const) Kind() Kind { return c.K }

func (c *Const) Equals(o Node) bool {
	oc, ok := o.(*Const)
	if !ok || oc.K != c.K {
		return false
	}
	switch c.K {
	case Decimal:
		cv, _ := c.Value.(decimal.Decimal)
		ov, _ := oc.Value.(decimal.Decimal)
		return cv.Equal(ov)
	case DateTime:
		cv, _ := c.Value.(time.Time)
		ov, _ := oc.Value.(time.Time)
		return cv.Equal(ov)
	default:
		return c.Value == oc.Value
	}
}

func (c *Const) walk(v Visitor) {}

// Null is a typed SQL NULL.
type Null struct {
	K Kind
}

func (n *Null) Kind() Kind { return n.K }

func (n *Null) Equals(o Node) bool {
	on, ok := o.(*Null)
	return ok && on.K == n.K
}

func (n *Null) walk(v Visitor) {}

// Param is a named parameter reference. Name may be empty, in which
// case the allocator assigns a synthetic pN placeholder at bind time;
// a caller-supplied Name is honoured verbatim (see Context.BindParam).
type Param struct {
	K    Kind
	Name string
}

// NewParam declares a parameter reference of kind k. name is the
// caller-chosen bind name ("" for a synthetic pN placeholder).
func NewParam(name string, k Kind) *Param { return &Param{K: k, Name: name} }

func (p *Param) Kind() Kind { return p.K }

func (p *Param) Equals(o Node) bool {
	op, ok := o.(*Param)
	return ok && op.K == p.K && op.Name == p.Name
}

func (p *Param) walk(v Visitor) {}

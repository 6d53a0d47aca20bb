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

package normalize

import (
	"testing"

	"github.com/sqltree/sqltree/expr"
	"github.com/sqltree/sqltree/query"
	"github.com/sqltree/sqltree/schema"
)

var (
	customers = schema.New("Customers",
		schema.ColumnDesc{Name: "Id", Kind: expr.Int},
		schema.ColumnDesc{Name: "Name", Kind: expr.String},
		schema.ColumnDesc{Name: "Age", Kind: expr.Int},
	)
	orders = schema.New("Orders",
		schema.ColumnDesc{Name: "Id", Kind: expr.Int},
		schema.ColumnDesc{Name: "CustomerId", Kind: expr.Int},
		schema.ColumnDesc{Name: "Total", Kind: expr.Double},
	)
)

func TestFuseWhere(t *testing.T) {
	base := query.From(customers)
	w1 := query.Filter(base, expr.NewBinary(expr.Gt, customers.Col("Age"), expr.ConstInt(18)))
	w2 := query.Filter(w1, expr.NewBinary(expr.Lt, customers.Col("Age"), expr.ConstInt(65)))

	got := Normalize(w2)
	fused, ok := got.(*query.Where)
	if !ok {
		t.Fatalf("expected *query.Where, got %T", got)
	}
	if fused.Source != base {
		t.Fatalf("expected fused Where's Source to be the original FromTable, got %T", fused.Source)
	}
	bin, ok := fused.Predicate.(*expr.Binary)
	if !ok || bin.Op != expr.And {
		t.Fatalf("expected top-level AND predicate, got %#v", fused.Predicate)
	}
}

func TestFuseJoin(t *testing.T) {
	base := query.From(customers)
	outerKey := customers.Col("Id")
	innerKey := orders.Col("CustomerId")
	j1 := query.JoinOn(base, query.Inner, orders, outerKey, innerKey)

	payments := schema.New("Payments",
		schema.ColumnDesc{Name: "OrderId", Kind: expr.Int},
		schema.ColumnDesc{Name: "Amount", Kind: expr.Double},
	)
	j2 := query.JoinOn(j1, query.Left, payments, orders.Col("Id"), payments.Col("OrderId"))

	got := Normalize(j2)
	fused, ok := got.(*query.Join)
	if !ok {
		t.Fatalf("expected *query.Join, got %T", got)
	}
	if fused.Base != base {
		t.Fatalf("expected fused Join's Base to be the original FromTable, got %T", fused.Base)
	}
	if len(fused.Edges) != 2 {
		t.Fatalf("expected 2 edges after fusion, got %d", len(fused.Edges))
	}
	if fused.Edges[0].Table != orders || fused.Edges[1].Table != payments {
		t.Fatalf("expected edges in source order [Orders, Payments], got %v", fused.Edges)
	}
}

func TestWhereOverSelectMaterializes(t *testing.T) {
	base := query.From(customers)
	sel := query.Project(base,
		[]expr.Node{customers.Col("Id"), customers.Col("Name")},
		[]string{"Id", "Name"})
	w := query.Filter(sel, expr.NewBinary(expr.Eq, customers.Col("Name"), expr.ConstString("Ann")))

	got := Normalize(w)
	outer, ok := got.(*query.Where)
	if !ok {
		t.Fatalf("expected *query.Where, got %T", got)
	}
	sub, ok := outer.Source.(*query.Subquery)
	if !ok {
		t.Fatalf("expected Where's Source to be materialised into a Subquery, got %T", outer.Source)
	}
	if sub.Inner != sel {
		t.Fatalf("expected the Subquery to wrap the original Select")
	}
	al, ok := outer.Predicate.(*expr.Binary).Left.(*expr.Alias)
	if !ok {
		t.Fatalf("expected predicate's column reference to be rewritten to an Alias, got %T", outer.Predicate.(*expr.Binary).Left)
	}
	if al.Query != sub.Handle() {
		t.Fatalf("expected the rewritten Alias to reference the new subquery handle")
	}
}

func TestJoinOverWhereMaterializes(t *testing.T) {
	base := query.From(customers)
	w := query.Filter(base, expr.NewBinary(expr.Gt, customers.Col("Age"), expr.ConstInt(18)))
	j := query.JoinOn(w, query.Inner, orders, customers.Col("Id"), orders.Col("CustomerId"))

	got := Normalize(j)
	fused, ok := got.(*query.Join)
	if !ok {
		t.Fatalf("expected *query.Join, got %T", got)
	}
	sub, ok := fused.Base.(*query.Subquery)
	if !ok {
		t.Fatalf("expected Join's Base to be materialised into a Subquery, got %T", fused.Base)
	}
	if sub.Inner != w {
		t.Fatalf("expected the Subquery to wrap the original Where")
	}
	al, ok := fused.Edges[0].OuterKey.(*expr.Alias)
	if !ok {
		t.Fatalf("expected OuterKey to be rewritten to an Alias, got %T", fused.Edges[0].OuterKey)
	}
	if al.Query != sub.Handle() {
		t.Fatalf("expected the rewritten OuterKey to reference the new subquery handle")
	}
}

func TestDistinctInsertsIdentitySelect(t *testing.T) {
	base := query.From(customers)
	d := query.Deduplicate(base)

	got := Normalize(d)
	nd, ok := got.(*query.Distinct)
	if !ok {
		t.Fatalf("expected *query.Distinct, got %T", got)
	}
	sel, ok := nd.Source.(*query.Select)
	if !ok {
		t.Fatalf("expected Distinct's Source to become a *query.Select, got %T", nd.Source)
	}
	if len(sel.Projections) != len(customers.Columns()) {
		t.Fatalf("expected one identity projection per column, got %d", len(sel.Projections))
	}
}

func TestGroupByOverSelectMaterializes(t *testing.T) {
	base := query.From(customers)
	sel := query.Project(base, []expr.Node{customers.Col("Age")}, []string{"Age"})
	g := query.Group(sel, customers.Col("Age"))

	got := Normalize(g)
	ng, ok := got.(*query.GroupBy)
	if !ok {
		t.Fatalf("expected *query.GroupBy, got %T", got)
	}
	if _, ok := ng.Source.(*query.Subquery); !ok {
		t.Fatalf("expected GroupBy's Source to be materialised, got %T", ng.Source)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	base := query.From(customers)
	w1 := query.Filter(base, expr.NewBinary(expr.Gt, customers.Col("Age"), expr.ConstInt(18)))
	w2 := query.Filter(w1, expr.NewBinary(expr.Lt, customers.Col("Age"), expr.ConstInt(65)))

	once := Normalize(w2)
	twice := Normalize(once.(*query.Where))
	onceW, _ := once.(*query.Where)
	twiceW, _ := twice.(*query.Where)
	if onceW.Source != twiceW.Source {
		t.Fatalf("expected a second Normalize to be a no-op on an already-fused Where")
	}
}

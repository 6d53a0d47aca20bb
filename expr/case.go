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

// Case is a binary CASE WHEN <Cond> THEN <Then> ELSE <Else> END node.
// A CASE ladder is formed by nesting Case nodes in the Else position.
type Case struct {
	Cond Node // Bool
	Then Node
	Else Node
}

func NewCase(cond, then, els Node) *Case {
	return &Case{Cond: cond, Then: then, Else: els}
}

func (c *Case) Kind() Kind { return c.Then.Kind() }

func (c *Case) Equals(o Node) bool {
	oc, ok := o.(*Case)
	return ok && oc.Cond.Equals(c.Cond) && oc.Then.Equals(c.Then) && oc.Else.Equals(c.Else)
}

func (c *Case) walk(v Visitor) {
	Walk(v, c.Cond)
	Walk(v, c.Then)
	Walk(v, c.Else)
}

func (c *Case) rewrite(r Rewriter) Node {
	c.Cond = Rewrite(r, c.Cond)
	c.Then = Rewrite(r, c.Then)
	c.Else = Rewrite(r, c.Else)
	return c
}

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

package query

// Limit restricts Source to Count rows, optionally skipping the first
// Offset. Offset is nil when the caller did not specify one; LIMIT 0
// is allowed (§8 boundary behaviour). Every Limit carries a Count, so
// an OFFSET without a LIMIT cannot be expressed. Under SqlServer the
// compiler rejects a Limit whose SELECT has no ORDER BY (§4.4/§7
// InvalidLimit).
type Limit struct {
	Source Query
	Count  uint64
	Offset *uint64
}

func Take(source Query, count uint64) *Limit {
	return &Limit{Source: source, Count: count}
}

// WithOffset returns a new Limit with Offset set; it does not mutate l.
func (l *Limit) WithOffset(offset uint64) *Limit {
	o := offset
	return &Limit{Source: l.Source, Count: l.Count, Offset: &o}
}

func (l *Limit) Shape() Shape   { return l.Source.Shape() }
func (l *Limit) isQuery()       {}
func (l *Limit) source() Query  { return l.Source }

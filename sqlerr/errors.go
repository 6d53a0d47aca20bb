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

// Package sqlerr declares the compiler's error kinds (§7). Every
// ToSql* failure that breaks a compile rule is one of these six kinds;
// an argument that is neither a query nor a statement, and a tree deeper
// than the WithMaxDepth cap, are reported as plain errors instead. None
// are retried and none are swallowed (§4.7: "there is no partial
// compilation").
package sqlerr

import (
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrUnresolvedReference is a Column/Alias not in scope.
	ErrUnresolvedReference = errors.NewKind("unresolved reference at %s: %s")
	// ErrKindMismatch is an operator applied to incompatible kinds.
	ErrKindMismatch = errors.NewKind("kind mismatch at %s: %s")
	// ErrArityMismatch is a set-op whose sides differ in projection
	// count, an empty SELECT projection list, an empty IN list, a
	// scalar query with other than one column, or a concat with no
	// arguments.
	ErrArityMismatch = errors.NewKind("arity mismatch at %s: %s")
	// ErrParameterCollision is a caller-named parameter reused with a
	// different value or kind.
	ErrParameterCollision = errors.NewKind("parameter collision at %s: %s")
	// ErrInvalidGrouping is a projection mixing an aggregate and a
	// non-key, non-aggregate column under a dialect that rejects it.
	ErrInvalidGrouping = errors.NewKind("invalid grouping at %s: %s")
	// ErrInvalidLimit is a LIMIT without ORDER BY against a dialect
	// that requires one.
	ErrInvalidLimit = errors.NewKind("invalid limit at %s: %s")
)

// Path identifies the node at which a compile error occurred, as a
// sequence of short tags from the root of the tree being compiled
// (e.g. ["Select", "Where", "Join"]). It is rendered with String.
type Path []string

func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	return strings.Join(p, ">")
}

// New builds an error of kind at the given node path, with a
// human-readable detail message.
func New(kind *errors.Kind, path Path, detail string) error {
	return kind.New(path.String(), detail)
}

// Is reports whether err is of kind kind.
func Is(kind *errors.Kind, err error) bool {
	return kind.Is(err)
}

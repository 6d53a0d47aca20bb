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

package compiler

import "go.uber.org/zap"

// Option configures a Context built by ToSql and its dialect-specific
// wrappers.
type Option func(*Context)

// WithLogger attaches a logger that traces scope pushes and parameter
// binds at debug level. Normaliser rewrites (including materialisation
// boundaries) are not logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithMaxDepth caps the compiler driver's recursion depth, guarding
// against a pathologically deep query tree. The default is 64.
func WithMaxDepth(n int) Option {
	return func(c *Context) { c.maxDepth = n }
}

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

// Package dialect holds the three target SQL dialects as descriptor
// values (§4.4, §9): a single emitter in package compiler branches on
// one Dialect value rather than dispatching to per-database subclasses.
package dialect

import "fmt"

// Name identifies one of the three supported dialects.
type Name int

const (
	SqlServer Name = iota
	SQLite
	PostgreSQL
)

func (n Name) String() string {
	switch n {
	case SqlServer:
		return "SqlServer"
	case SQLite:
		return "SQLite"
	case PostgreSQL:
		return "PostgreSQL"
	default:
		return "Name(?)"
	}
}

// DateUnit is the granularity argument to date-arithmetic functions.
type DateUnit int

const (
	Day DateUnit = iota
	Month
	Year
)

// BoolEmission is how a dialect renders a boolean constant: either an
// inline keyword token, or a request that the caller bind it as an
// integer 0/1 parameter instead.
type BoolEmission struct {
	Inline bool
	Token  string // valid when Inline is true
}

// Dialect is a struct of per-operation behaviour, one value per target
// database, consumed by a single recursive emitter (package compiler)
// instead of one emitter subclass per database.
type Dialect struct {
	Name Name

	// ParamPrefix is prepended to every allocated placeholder name
	// ("@" for SqlServer, ":" for SQLite/PostgreSQL).
	ParamPrefix string

	Concat    func(a, b string) string
	Length    func(x string) string
	Substring func(x, start, length string) string
	Now       func() string

	// DatePart renders Year/Month/Day(x).
	DatePart func(unit DateUnit, x string) string
	// DateAdd renders AddDays/AddMonths/AddYears(x, step), where step
	// is either an inlined integer literal or a placeholder, per
	// InlineDateStep.
	DateAdd func(unit DateUnit, x, step string) string
	// DateDiff renders DiffDays/DiffMonths/DiffYears(a, b).
	DateDiff func(unit DateUnit, a, b string) string

	Ceiling func(x string) string
	Floor   func(x string) string

	// BoolLiteral renders a constant boolean.
	BoolLiteral func(v bool) BoolEmission

	// Limit renders the LIMIT/OFFSET clause body. hasOffset is false
	// when the caller did not specify one.
	Limit func(count string, offset string, hasOffset bool) string

	// InlineDateStep: the small integer step argument to DateAdd is
	// inlined as a literal (SQLite, PostgreSQL) rather than bound as a
	// parameter (SqlServer, whose DATEADD always takes @p).
	InlineDateStep bool

	// RequireOrderByForLimit: LIMIT/OFFSET without an ORDER BY is a
	// compile error (SqlServer's OFFSET…FETCH requires one).
	RequireOrderByForLimit bool
}

func dateUnitSql(u DateUnit) string {
	switch u {
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "day"
	}
}

// SqlServerDialect targets T-SQL.
var SqlServerDialect = Dialect{
	Name:        SqlServer,
	ParamPrefix: "@",
	Concat:      func(a, b string) string { return fmt.Sprintf("CONCAT(%s, %s)", a, b) },
	Length:      func(x string) string { return fmt.Sprintf("LEN(%s)", x) },
	Substring: func(x, start, length string) string {
		return fmt.Sprintf("SUBSTRING(%s, %s, %s)", x, start, length)
	},
	Now: func() string { return "GETDATE()" },
	DatePart: func(unit DateUnit, x string) string {
		switch unit {
		case Month:
			return fmt.Sprintf("MONTH(%s)", x)
		case Year:
			return fmt.Sprintf("YEAR(%s)", x)
		default:
			return fmt.Sprintf("DAY(%s)", x)
		}
	},
	DateAdd: func(unit DateUnit, x, step string) string {
		return fmt.Sprintf("DATEADD(%s, %s, %s)", dateUnitSql(unit), step, x)
	},
	DateDiff: func(unit DateUnit, a, b string) string {
		return fmt.Sprintf("DATEDIFF(%s, %s, %s)", dateUnitSql(unit), a, b)
	},
	Ceiling: func(x string) string { return fmt.Sprintf("CEILING(%s)", x) },
	Floor:   func(x string) string { return fmt.Sprintf("FLOOR(%s)", x) },
	BoolLiteral: func(bool) BoolEmission {
		return BoolEmission{Inline: false}
	},
	Limit: func(count, offset string, hasOffset bool) string {
		o := offset
		if !hasOffset {
			o = "0"
		}
		return fmt.Sprintf("OFFSET %s ROWS FETCH NEXT %s ROWS ONLY", o, count)
	},
	InlineDateStep:         false,
	RequireOrderByForLimit: true,
}

// SQLiteDialect targets SQLite's dialect of SQL.
var SQLiteDialect = Dialect{
	Name:        SQLite,
	ParamPrefix: ":",
	Concat:      func(a, b string) string { return fmt.Sprintf("%s || %s", a, b) },
	Length:      func(x string) string { return fmt.Sprintf("LENGTH(%s)", x) },
	Substring: func(x, start, length string) string {
		return fmt.Sprintf("SUBSTR(%s, %s, %s)", x, start, length)
	},
	Now: func() string { return "datetime('now')" },
	DatePart: func(unit DateUnit, x string) string {
		switch unit {
		case Month:
			return fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", x)
		case Year:
			return fmt.Sprintf("CAST(strftime('%%Y', %s) AS INTEGER)", x)
		default:
			return fmt.Sprintf("CAST(strftime('%%d', %s) AS INTEGER)", x)
		}
	},
	DateAdd: func(unit DateUnit, x, step string) string {
		return fmt.Sprintf("datetime(%s, '+%s %s')", x, step, dateUnitSql(unit))
	},
	DateDiff: func(unit DateUnit, a, b string) string {
		switch unit {
		case Month:
			return fmt.Sprintf(
				"((CAST(strftime('%%Y', %s) AS INTEGER) - CAST(strftime('%%Y', %s) AS INTEGER)) * 12 + "+
					"(CAST(strftime('%%m', %s) AS INTEGER) - CAST(strftime('%%m', %s) AS INTEGER)))",
				b, a, b, a)
		case Year:
			return fmt.Sprintf("(CAST(strftime('%%Y', %s) AS INTEGER) - CAST(strftime('%%Y', %s) AS INTEGER))", b, a)
		default:
			return fmt.Sprintf("CAST((julianday(%s) - julianday(%s)) AS INTEGER)", b, a)
		}
	},
	Ceiling: func(x string) string {
		return fmt.Sprintf("(CASE WHEN %s > CAST(%s AS INTEGER) THEN CAST(%s AS INTEGER) + 1 ELSE CAST(%s AS INTEGER) END)", x, x, x, x)
	},
	Floor: func(x string) string { return fmt.Sprintf("CAST(CAST(%s AS INTEGER) AS REAL)", x) },
	BoolLiteral: func(bool) BoolEmission {
		return BoolEmission{Inline: false}
	},
	Limit: func(count, offset string, hasOffset bool) string {
		if !hasOffset {
			return fmt.Sprintf("LIMIT %s", count)
		}
		return fmt.Sprintf("LIMIT %s OFFSET %s", count, offset)
	},
	InlineDateStep:         true,
	RequireOrderByForLimit: false,
}

// PostgreSQLDialect targets PostgreSQL.
var PostgreSQLDialect = Dialect{
	Name:        PostgreSQL,
	ParamPrefix: ":",
	Concat:      func(a, b string) string { return fmt.Sprintf("%s || %s", a, b) },
	Length:      func(x string) string { return fmt.Sprintf("LENGTH(%s)", x) },
	Substring: func(x, start, length string) string {
		return fmt.Sprintf("SUBSTRING(%s, %s, %s)", x, start, length)
	},
	Now: func() string { return "NOW()" },
	DatePart: func(unit DateUnit, x string) string {
		switch unit {
		case Month:
			return fmt.Sprintf("EXTRACT(MONTH FROM %s)", x)
		case Year:
			return fmt.Sprintf("EXTRACT(YEAR FROM %s)", x)
		default:
			return fmt.Sprintf("EXTRACT(DAY FROM %s)", x)
		}
	},
	DateAdd: func(unit DateUnit, x, step string) string {
		return fmt.Sprintf("(%s + INTERVAL '%s %s')", x, step, dateUnitSql(unit))
	},
	DateDiff: func(unit DateUnit, a, b string) string {
		switch unit {
		case Month:
			return fmt.Sprintf("(EXTRACT(YEAR FROM (%s - %s)) * 12 + EXTRACT(MONTH FROM (%s - %s)))", b, a, b, a)
		case Year:
			return fmt.Sprintf("EXTRACT(YEAR FROM (%s - %s))", b, a)
		default:
			return fmt.Sprintf("EXTRACT(DAY FROM (%s - %s))", b, a)
		}
	},
	Ceiling: func(x string) string { return fmt.Sprintf("CEIL(%s)", x) },
	Floor:   func(x string) string { return fmt.Sprintf("FLOOR(%s)", x) },
	BoolLiteral: func(v bool) BoolEmission {
		if v {
			return BoolEmission{Inline: true, Token: "true"}
		}
		return BoolEmission{Inline: true, Token: "false"}
	},
	Limit: func(count, offset string, hasOffset bool) string {
		if !hasOffset {
			return fmt.Sprintf("LIMIT %s", count)
		}
		return fmt.Sprintf("LIMIT %s OFFSET %s", count, offset)
	},
	InlineDateStep:         true,
	RequireOrderByForLimit: false,
}

// For looks up the descriptor for name.
func For(name Name) Dialect {
	switch name {
	case SqlServer:
		return SqlServerDialect
	case SQLite:
		return SQLiteDialect
	case PostgreSQL:
		return PostgreSQLDialect
	default:
		panic("dialect: unknown dialect name")
	}
}

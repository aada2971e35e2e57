package dbx

import (
	"fmt"
	"strconv"
	"strings"
)

type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DialectForDriver maps a database/sql driver name to its dialect.
func DialectForDriver(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// Rebind rewrites '?' placeholders to $1..$n for PostgreSQL. Question marks
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Placeholders returns n comma-separated '?' markers for IN lists.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// InsertionOrder is the column that reproduces insert order among rows
// sharing a created_at value.
func (d Dialect) InsertionOrder() string {
	if d == Postgres {
		return "seq"
	}
	return "rowid"
}

// GooseDialect is the dialect name goose expects for d.
func (d Dialect) GooseDialect() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite3"
}

// SQLiteDSN appends the pragmas every SQLite connection needs: enforced
// foreign keys, a busy timeout and a parseable time format.
func SQLiteDSN(dsn string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

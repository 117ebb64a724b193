package sqldb

import (
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"
)

// Dialect describes the SQL differences between the supported databases.
type Dialect struct {
	Name string
	// Goose selects the embedded migration set.
	Goose goose.Dialect
	// Numbered placeholders ($1, $2) instead of ?.
	Numbered bool
}

var (
	SQLite   = Dialect{Name: "sqlite", Goose: goose.DialectSQLite3}
	Postgres = Dialect{Name: "postgres", Goose: goose.DialectPostgres, Numbered: true}
)

// Rebind rewrites ? placeholders for the dialect. Queries in this package
// never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

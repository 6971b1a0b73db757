// Package sqlquery renders predicate sets into parameterized SQL over a
// records(entity, id, fields) table whose fields column holds a JSON object.
package sqlquery

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/criteria/internal/domain/predicate"
	"github.com/kailas-cloud/criteria/internal/domain/value"
)

// Dialect selects placeholder style and JSON operators.
type Dialect int

// Supported dialects.
const (
	SQLite Dialect = iota
	Postgres
)

// Builder accumulates bind arguments for one statement.
type Builder struct {
	dialect Dialect
	args    []any
}

// New creates a Builder for the dialect.
func New(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Bind appends v to the argument list and returns its placeholder.
func (b *Builder) Bind(v any) string {
	b.args = append(b.args, v)
	if b.dialect == Postgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// Args returns the bound arguments in placeholder order.
func (b *Builder) Args() []any { return b.args }

// Where renders "entity = ? AND <conditions>" for the set.
func (b *Builder) Where(entity string, set predicate.Set) string {
	parts := make([]string, 0, set.Len()+1)
	parts = append(parts, "entity = "+b.Bind(entity))
	for _, c := range set.Conditions() {
		parts = append(parts, b.condition(c))
	}
	return strings.Join(parts, " AND ")
}

func (b *Builder) condition(c predicate.Condition) string {
	name := c.Field().Name()
	v := c.Value()

	if b.dialect == Postgres {
		key := b.Bind(name)
		if c.Operator() == predicate.Contains {
			return "fields->>" + key + "::text LIKE " + b.Bind("%"+EscapeLike(v.Str())+"%") + `::text ESCAPE '\'`
		}
		switch v.Kind() {
		case value.KindNumber:
			return "(fields->>" + key + "::text)::double precision = " + b.Bind(v.Num()) + "::double precision"
		case value.KindBool:
			return "(fields->>" + key + "::text)::boolean = " + b.Bind(v.Bool()) + "::boolean"
		case value.KindDate:
			return "(fields->>" + key + "::text)::timestamptz = " + b.Bind(v.Time()) + "::timestamptz"
		default:
			return "fields->>" + key + "::text = " + b.Bind(v.Str()) + "::text"
		}
	}

	path := b.Bind("$." + name)
	if c.Operator() == predicate.Contains {
		return "instr(json_extract(fields, " + path + "), " + b.Bind(v.Str()) + ") > 0"
	}
	return "json_extract(fields, " + path + ") = " + b.Bind(sqliteArg(v))
}

func sqliteArg(v value.Value) any {
	switch v.Kind() {
	case value.KindNumber:
		return v.Num()
	case value.KindBool:
		if v.Bool() {
			return 1
		}
		return 0
	case value.KindDate:
		return v.Encode()
	}
	return v.Str()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s matches literally with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

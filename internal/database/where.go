package database

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Where composes AND-ed predicates that reference named parameters.
// Parameters are bound by name, so a fragment may be reused in several
// places of one statement without tracking placeholder positions.
type Where struct {
	conditions []string
	args       map[string]interface{}
}

func NewWhere() *Where {
	return &Where{args: map[string]interface{}{}}
}

// And appends cond when it is non-empty. kv is a flat list of name/value pairs.
func (w *Where) And(cond string, kv ...interface{}) *Where {
	if cond != "" {
		w.conditions = append(w.conditions, cond)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		w.args[kv[i].(string)] = kv[i+1]
	}
	return w
}

// Set binds a parameter that is not tied to a predicate (limits, ratios).
func (w *Where) Set(name string, value interface{}) *Where {
	w.args[name] = value
	return w
}

// Conditions returns the predicates joined with AND, without a keyword.
func (w *Where) Conditions() string {
	return strings.Join(w.conditions, " AND ")
}

// Clause returns " WHERE ..." or an empty string.
func (w *Where) Clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + w.Conditions()
}

func (w *Where) Args() map[string]interface{} {
	return w.args
}

// NamedSelect binds named parameters for q's driver and scans all rows into dest.
func NamedSelect(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, arg interface{}) error {
	bound, args, err := q.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q, dest, bound, args...)
}

// NamedGet binds named parameters for q's driver and scans a single row into dest.
func NamedGet(ctx context.Context, q sqlx.ExtContext, dest interface{}, query string, arg interface{}) error {
	bound, args, err := q.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, q, dest, bound, args...)
}

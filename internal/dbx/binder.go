package dbx

import (
	"strconv"
	"strings"
)

// Binder collects positional query args and renders the placeholder for
// each: "?" for SQLite, "$n" for Postgres.
type Binder struct {
	numbered bool
	args     []any
}

func NewBinder(numbered bool) *Binder { return &Binder{numbered: numbered} }

// Bind appends v and returns its placeholder.
func (b *Binder) Bind(v any) string {
	b.args = append(b.args, v)
	if b.numbered {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

// List binds every value and returns them comma separated, for IN (...).
func (b *Binder) List(vs ...any) string {
	ps := make([]string, len(vs))
	for i, v := range vs {
		ps[i] = b.Bind(v)
	}
	return strings.Join(ps, ", ")
}

func (b *Binder) Args() []any { return b.args }

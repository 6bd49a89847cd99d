// Package filter models the boolean filter grammar accepted by the remote
// index: equality clauses `field = "value"` combined with AND, OR and
// parentheses.
package filter

import "strings"

// Condition is a single equality clause.
type Condition struct {
	field string
	value string
}

// Eq creates an equality clause. Values are not validated; an empty value is
// a legal clause that simply matches nothing on most indexes.
func Eq(field, value string) Condition {
	return Condition{field: field, value: value}
}

// Field returns the index field name.
func (c Condition) Field() string { return c.field }

// Value returns the unquoted literal.
func (c Condition) Value() string { return c.value }

// String renders the clause as `field = "value"`.
func (c Condition) String() string {
	return c.field + ` = "` + valueEscaper.Replace(c.value) + `"`
}

// Term is one operand of the top-level AND: either a bare clause or a
// parenthesized OR group.
type Term struct {
	any     []Condition
	grouped bool
}

// Clause wraps a single condition as an ungrouped term.
func Clause(c Condition) Term {
	return Term{any: []Condition{c}}
}

// AnyOf builds a parenthesized OR group. A single condition still gets
// parentheses; an empty call yields an empty term.
func AnyOf(conds ...Condition) Term {
	if len(conds) == 0 {
		return Term{}
	}
	return Term{any: append([]Condition(nil), conds...), grouped: true}
}

// Conditions returns the OR-ed conditions of the term.
func (t Term) Conditions() []Condition { return t.any }

// Grouped reports whether the term renders inside parentheses.
func (t Term) Grouped() bool { return t.grouped }

// IsEmpty reports whether the term has no conditions.
func (t Term) IsEmpty() bool { return len(t.any) == 0 }

// String renders the term.
func (t Term) String() string {
	if t.IsEmpty() {
		return ""
	}
	parts := make([]string, len(t.any))
	for i, c := range t.any {
		parts[i] = c.String()
	}
	joined := strings.Join(parts, " OR ")
	if t.grouped {
		return "(" + joined + ")"
	}
	return joined
}

// Expression is an AND of terms.
type Expression struct {
	terms []Term
}

// And combines terms; empty terms are dropped.
func And(terms ...Term) Expression {
	var e Expression
	return e.Append(terms...)
}

// Append returns a new expression with the given terms added at the end.
func (e Expression) Append(terms ...Term) Expression {
	out := make([]Term, 0, len(e.terms)+len(terms))
	out = append(out, e.terms...)
	for _, t := range terms {
		if !t.IsEmpty() {
			out = append(out, t)
		}
	}
	return Expression{terms: out}
}

// Terms returns the AND-ed terms.
func (e Expression) Terms() []Term { return e.terms }

// IsEmpty reports whether the expression has no terms.
func (e Expression) IsEmpty() bool { return len(e.terms) == 0 }

// String renders the expression; "" when empty.
func (e Expression) String() string {
	parts := make([]string, len(e.terms))
	for i, t := range e.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " AND ")
}

// Render returns the wire string and false when there is nothing to filter on,
// so callers can tell "no filter" apart from a filter that matches nothing.
func (e Expression) Render() (string, bool) {
	if e.IsEmpty() {
		return "", false
	}
	return e.String(), true
}

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
)

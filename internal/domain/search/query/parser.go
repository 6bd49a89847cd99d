// Package query turns a raw search box string into residual free text plus
// structured equality clauses lifted from inline `field:value` directives.
package query

import (
	"regexp"
	"strings"

	"github.com/kailas-cloud/govrecords/internal/domain/search/filter"
)

// Parsed is the result of parsing one raw query. It is never persisted.
type Parsed struct {
	FreeText string
	Clauses  []filter.Condition
}

// Filter returns the directive clauses as an AND expression.
func (p Parsed) Filter() filter.Expression {
	terms := make([]filter.Term, len(p.Clauses))
	for i, c := range p.Clauses {
		terms[i] = filter.Clause(c)
	}
	return filter.And(terms...)
}

// FilterExpression renders the directive clauses. ok is false when there are
// none; an empty string is never returned with ok=true.
func (p Parsed) FilterExpression() (expr string, ok bool) {
	return p.Filter().Render()
}

// directiveRe matches `keyword:value` or `keyword:"quoted value"` at the start
// of the input or after whitespace. An unterminated quote does not match and
// stays in the free text.
var directiveRe = regexp.MustCompile(
	`(?i)(^|\s)(` + keywordAlternation() + `):(?:"([^"]*)"|([^\s"]+))`,
)

var spaceRe = regexp.MustCompile(`\s+`)

func keywordAlternation() string {
	kws := make([]string, len(Directives))
	for i, d := range Directives {
		kws[i] = regexp.QuoteMeta(d.Keyword)
	}
	return strings.Join(kws, "|")
}

// Parse extracts directives from raw and returns the residual free text.
// Parse is total: malformed directives are left in the free text.
//
// With strict set, a non-empty residual without any quote character is
// wrapped in quotes to request exact-phrase matching. Directive clauses are
// not affected by strict mode.
func Parse(raw string, strict bool) Parsed {
	var clauses []filter.Condition

	residual := directiveRe.ReplaceAllStringFunc(raw, func(m string) string {
		sub := directiveRe.FindStringSubmatch(m)
		field, ok := FieldFor(sub[2])
		if !ok {
			return m
		}
		value := sub[4]
		if strings.HasPrefix(m[len(sub[1])+len(sub[2])+1:], `"`) {
			value = strings.TrimSpace(sub[3])
		}
		clauses = append(clauses, filter.Eq(field, value))
		return " "
	})

	residual = strings.TrimSpace(spaceRe.ReplaceAllString(residual, " "))

	if strict && residual != "" && !strings.Contains(residual, `"`) {
		residual = `"` + residual + `"`
	}

	return Parsed{FreeText: residual, Clauses: clauses}
}

package search

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/search/filter"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/repository/index"
)

// translation is a composed request rendered for FT.SEARCH.
type translation struct {
	query  string
	sortBy *db.SortBy
	// unsatisfiable is set when an AND term has no usable condition
	// left, so no document can match and the index need not be asked.
	unsatisfiable bool
}

// translate renders a composed request in RediSearch dialect 2 syntax.
// Free text outside quotes becomes escaped terms, quoted segments become
// exact phrases, filter clauses become TAG matches, all intersected.
func translate(req request.Request) (translation, error) {
	var t translation

	sortBy, err := translateSort(req.Sort())
	if err != nil {
		return t, err
	}
	t.sortBy = sortBy

	parts := translateText(req.Query())
	for _, term := range req.Filter().Terms() {
		s, ok := translateTerm(term)
		if !ok {
			t.unsatisfiable = true
			return t, nil
		}
		parts = append(parts, s)
	}

	if len(parts) == 0 {
		t.query = "*"
	} else {
		t.query = strings.Join(parts, " ")
	}
	return t, nil
}

func translateText(q string) []string {
	var parts []string
	for i, seg := range strings.Split(q, `"`) {
		words := strings.Fields(seg)
		if len(words) == 0 {
			continue
		}
		for j, w := range words {
			words[j] = queryEscaper.Replace(w)
		}
		if i%2 == 1 {
			parts = append(parts, `"`+strings.Join(words, " ")+`"`)
			continue
		}
		parts = append(parts, words...)
	}
	return parts
}

// translateTerm renders one AND operand. Conditions with an empty value can
// never match a TAG and are dropped; ok is false when nothing is left.
func translateTerm(term filter.Term) (string, bool) {
	conds := make([]filter.Condition, 0, len(term.Conditions()))
	for _, c := range term.Conditions() {
		if strings.TrimSpace(c.Value()) != "" {
			conds = append(conds, c)
		}
	}
	switch {
	case len(conds) == 0:
		return "", false
	case len(conds) == 1:
		return tagMatch(conds[0].Field(), conds[0].Value()), true
	case sameField(conds):
		values := make([]string, len(conds))
		for i, c := range conds {
			values[i] = tagEscaper.Replace(c.Value())
		}
		return fmt.Sprintf("@%s:{%s}", conds[0].Field(), strings.Join(values, " | ")), true
	default:
		parts := make([]string, len(conds))
		for i, c := range conds {
			parts[i] = tagMatch(c.Field(), c.Value())
		}
		return "(" + strings.Join(parts, " | ") + ")", true
	}
}

func sameField(conds []filter.Condition) bool {
	for _, c := range conds[1:] {
		if c.Field() != conds[0].Field() {
			return false
		}
	}
	return true
}

func tagMatch(field, value string) string {
	return fmt.Sprintf("@%s:{%s}", field, tagEscaper.Replace(value))
}

// translateSort maps the first "field:dir" directive onto a SORTABLE
// attribute. FT.SEARCH accepts a single SORTBY; later directives are ignored.
func translateSort(directives []string) (*db.SortBy, error) {
	if len(directives) == 0 {
		return nil, nil
	}
	field, dir, _ := strings.Cut(directives[0], ":")
	attr, ok := index.SortAttribute(field)
	if !ok {
		return nil, fmt.Errorf("sort by %q: %w", field, domain.ErrInvalidRequest)
	}
	order := db.SortAsc
	switch strings.ToLower(dir) {
	case "", "asc":
	case "desc":
		order = db.SortDesc
	default:
		return nil, fmt.Errorf("sort direction %q: %w", dir, domain.ErrInvalidRequest)
	}
	return &db.SortBy{Field: attr, Order: order}, nil
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)

package query

import (
	"strings"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

// Directive maps an inline keyword to the index field it filters on.
type Directive struct {
	Keyword string `json:"keyword"`
	Field   string `json:"field"`
}

// Directives is the fixed directive vocabulary, in documentation order.
var Directives = []Directive{
	{Keyword: "awardee", Field: award.FieldAwardee},
	{Keyword: "organization", Field: award.FieldOrganization},
	{Keyword: "contract", Field: award.FieldContractNo},
	{Keyword: "reference", Field: award.FieldReferenceID},
	{Keyword: "title", Field: award.FieldTitle},
	{Keyword: "category", Field: award.FieldCategory},
	{Keyword: "status", Field: award.FieldStatus},
}

// FieldFor returns the index field for a keyword (case-insensitive).
func FieldFor(keyword string) (string, bool) {
	for _, d := range Directives {
		if strings.EqualFold(d.Keyword, keyword) {
			return d.Field, true
		}
	}
	return "", false
}

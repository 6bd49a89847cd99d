// Package index creates the remote award index and uploads documents to it.
package index

import (
	"strings"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/db/meili"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

// PrimaryKey is the document identifier attribute.
const PrimaryKey = award.FieldID

// textSuffix names the TEXT companion of a TAG field in the Redis schema.
const textSuffix = "_text"

// tagSeparator never appears in source values, so every TAG is one token.
const tagSeparator = "\x1f"

// FilterableFields are the attributes usable in filter expressions.
var FilterableFields = []string{
	award.FieldAwardee,
	award.FieldOrganization,
	award.FieldArea,
	award.FieldCategory,
	award.FieldStatus,
	award.FieldContractNo,
	award.FieldReferenceID,
	award.FieldTitle,
}

// SortableFields are the attributes usable in sort directives.
var SortableFields = []string{award.FieldAmount, award.FieldDate}

// searchableText are the attributes matched by free text on Redis.
var searchableText = []string{award.FieldTitle, award.FieldAwardee, award.FieldOrganization}

// MeiliSettings returns the Meilisearch index settings.
func MeiliSettings() *meili.Settings {
	return &meili.Settings{
		SearchableAttributes: []string{"*"},
		FilterableAttributes: FilterableFields,
		SortableAttributes:   SortableFields,
		SeparatorTokens:      []string{" ", "-", "|", "/"},
		NonSeparatorTokens:   []string{".", "&", ",", "'", "(", ")"},
	}
}

// RedisDefinition returns the FT.CREATE definition for award hashes under prefix.
func RedisDefinition(name, prefix string) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).Prefix(prefix)
	for _, f := range FilterableFields {
		b.TagWithOpts(f, tagSeparator, false)
	}
	for _, f := range searchableText {
		b.AliasedText(f, TextAlias(f))
	}
	return b.
		SortableNumeric(award.FieldAmountValue).
		SortableNumeric(award.FieldDateTS).
		Build()
}

// TextAlias returns the TEXT alias for a searchable attribute.
func TextAlias(field string) string { return field + textSuffix }

// SortAttribute maps a sort field to the Redis attribute holding its
// sortable value. ok is false for fields the schema cannot sort by.
func SortAttribute(field string) (string, bool) {
	switch field {
	case award.FieldAmount:
		return award.FieldAmountValue, true
	case award.FieldDate:
		return award.FieldDateTS, true
	default:
		return "", false
	}
}

// Key returns the hash key of a document.
func Key(prefix, id string) string { return prefix + id }

// IDFromKey strips prefix from a hash key.
func IDFromKey(prefix, key string) string { return strings.TrimPrefix(key, prefix) }

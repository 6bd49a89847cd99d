// Package award models a single procurement award or budget line as stored
// in the remote full-text index.
package award

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Index field names. These are the attribute names of the remote index and
// the column names of the import CSVs.
const (
	FieldID           = "id"
	FieldTitle        = "award_title"
	FieldAwardee      = "awardee_name"
	FieldOrganization = "organization_name"
	FieldCategory     = "business_category"
	FieldArea         = "area_of_delivery"
	FieldAmount       = "contract_amount"
	FieldDate         = "award_date"
	FieldStatus       = "award_status"
	FieldContractNo   = "contract_no"
	FieldReferenceID  = "reference_id"

	// FieldDateTS is the numeric companion of FieldDate used for sorting on
	// backends that cannot sort date strings.
	FieldDateTS = "award_date_ts"
	// FieldAmountValue is the parsed numeric companion of FieldAmount.
	FieldAmountValue = "contract_amount_value"
)

// Fields lists every stored attribute in export column order.
var Fields = []string{
	FieldID,
	FieldReferenceID,
	FieldContractNo,
	FieldTitle,
	FieldAwardee,
	FieldOrganization,
	FieldCategory,
	FieldArea,
	FieldAmount,
	FieldDate,
	FieldStatus,
}

// Award is a read-only search document. Values are kept as the index
// returns them; Amount in particular may be unparsable.
type Award struct {
	ID           string `json:"id"`
	ReferenceID  string `json:"reference_id"`
	ContractNo   string `json:"contract_no"`
	Title        string `json:"award_title"`
	Awardee      string `json:"awardee_name"`
	Organization string `json:"organization_name"`
	Category     string `json:"business_category"`
	Area         string `json:"area_of_delivery"`
	Amount       string `json:"contract_amount"`
	Date         string `json:"award_date"`
	Status       string `json:"award_status"`
}

// FromFields hydrates an Award from a flat attribute map. Unknown keys are ignored.
func FromFields(m map[string]string) Award {
	return Award{
		ID:           m[FieldID],
		ReferenceID:  m[FieldReferenceID],
		ContractNo:   m[FieldContractNo],
		Title:        m[FieldTitle],
		Awardee:      m[FieldAwardee],
		Organization: m[FieldOrganization],
		Category:     m[FieldCategory],
		Area:         m[FieldArea],
		Amount:       m[FieldAmount],
		Date:         m[FieldDate],
		Status:       m[FieldStatus],
	}
}

// Value returns the attribute named by an index field, or "" for unknown names.
func (a *Award) Value(field string) string {
	switch field {
	case FieldID:
		return a.ID
	case FieldReferenceID:
		return a.ReferenceID
	case FieldContractNo:
		return a.ContractNo
	case FieldTitle:
		return a.Title
	case FieldAwardee:
		return a.Awardee
	case FieldOrganization:
		return a.Organization
	case FieldCategory:
		return a.Category
	case FieldArea:
		return a.Area
	case FieldAmount:
		return a.Amount
	case FieldDate:
		return a.Date
	case FieldStatus:
		return a.Status
	default:
		return ""
	}
}

// Set assigns the attribute named by an index field. It reports false for unknown names.
func (a *Award) Set(field, value string) bool {
	switch field {
	case FieldID:
		a.ID = value
	case FieldReferenceID:
		a.ReferenceID = value
	case FieldContractNo:
		a.ContractNo = value
	case FieldTitle:
		a.Title = value
	case FieldAwardee:
		a.Awardee = value
	case FieldOrganization:
		a.Organization = value
	case FieldCategory:
		a.Category = value
	case FieldArea:
		a.Area = value
	case FieldAmount:
		a.Amount = value
	case FieldDate:
		a.Date = value
	case FieldStatus:
		a.Status = value
	default:
		return false
	}
	return true
}

// AmountValue parses Amount, treating unparsable values as zero.
// Thousands separators and a leading currency sign are tolerated.
func (a *Award) AmountValue() float64 {
	return ParseAmount(a.Amount)
}

// ParseAmount parses a monetary string; anything unparsable yields 0.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₱")
	s = strings.TrimPrefix(s, "PHP")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// DateUnix parses Date with a handful of layouts seen in the source data.
// The second return value is false when no layout matches.
func (a *Award) DateUnix() (int64, bool) {
	s := strings.TrimSpace(a.Date)
	if s == "" {
		return 0, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}

// ToFields flattens an Award for hash storage. Empty attributes are omitted;
// contract_amount_value is always added and award_date_ts is added when the
// date parses.
func (a *Award) ToFields() map[string]string {
	m := make(map[string]string, len(Fields)+1)
	for _, f := range Fields {
		if v := a.Value(f); v != "" {
			m[f] = v
		}
	}
	m[FieldAmountValue] = strconv.FormatFloat(a.AmountValue(), 'f', -1, 64)
	if ts, ok := a.DateUnix(); ok {
		m[FieldDateTS] = strconv.FormatInt(ts, 10)
	}
	return m
}

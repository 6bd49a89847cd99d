package sortmode

import (
	"fmt"

	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

// Mode is the server-side ordering requested from the index.
type Mode string

// Sort mode constants.
const (
	// Relevance leaves ranking to the index.
	Relevance Mode = "relevance"
	Date      Mode = "date"
	Amount    Mode = "amount"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Relevance || m == Date || m == Amount
}

// Parse validates s; an empty string means Relevance.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Relevance, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid sort mode: %q", s)
	}
	return m, nil
}

// Directive returns the index sort directive, or nil for relevance ranking.
func (m Mode) Directive() []string {
	switch m {
	case Date:
		return []string{award.FieldDate + ":desc"}
	case Amount:
		return []string{award.FieldAmount + ":desc"}
	default:
		return nil
	}
}

package chi

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
)

// ExportCSV handles GET /v1/search/export.csv: the whole reconciled list,
// one row per record in award.Fields column order. A failed fetch is an
// error here; an empty CSV would be indistinguishable from no matches.
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	in, ok := s.bind(w, r)
	if !ok {
		return
	}

	out := s.search.Search(r.Context(), in)
	if out.Status == result.StatusFailed {
		s.handleDomainError(w, fmt.Errorf("%w: %s", domain.ErrFetchFailed, out.Diagnostics.Error))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="search-results.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := writeCSV(w, out.List); err != nil {
		s.logger.Warn("CSV export interrupted", zap.Error(err))
	}
}

// writeCSV writes a header row and one row per record. Embedded quotes are doubled.
func writeCSV(w http.ResponseWriter, items []award.Award) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(award.Fields); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(award.Fields))
	for i := range items {
		for j, f := range award.Fields {
			row[j] = items[i].Value(f)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/domain/search/state"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

const maxCell = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// amountColumn is right-aligned.
const amountColumn = 5

func renderOutcome(w io.Writer, out searchuc.Outcome) {
	renderView(w, out.Status, out.Page, out.EstimatedTotalHits, out.ProcessingTimeMs, out.Diagnostics)
}

func renderState(w io.Writer, st state.State) {
	switch st.Status {
	case result.StatusIdle:
		return
	case result.StatusLoading:
		req := st.Diagnostics().Request
		fmt.Fprintln(w, dimStyle.Render("searching "+describe(req.Query, req.Filter)))
		return
	}
	renderView(w, st.Status, st.View(), st.EstimatedTotal, st.ProcessingTimeMs, st.Diagnostics())
}

func renderView(w io.Writer, status result.Status, page result.Page, estimated, tookMs int, diag result.Diagnostics) {
	switch status {
	case result.StatusSuppressed:
		fmt.Fprintln(w, "Nothing to search. Enter a query, pick a filter, or enable browse.")
		return
	case result.StatusFailed:
		fmt.Fprintln(w, errStyle.Render("Search failed: "+diag.Error))
		fmt.Fprintln(w, dimStyle.Render("last request: "+describe(diag.Request.Query, diag.Request.Filter)))
		return
	case result.StatusEmpty:
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%d results, page %d of %d (~%d hits, %d ms)\n",
		page.TotalItems, page.Page, page.TotalPages, estimated, tookMs)
	if len(page.Items) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(page out of range)"))
		return
	}
	fmt.Fprintln(w, awardTable(page).Render())
}

func awardTable(page result.Page) *table.Table {
	first := (page.Page-1)*page.PageSize + 1
	rows := make([][]string, 0, len(page.Items))
	for i := range page.Items {
		a := &page.Items[i]
		rows = append(rows, []string{
			fmt.Sprint(first + i),
			a.ReferenceID,
			truncate(a.Title),
			truncate(a.Awardee),
			truncate(a.Organization),
			a.Amount,
			a.Date,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Reference", "Title", "Awardee", "Organization", "Amount", "Date").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == amountColumn:
				return amountStyle
			default:
				return cellStyle
			}
		})
}

func describe(q, filter string) string {
	var parts []string
	if q != "" {
		parts = append(parts, fmt.Sprintf("q=%q", q))
	}
	if filter != "" {
		parts = append(parts, "filter="+filter)
	}
	if len(parts) == 0 {
		return "(everything)"
	}
	return strings.Join(parts, " ")
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxCell {
		return s
	}
	r := []rune(s)
	return string(r[:maxCell-1]) + "…"
}

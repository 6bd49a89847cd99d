package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

type searchFlags struct {
	strict       bool
	areas        []string
	awardees     []string
	organization []string
	category     string
	sort         string
	tableSort    string
	tableDir     string
	page         int
	pageSize     int
	dedupe       bool
	browse       bool
	json         bool
}

func (c *cli) searchCmd() *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run one search and print the first page",
		Long: `Runs a single search. The query accepts inline directives such as
awardee:"ABC Corp" or status:Awarded next to free text; run with no query
and no filters plus --browse to list everything.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}
			in, err := f.input(cmd, env, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := env.Search.Search(cmd.Context(), in)
			if f.json {
				if err := writeOutcomeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				renderOutcome(cmd.OutOrStdout(), out)
			}
			if out.Status == result.StatusFailed {
				return fmt.Errorf("search failed: %s", out.Diagnostics.Error)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&f.strict, "strict", false, "match the free text as one exact phrase")
	fl.StringArrayVar(&f.areas, "area", nil, "area of delivery (repeatable)")
	fl.StringArrayVar(&f.awardees, "awardee", nil, "awardee name (repeatable)")
	fl.StringArrayVar(&f.organization, "organization", nil, "procuring organization (repeatable)")
	fl.StringVar(&f.category, "category", facet.AllCategories, "business category")
	fl.StringVarP(&f.sort, "sort", "s", string(sortmode.Relevance), "ordering: relevance, date, amount")
	fl.StringVar(&f.tableSort, "table-sort", "", "sort the fetched list by a column")
	fl.StringVar(&f.tableDir, "table-dir", "", "table sort direction: asc, desc")
	fl.IntVarP(&f.page, "page", "p", 1, "page number")
	fl.IntVarP(&f.pageSize, "page-size", "n", 0, "page size (default from config)")
	fl.BoolVar(&f.dedupe, "dedupe", true, "collapse likely duplicate records")
	fl.BoolVar(&f.browse, "browse", false, "list everything when nothing is searched")
	fl.BoolVar(&f.json, "json", false, "output as JSON")
	return cmd
}

func (f *searchFlags) input(cmd *cobra.Command, env *Env, q string) (searchuc.Input, error) {
	mode, err := sortmode.Parse(f.sort)
	if err != nil {
		return searchuc.Input{}, err
	}

	in := searchuc.Input{
		Query:     q,
		Strict:    f.strict,
		Category:  f.category,
		SortMode:  mode,
		Page:      f.page,
		PageSize:  env.Defaults.DefaultPageSize,
		Dedupe:    env.Defaults.DedupeDefault(),
		BrowseAll: env.Defaults.BrowseAll,
	}
	in.Facets = facet.Selection{}.
		With(facet.Area, f.areas...).
		With(facet.Awardee, f.awardees...).
		With(facet.Organization, f.organization...)

	if f.tableSort != "" {
		if !reconcile.IsSortable(f.tableSort) {
			return searchuc.Input{}, fmt.Errorf("%q is not a sortable column (one of %s)",
				f.tableSort, strings.Join(reconcile.SortableFields, ", "))
		}
		dir, err := reconcile.ParseDirection(f.tableDir)
		if err != nil {
			return searchuc.Input{}, err
		}
		in.TableSort = &reconcile.TableSort{Field: f.tableSort, Direction: dir}
	}

	if f.pageSize > 0 {
		in.PageSize = f.pageSize
	}
	if in.PageSize <= 0 {
		in.PageSize = 20
	}
	if cmd.Flags().Changed("dedupe") {
		in.Dedupe = f.dedupe
	}
	if cmd.Flags().Changed("browse") {
		in.BrowseAll = f.browse
	}
	return in, nil
}

type outcomeJSON struct {
	Items              any                `json:"items"`
	Page               int                `json:"page"`
	PageSize           int                `json:"page_size"`
	TotalPages         int                `json:"total_pages"`
	TotalItems         int                `json:"total_items"`
	EstimatedTotalHits int                `json:"estimated_total_hits"`
	ProcessingTimeMs   int                `json:"processing_time_ms"`
	Status             result.Status      `json:"status"`
	Diagnostics        result.Diagnostics `json:"diagnostics"`
}

func writeOutcomeJSON(cmd *cobra.Command, out searchuc.Outcome) error {
	items := any(out.Page.Items)
	if len(out.Page.Items) == 0 {
		items = []struct{}{}
	}
	data, err := json.MarshalIndent(outcomeJSON{
		Items:              items,
		Page:               out.Page.Page,
		PageSize:           out.Page.PageSize,
		TotalPages:         out.Page.TotalPages,
		TotalItems:         out.Page.TotalItems,
		EstimatedTotalHits: out.EstimatedTotalHits,
		ProcessingTimeMs:   out.ProcessingTimeMs,
		Status:             out.Status,
		Diagnostics:        out.Diagnostics,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

package search

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/reconcile"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
	"github.com/kailas-cloud/govrecords/internal/domain/search/state"
	"github.com/kailas-cloud/govrecords/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterSearchMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockFetcher struct {
	raw   result.Raw
	err   error
	calls int
	last  request.Request
}

func (m *mockFetcher) Fetch(_ context.Context, req request.Request) (result.Raw, error) {
	m.calls++
	m.last = req
	return m.raw, m.err
}

func input(q string) Input {
	in := state.New(20, true, false).Input
	in.Query = q
	return in
}

func hits(ids ...string) []award.Award {
	out := make([]award.Award, len(ids))
	for i, id := range ids {
		out[i] = award.Award{ID: id, Title: "t-" + id, Amount: "1"}
	}
	return out
}

// --- Prepare ---

func TestPrepare_ComposesRequest(t *testing.T) {
	svc := New(&mockFetcher{}, Options{}, zap.NewNop())

	in := input(`awardee:"ABC Corp" status:Awarded office furniture`)
	in.Facets = facet.Selection{}.With(facet.Area, "Metro Manila", "Cebu")
	in.Category = "Goods"
	in.SortMode = sortmode.Amount

	req, suppressed := svc.Prepare(in)
	if suppressed {
		t.Fatal("should not be suppressed")
	}
	want := request.Description{
		Query: "office furniture",
		Filter: `business_category = "Goods"` +
			` AND (area_of_delivery = "Metro Manila" OR area_of_delivery = "Cebu")` +
			` AND awardee_name = "ABC Corp" AND award_status = "Awarded"`,
		Sort:  []string{"contract_amount:desc"},
		Limit: request.DefaultLimit,
	}
	if diff := cmp.Diff(want, req.Describe()); diff != "" {
		t.Errorf("request (-want +got):\n%s", diff)
	}
}

func TestPrepare_Suppression(t *testing.T) {
	svc := New(&mockFetcher{}, Options{DefaultLimit: 1000, BrowseLimit: 10000}, zap.NewNop())

	tests := []struct {
		name       string
		in         func() Input
		suppressed bool
		limit      int
	}{
		{"empty", func() Input { return input("") }, true, 1000},
		{"whitespace", func() Input { return input("   ") }, true, 1000},
		{"text", func() Input { return input("chairs") }, false, 1000},
		{"filter only", func() Input {
			in := input("")
			in.Category = "Goods"
			return in
		}, false, 1000},
		{"directive only", func() Input { return input("status:Awarded") }, false, 1000},
		{"browse all", func() Input {
			in := input("")
			in.BrowseAll = true
			return in
		}, false, 10000},
		{"browse all with text", func() Input {
			in := input("chairs")
			in.BrowseAll = true
			return in
		}, false, 1000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, suppressed := svc.Prepare(tc.in())
			if suppressed != tc.suppressed {
				t.Errorf("suppressed = %v, want %v", suppressed, tc.suppressed)
			}
			if req.Limit() != tc.limit {
				t.Errorf("limit = %d, want %d", req.Limit(), tc.limit)
			}
		})
	}
}

// --- Search ---

func TestSearch_Suppressed_NoFetch(t *testing.T) {
	f := &mockFetcher{}
	svc := New(f, Options{}, zap.NewNop())

	out := svc.Search(context.Background(), input(""))
	if out.Status != result.StatusSuppressed {
		t.Errorf("Status = %s", out.Status)
	}
	if f.calls != 0 {
		t.Errorf("fetcher called %d times", f.calls)
	}
	if len(out.Page.Items) != 0 {
		t.Errorf("items = %v", out.Page.Items)
	}
}

func TestSearch_Success(t *testing.T) {
	f := &mockFetcher{raw: result.Raw{Hits: hits("a", "b", "c"), EstimatedTotalHits: 3, ProcessingTimeMs: 4}}
	svc := New(f, Options{}, zap.NewNop())

	in := input("chairs")
	in.PageSize = 2
	out := svc.Search(context.Background(), in)

	if out.Status != result.StatusOK {
		t.Fatalf("Status = %s", out.Status)
	}
	if out.Page.TotalPages != 2 || out.Page.TotalItems != 3 || len(out.Page.Items) != 2 {
		t.Errorf("page = %+v", out.Page)
	}
	if out.EstimatedTotalHits != 3 || out.ProcessingTimeMs != 4 {
		t.Errorf("meta = %d/%d", out.EstimatedTotalHits, out.ProcessingTimeMs)
	}
	if len(out.List) != 3 {
		t.Errorf("List len = %d", len(out.List))
	}
	if out.Diagnostics.Request.Query != "chairs" || out.Diagnostics.Error != "" {
		t.Errorf("diagnostics = %+v", out.Diagnostics)
	}
}

func TestSearch_Empty(t *testing.T) {
	svc := New(&mockFetcher{}, Options{}, zap.NewNop())

	out := svc.Search(context.Background(), input("nothing matches"))
	if out.Status != result.StatusEmpty {
		t.Errorf("Status = %s, want empty", out.Status)
	}
}

func TestSearch_FailureContained(t *testing.T) {
	f := &mockFetcher{err: errors.New("connection refused")}
	svc := New(f, Options{}, zap.NewNop())

	in := input("pipes status:Open")
	out := svc.Search(context.Background(), in)

	if out.Status != result.StatusFailed {
		t.Fatalf("Status = %s, want failed", out.Status)
	}
	if len(out.Page.Items) != 0 || out.Page.TotalItems != 0 {
		t.Errorf("page = %+v", out.Page)
	}
	want := request.Description{Query: "pipes", Filter: `award_status = "Open"`, Limit: request.DefaultLimit}
	if diff := cmp.Diff(want, out.Diagnostics.Request); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
	if out.Diagnostics.Error == "" {
		t.Error("expected diagnostic error")
	}
}

func TestFetch_WrapsErrFetchFailed(t *testing.T) {
	svc := New(&mockFetcher{err: errors.New("boom")}, Options{}, zap.NewNop())
	_, err := svc.Fetch(context.Background(), request.Request{})
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}

	wrapped := New(&mockFetcher{err: domain.ErrFetchFailed}, Options{}, zap.NewNop())
	_, err = wrapped.Fetch(context.Background(), request.Request{})
	if err != domain.ErrFetchFailed { //nolint:errorlint // must not be double-wrapped
		t.Errorf("double-wrapped: %v", err)
	}
}

func TestSearch_DedupeAndTableSort(t *testing.T) {
	raw := []award.Award{
		{ID: "1", Amount: "100", Title: "Chairs", Awardee: "ABC"},
		{ID: "2", Amount: "abc", Title: "Desks", Awardee: "XYZ"},
		{ID: "3", Amount: "100", Title: "chairs", Awardee: "abc"},
		{ID: "4", Amount: "50", Title: "Tables", Awardee: "DEF"},
	}
	svc := New(&mockFetcher{raw: result.Raw{Hits: raw}}, Options{}, zap.NewNop())

	in := input("furniture")
	in.TableSort = &reconcile.TableSort{Field: award.FieldAmount, Direction: reconcile.Asc}
	out := svc.Search(context.Background(), in)

	var ids []string
	for _, a := range out.Page.Items {
		ids = append(ids, a.ID)
	}
	if diff := cmp.Diff([]string{"2", "4", "1"}, ids); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestSearch_PageBeyondLast(t *testing.T) {
	svc := New(&mockFetcher{raw: result.Raw{Hits: hits("a", "b")}}, Options{}, zap.NewNop())

	in := input("x")
	in.Page = 5
	out := svc.Search(context.Background(), in)
	if out.Page.Items == nil || len(out.Page.Items) != 0 {
		t.Errorf("items = %#v, want empty non-nil", out.Page.Items)
	}
	if out.Page.TotalPages != 1 {
		t.Errorf("TotalPages = %d", out.Page.TotalPages)
	}
}

// --- InstrumentedFetcher ---

func TestInstrumentedFetcher(t *testing.T) {
	inner := &mockFetcher{raw: result.Raw{Hits: hits("a")}}
	f := NewInstrumentedFetcher(inner, "test", zap.NewNop())

	raw, err := f.Fetch(context.Background(), request.Request{})
	if err != nil || len(raw.Hits) != 1 {
		t.Fatalf("Fetch = %+v, %v", raw, err)
	}

	inner.err = errors.New("down")
	if _, err = f.Fetch(context.Background(), request.Request{}); err == nil {
		t.Fatal("expected error")
	}
}

// --- Generation ---

func TestGeneration(t *testing.T) {
	var g Generation
	if g.IsLatest(0) {
		t.Error("0 is never latest")
	}
	a := g.Next()
	b := g.Next()
	if b <= a {
		t.Fatalf("not increasing: %d, %d", a, b)
	}
	if g.IsLatest(a) || !g.IsLatest(b) || g.Current() != b {
		t.Errorf("IsLatest(a)=%v IsLatest(b)=%v Current=%d", g.IsLatest(a), g.IsLatest(b), g.Current())
	}
}

package request

import (
	"slices"
	"strings"
	"testing"

	"github.com/kailas-cloud/govrecords/internal/domain/search/facet"
	"github.com/kailas-cloud/govrecords/internal/domain/search/query"
	"github.com/kailas-cloud/govrecords/internal/domain/search/sortmode"
)

func TestCompose_FacetsThenDirectives(t *testing.T) {
	parsed := query.Parse(`awardee:"ABC Corp" status:Awarded office furniture`, false)
	facets := facet.Build(facet.Selection{facet.Area: {"Metro Manila", "Cebu"}}, "Goods")

	r := Compose(parsed, facets, sortmode.Relevance)

	if r.Query() != "office furniture" {
		t.Errorf("Query() = %q", r.Query())
	}
	f, ok := r.FilterString()
	if !ok {
		t.Fatal("expected filter")
	}
	want := `business_category = "Goods" AND ` +
		`(area_of_delivery = "Metro Manila" OR area_of_delivery = "Cebu") AND ` +
		`awardee_name = "ABC Corp" AND award_status = "Awarded"`
	if f != want {
		t.Errorf("FilterString() =\n%s\nwant\n%s", f, want)
	}
	if r.Sort() != nil {
		t.Errorf("Sort() = %v, want nil for relevance", r.Sort())
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d", r.Limit())
	}
}

func TestCompose_FilterAbsentIffNoClausesAndNoFragments(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		sel      facet.Selection
		category string
		wantOK   bool
	}{
		{"nothing", "chairs", nil, facet.AllCategories, false},
		{"directive only", "status:Open", nil, facet.AllCategories, true},
		{"facet only", "", facet.Selection{facet.Awardee: {"A"}}, facet.AllCategories, true},
		{"category only", "", nil, "Services", true},
		{"both", "status:Open", facet.Selection{facet.Area: {"Cebu"}}, facet.AllCategories, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compose(query.Parse(tt.raw, false), facet.Build(tt.sel, tt.category), sortmode.Relevance)
			f, ok := r.FilterString()
			if ok != tt.wantOK {
				t.Errorf("FilterString() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok && f != "" {
				t.Errorf("absent filter must be empty, got %q", f)
			}
		})
	}
}

func TestCompose_Sort(t *testing.T) {
	parsed := query.Parse("x", false)
	if got := Compose(parsed, nil, sortmode.Date).Sort(); !slices.Equal(got, []string{"award_date:desc"}) {
		t.Errorf("date sort = %v", got)
	}
	if got := Compose(parsed, nil, sortmode.Amount).Sort(); !slices.Equal(got, []string{"contract_amount:desc"}) {
		t.Errorf("amount sort = %v", got)
	}
}

func TestIsEmpty(t *testing.T) {
	empty := Compose(query.Parse("  ", false), nil, sortmode.Date)
	if !empty.IsEmpty() {
		t.Error("blank query without filters should be empty")
	}

	browse := Compose(query.Parse("", false), facet.Build(nil, "Goods"), sortmode.Relevance)
	if browse.IsEmpty() {
		t.Error("filter-only request is a browse request, not empty")
	}
	if browse.Query() != "" {
		t.Errorf("browse query = %q, want empty", browse.Query())
	}
}

func TestWithLimit(t *testing.T) {
	r := Compose(query.Parse("x", false), nil, sortmode.Relevance)

	tests := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{2500, 2500},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tt := range tests {
		if got := r.WithLimit(tt.in).Limit(); got != tt.want {
			t.Errorf("WithLimit(%d).Limit() = %d, want %d", tt.in, got, tt.want)
		}
	}
	if r.Limit() != DefaultLimit {
		t.Error("WithLimit mutated the receiver")
	}
}

func TestWithOffset_ClampsNegative(t *testing.T) {
	r := Compose(query.Parse("x", false), nil, sortmode.Relevance).WithOffset(-1)
	if r.Offset() != 0 {
		t.Errorf("Offset() = %d", r.Offset())
	}
}

func TestDescribe(t *testing.T) {
	r := Compose(query.Parse("status:Open pipes", false), nil, sortmode.Amount).WithLimit(50)
	d := r.Describe()
	if d.Query != "pipes" || d.Filter != `award_status = "Open"` || d.Limit != 50 {
		t.Errorf("Describe() = %+v", d)
	}
	if !slices.Equal(d.Sort, []string{"contract_amount:desc"}) {
		t.Errorf("Describe().Sort = %v", d.Sort)
	}
	if !strings.Contains(r.String(), `filter=award_status = "Open"`) {
		t.Errorf("String() = %s", r.String())
	}
}

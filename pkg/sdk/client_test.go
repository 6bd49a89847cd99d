package govrecords

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// fakeMeili serves the Meilisearch endpoints the client uses.
type fakeMeili struct {
	searches atomic.Int32
	deletes  atomic.Int32
	lastBody atomic.Value // map[string]any
	fail     bool
}

func (f *fakeMeili) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		_, _ = w.Write([]byte(`{"status":"available"}`))
	case strings.HasSuffix(r.URL.Path, "/search"):
		f.searches.Add(1)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.lastBody.Store(body)
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom","code":"internal","type":"internal"}`))
			return
		}
		_, _ = w.Write([]byte(`{"hits":[
			{"id":"1","award_title":"Chairs","contract_amount":"300"},
			{"id":"2","award_title":"Desks","contract_amount":"100"},
			{"id":"3","award_title":"Lamps","contract_amount":"200"}
		],"estimatedTotalHits":3,"processingTimeMs":1}`))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/indexes/"):
		f.deletes.Add(1)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"taskUid":5,"status":"enqueued"}`))
	case strings.HasPrefix(r.URL.Path, "/tasks/"):
		_, _ = w.Write([]byte(`{"uid":5,"status":"succeeded"}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, f *fakeMeili, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), append([]Option{WithMeilisearch(srv.URL, "key")}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// --- New ---

func TestNew_OptionErrors(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no backend", nil},
		{"meili without host", []Option{WithMeilisearch("", "")}},
		{"cache without redis", []Option{WithMeilisearch("http://localhost:7700", ""), WithResultCache(time.Minute)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(context.Background(), tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := &clientConfig{dedupe: true}
	WithRedis("localhost:6379", "pw").apply(cfg)
	WithRedisIndex("idx", "rec:").apply(cfg)

	got, err := cfg.appConfig()
	if err != nil {
		t.Fatalf("appConfig: %v", err)
	}
	if got.Index.Backend != "redis" || got.Index.Redis.Name != "idx" || got.Index.Redis.KeyPrefix != "rec:" {
		t.Errorf("index = %+v", got.Index)
	}
	if got.Search.DefaultPageSize != 20 || got.Search.DefaultLimit != 1000 {
		t.Errorf("search defaults = %+v", got.Search)
	}
	if got.Cache.Enabled {
		t.Error("cache enabled without WithResultCache")
	}
}

// --- Query ---

func TestQuery_Do(t *testing.T) {
	f := &fakeMeili{}
	c := newTestClient(t, f, WithDefaultPageSize(2))

	res, err := c.Query(`status:Awarded furniture`).
		Area("Cebu").
		Area("Davao").
		SortBy(SortAmount).
		OrderBy("contract_amount", true).
		Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if res.Status != StatusOK || res.TotalItems != 3 || res.TotalPages != 2 || len(res.Items) != 2 {
		t.Fatalf("res = %+v", res)
	}
	if res.Items[0].ID != "1" || res.Items[1].ID != "3" {
		t.Errorf("order = %s, %s", res.Items[0].ID, res.Items[1].ID)
	}
	wantFilter := `(area_of_delivery = "Cebu" OR area_of_delivery = "Davao") AND award_status = "Awarded"`
	if res.Query != "furniture" || res.Filter != wantFilter {
		t.Errorf("query = %q, filter = %q", res.Query, res.Filter)
	}

	body, _ := f.lastBody.Load().(map[string]any)
	if body["filter"] != wantFilter {
		t.Errorf("sent filter = %v", body["filter"])
	}
}

func TestQuery_Suppressed(t *testing.T) {
	f := &fakeMeili{}
	c := newTestClient(t, f)

	res, err := c.Query("").Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.Status != StatusSuppressed || f.searches.Load() != 0 {
		t.Errorf("status = %q, searches = %d", res.Status, f.searches.Load())
	}

	res, err = c.Query("").BrowseAll().Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.Status != StatusOK || f.searches.Load() != 1 {
		t.Errorf("browse: status = %q, searches = %d", res.Status, f.searches.Load())
	}
}

func TestQuery_Errors(t *testing.T) {
	c := newTestClient(t, &fakeMeili{fail: true})

	if _, err := c.Query("x").OrderBy("id", false).Do(context.Background()); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("unsortable column: %v", err)
	}
	if _, err := c.Query("x").SortBy("cheapest").Do(context.Background()); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad sort: %v", err)
	}

	_, err := c.Query("x").Do(context.Background())
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if strings.Count(err.Error(), "fetch failed") != 1 {
		t.Errorf("message = %q", err)
	}
}

// --- Health / observe ---

func TestHealth(t *testing.T) {
	c := newTestClient(t, &fakeMeili{})
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["index"] != "ok" {
		t.Errorf("health = %+v", h)
	}
}

func TestDropIndex(t *testing.T) {
	f := &fakeMeili{}
	c := newTestClient(t, f)
	if err := c.DropIndex(context.Background()); err != nil {
		t.Fatalf("DropIndex: %v", err)
	}
	if f.deletes.Load() != 1 {
		t.Errorf("deletes = %d", f.deletes.Load())
	}
}

func TestObserve_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := newTestClient(t, &fakeMeili{}, WithPrometheus(reg), WithLogger(slog.New(slog.DiscardHandler)))

	if _, err := c.Query("chairs").Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if _, err := c.Query("").Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}

	ops := c.obs.metrics.operations
	if got := testutil.ToFloat64(ops.WithLabelValues("search", StatusOK)); got != 1 {
		t.Errorf("search ok = %v", got)
	}
	if got := testutil.ToFloat64(ops.WithLabelValues("search", StatusSuppressed)); got != 1 {
		t.Errorf("search suppressed = %v", got)
	}

	// A second client on the same registry reuses the collectors.
	c2 := newTestClient(t, &fakeMeili{}, WithPrometheus(reg))
	if c2.obs.metrics.operations != ops {
		t.Error("collectors not reused")
	}
}

func TestObserve_NilIsNoop(t *testing.T) {
	var o *observer
	o.observe("search", "", time.Now(), nil)
}

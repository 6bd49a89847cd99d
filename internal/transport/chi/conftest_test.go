package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/govrecords/internal/usecase/health"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

// mockFetcher implements searchuc.Fetcher for tests.
type mockFetcher struct {
	fetchFn func(ctx context.Context, req request.Request) (result.Raw, error)
	calls   []request.Request
}

func (m *mockFetcher) Fetch(ctx context.Context, req request.Request) (result.Raw, error) {
	m.calls = append(m.calls, req)
	if m.fetchFn != nil {
		return m.fetchFn(ctx, req)
	}
	return result.Raw{}, nil
}

// mockHealth implements HealthChecker for tests.
type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

func newTestServer(t *testing.T, f *mockFetcher, opts Options) *httptest.Server {
	t.Helper()
	svc := searchuc.New(f, searchuc.Options{}, zap.NewNop())
	health := &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}}
	s := NewServer(svc, health, opts, zap.NewNop())

	r := chi.NewRouter()
	s.Routes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

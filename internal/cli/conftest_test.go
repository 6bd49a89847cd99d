package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/config"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
	ingestuc "github.com/kailas-cloud/govrecords/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
)

// ignoreAntsPool skips the background goroutines of ants' default pool,
// started when the ingest package is loaded.
var ignoreAntsPool = []goleak.Option{
	goleak.IgnoreAnyFunction("github.com/panjf2000/ants/v2.(*poolCommon).purgeStaleWorkers"),
	goleak.IgnoreAnyFunction("github.com/panjf2000/ants/v2.(*poolCommon).ticktock"),
}

// mockFetcher implements searchuc.Fetcher for tests.
type mockFetcher struct {
	mu      sync.Mutex
	fetchFn func(ctx context.Context, req request.Request) (result.Raw, error)
	calls   []request.Request
}

func (m *mockFetcher) Fetch(ctx context.Context, req request.Request) (result.Raw, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.fetchFn != nil {
		return m.fetchFn(ctx, req)
	}
	return result.Raw{}, nil
}

func (m *mockFetcher) requests() []request.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]request.Request(nil), m.calls...)
}

// mockIngester implements Ingester for tests.
type mockIngester struct {
	ensureFn func(ctx context.Context) error
	importFn func(ctx context.Context, r io.Reader) (ingestuc.Report, error)
	dropFn   func(ctx context.Context) error
	ensured  int
	dropped  int
	imported string
}

func (m *mockIngester) EnsureIndex(ctx context.Context) error {
	m.ensured++
	if m.ensureFn != nil {
		return m.ensureFn(ctx)
	}
	return nil
}

func (m *mockIngester) DropIndex(ctx context.Context) error {
	m.dropped++
	if m.dropFn != nil {
		return m.dropFn(ctx)
	}
	return nil
}

func (m *mockIngester) ImportCSV(ctx context.Context, r io.Reader) (ingestuc.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ingestuc.Report{}, err
	}
	m.imported = string(data)
	if m.importFn != nil {
		return m.importFn(ctx, bytes.NewReader(data))
	}
	return ingestuc.Report{}, nil
}

func newEnv(f *mockFetcher, ing *mockIngester) *Env {
	dedupe := true
	return &Env{
		Search:   searchuc.New(f, searchuc.Options{}, zap.NewNop()),
		Ingest:   ing,
		Defaults: config.SearchConfig{DefaultPageSize: 20, MaxPageSize: 200, Dedupe: &dedupe},
		Session:  searchuc.SessionOptions{Debounce: 0, Logger: zap.NewNop()},
	}
}

// run executes the command tree against env with stdin as input.
func run(t *testing.T, env *Env, stdin string, args ...string) (string, error) {
	t.Helper()
	closed := false
	env.Close = func() { closed = true }

	root := NewRootCmd(func(context.Context, string) (*Env, error) { return env, nil })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if err == nil && args[0] != "version" && !closed {
		t.Error("env not closed")
	}
	return out.String(), err
}

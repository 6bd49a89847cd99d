package hitcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/domain/search/request"
	"github.com/kailas-cloud/govrecords/internal/domain/search/result"
)

type mockFetcher struct {
	raw   result.Raw
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, _ request.Request) (result.Raw, error) {
	m.calls++
	return m.raw, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedFetcher(t *testing.T, inner *mockFetcher) (*CachedFetcher, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cf := New(inner, ms, "govrecords:hits:", time.Minute, nil, zap.NewNop())
	return cf, ms
}

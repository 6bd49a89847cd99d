package index

import (
	"context"
	"time"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/db/meili"
)

// mockMeili implements meiliClient for tests.
type mockMeili struct {
	createIndexFn    func(ctx context.Context, uid, primaryKey string) (*meili.Task, error)
	updateSettingsFn func(ctx context.Context, uid string, s *meili.Settings) (*meili.Task, error)
	addDocumentsFn   func(ctx context.Context, uid, primaryKey string, docs any) (*meili.Task, error)
	waitForTaskFn    func(ctx context.Context, taskUID int64, interval time.Duration) (*meili.Task, error)
	deleteIndexFn    func(ctx context.Context, uid string) (*meili.Task, error)
}

func (m *mockMeili) CreateIndex(ctx context.Context, uid, primaryKey string) (*meili.Task, error) {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, uid, primaryKey)
	}
	return &meili.Task{TaskUID: 1}, nil
}

func (m *mockMeili) UpdateSettings(ctx context.Context, uid string, s *meili.Settings) (*meili.Task, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, uid, s)
	}
	return &meili.Task{TaskUID: 2}, nil
}

func (m *mockMeili) AddDocuments(ctx context.Context, uid, primaryKey string, docs any) (*meili.Task, error) {
	if m.addDocumentsFn != nil {
		return m.addDocumentsFn(ctx, uid, primaryKey, docs)
	}
	return &meili.Task{TaskUID: 3}, nil
}

func (m *mockMeili) WaitForTask(ctx context.Context, taskUID int64, interval time.Duration) (*meili.Task, error) {
	if m.waitForTaskFn != nil {
		return m.waitForTaskFn(ctx, taskUID, interval)
	}
	return &meili.Task{UID: taskUID, Status: meili.TaskSucceeded}, nil
}

func (m *mockMeili) DeleteIndex(ctx context.Context, uid string) (*meili.Task, error) {
	if m.deleteIndexFn != nil {
		return m.deleteIndexFn(ctx, uid)
	}
	return &meili.Task{TaskUID: 4}, nil
}

// mockStore implements redisStore for tests.
type mockStore struct {
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
	dropIndexFn   func(ctx context.Context, name string, deleteDocs bool) error
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string, deleteDocs bool) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name, deleteDocs)
	}
	return nil
}

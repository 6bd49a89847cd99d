package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/db/meili"
	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

// DefaultTaskPoll is the Meilisearch task polling interval.
const DefaultTaskPoll = 250 * time.Millisecond

// meiliClient is the consumer interface for the Meilisearch writer (ISP).
type meiliClient interface {
	CreateIndex(ctx context.Context, uid, primaryKey string) (*meili.Task, error)
	UpdateSettings(ctx context.Context, uid string, s *meili.Settings) (*meili.Task, error)
	AddDocuments(ctx context.Context, uid, primaryKey string, docs any) (*meili.Task, error)
	WaitForTask(ctx context.Context, taskUID int64, interval time.Duration) (*meili.Task, error)
	DeleteIndex(ctx context.Context, uid string) (*meili.Task, error)
}

// MeiliIndex writes to a Meilisearch index.
type MeiliIndex struct {
	client   meiliClient
	uid      string
	taskPoll time.Duration
}

// NewMeili creates a Meilisearch index writer.
func NewMeili(c meiliClient, uid string) *MeiliIndex {
	return &MeiliIndex{client: c, uid: uid, taskPoll: DefaultTaskPoll}
}

// WithTaskPoll overrides the task polling interval.
func (m *MeiliIndex) WithTaskPoll(d time.Duration) *MeiliIndex {
	if d > 0 {
		m.taskPoll = d
	}
	return m
}

// Ensure creates the index if missing and applies the settings.
func (m *MeiliIndex) Ensure(ctx context.Context) error {
	task, err := m.client.CreateIndex(ctx, m.uid, PrimaryKey)
	if err == nil {
		err = m.wait(ctx, task)
	}
	if err != nil && !meili.IsCode(err, meili.CodeIndexAlreadyExists) {
		return fmt.Errorf("create index %s: %w", m.uid, err)
	}

	task, err = m.client.UpdateSettings(ctx, m.uid, MeiliSettings())
	if err != nil {
		return fmt.Errorf("update settings %s: %w", m.uid, err)
	}
	if err := m.wait(ctx, task); err != nil {
		return fmt.Errorf("update settings %s: %w", m.uid, err)
	}
	return nil
}

// Drop deletes the index with its documents. A missing index is not an error.
func (m *MeiliIndex) Drop(ctx context.Context) error {
	task, err := m.client.DeleteIndex(ctx, m.uid)
	if err == nil {
		err = m.wait(ctx, task)
	}
	if err != nil && !meili.IsCode(err, meili.CodeIndexNotFound) {
		return fmt.Errorf("delete index %s: %w", m.uid, err)
	}
	return nil
}

// Upload adds or replaces docs and waits until Meilisearch has indexed them.
func (m *MeiliIndex) Upload(ctx context.Context, docs []award.Award) error {
	if len(docs) == 0 {
		return nil
	}
	task, err := m.client.AddDocuments(ctx, m.uid, PrimaryKey, docs)
	if err != nil {
		return fmt.Errorf("add documents %s: %w", m.uid, err)
	}
	if err := m.wait(ctx, task); err != nil {
		return fmt.Errorf("add documents %s: %w", m.uid, err)
	}
	return nil
}

func (m *MeiliIndex) wait(ctx context.Context, task *meili.Task) error {
	done, err := m.client.WaitForTask(ctx, task.ID(), m.taskPoll)
	if err != nil {
		return err
	}
	if done.Status == meili.TaskFailed {
		if done.Error != nil {
			return done.Error
		}
		return errors.New("task failed")
	}
	return nil
}

// redisStore is the consumer interface for the Redis writer (ISP).
type redisStore interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	DropIndex(ctx context.Context, name string, deleteDocs bool) error
}

// RedisIndex writes award hashes and owns their FT index.
type RedisIndex struct {
	store  redisStore
	name   string
	prefix string
}

// NewRedis creates a Redis index writer.
func NewRedis(s redisStore, name, prefix string) *RedisIndex {
	return &RedisIndex{store: s, name: name, prefix: prefix}
}

// Ensure creates the FT index if it does not exist yet.
func (r *RedisIndex) Ensure(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", r.name, err)
	}
	if exists {
		return nil
	}

	def, err := RedisDefinition(r.name, r.prefix)
	if err != nil {
		return fmt.Errorf("build index %s: %w", r.name, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.name, err)
	}
	return nil
}

// Drop removes the FT index and the hashes it covers.
func (r *RedisIndex) Drop(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.name, true); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", r.name, err)
	}
	return nil
}

// Upload writes one hash per document in a single pipeline.
func (r *RedisIndex) Upload(ctx context.Context, docs []award.Award) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, 0, len(docs))
	for i := range docs {
		if docs[i].ID == "" {
			return fmt.Errorf("document %d: missing id: %w", i, domain.ErrInvalidRequest)
		}
		items = append(items, db.HashSetItem{
			Key:    Key(r.prefix, docs[i].ID),
			Fields: docs[i].ToFields(),
		})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d documents: %w", len(items), err)
	}
	return nil
}

package index

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/govrecords/internal/db"
	"github.com/kailas-cloud/govrecords/internal/db/meili"
	"github.com/kailas-cloud/govrecords/internal/domain"
	"github.com/kailas-cloud/govrecords/internal/domain/award"
)

// --- Schema ---

func TestRedisDefinition(t *testing.T) {
	def, err := RedisDefinition("govrecords:awards:idx", "govrecords:award:")
	if err != nil {
		t.Fatalf("RedisDefinition: %v", err)
	}
	cmd := def.String()

	for _, want := range []string{
		"FT.CREATE govrecords:awards:idx ON HASH PREFIX 1 govrecords:award: SCHEMA",
		"awardee_name TAG SEPARATOR \x1f",
		"award_title AS award_title_text TEXT",
		"contract_amount_value NUMERIC SORTABLE",
		"award_date_ts NUMERIC SORTABLE",
	} {
		if !strings.Contains(cmd, want) {
			t.Errorf("definition missing %q:\n%s", want, cmd)
		}
	}
	if strings.Contains(cmd, "CASESENSITIVE") {
		t.Errorf("tags must be case-insensitive: %s", cmd)
	}
}

func TestMeiliSettings(t *testing.T) {
	s := MeiliSettings()
	for _, f := range []string{award.FieldAwardee, award.FieldArea, award.FieldCategory, award.FieldOrganization} {
		if !slices.Contains(s.FilterableAttributes, f) {
			t.Errorf("%s must be filterable", f)
		}
	}
	if !slices.Equal(s.SortableAttributes, []string{award.FieldAmount, award.FieldDate}) {
		t.Errorf("sortable = %v", s.SortableAttributes)
	}
	if !slices.Contains(s.NonSeparatorTokens, "&") {
		t.Errorf("& must not split tokens")
	}
}

func TestSortAttribute(t *testing.T) {
	tests := []struct {
		field string
		want  string
		ok    bool
	}{
		{award.FieldAmount, award.FieldAmountValue, true},
		{award.FieldDate, award.FieldDateTS, true},
		{award.FieldTitle, "", false},
	}
	for _, tt := range tests {
		got, ok := SortAttribute(tt.field)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SortAttribute(%q) = %q, %v; want %q, %v", tt.field, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	k := Key("govrecords:award:", "abc")
	if k != "govrecords:award:abc" {
		t.Fatalf("Key = %q", k)
	}
	if id := IDFromKey("govrecords:award:", k); id != "abc" {
		t.Fatalf("IDFromKey = %q", id)
	}
}

// --- MeiliIndex ---

func TestMeiliEnsure_HappyPath(t *testing.T) {
	mc := &mockMeili{}
	var gotPK string
	var gotSettings *meili.Settings
	mc.createIndexFn = func(_ context.Context, uid, pk string) (*meili.Task, error) {
		if uid != "philgeps" {
			t.Errorf("uid = %q", uid)
		}
		gotPK = pk
		return &meili.Task{TaskUID: 1}, nil
	}
	mc.updateSettingsFn = func(_ context.Context, _ string, s *meili.Settings) (*meili.Task, error) {
		gotSettings = s
		return &meili.Task{TaskUID: 2}, nil
	}

	if err := NewMeili(mc, "philgeps").Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if gotPK != "id" {
		t.Errorf("primary key = %q", gotPK)
	}
	if gotSettings == nil {
		t.Fatal("settings not applied")
	}
}

func TestMeiliEnsure_AlreadyExists(t *testing.T) {
	mc := &mockMeili{}
	var settingsApplied bool
	mc.waitForTaskFn = func(_ context.Context, id int64, _ time.Duration) (*meili.Task, error) {
		if id == 1 {
			return &meili.Task{UID: 1, Status: meili.TaskFailed, Error: &meili.APIError{
				Code: meili.CodeIndexAlreadyExists, Message: "exists",
			}}, nil
		}
		settingsApplied = true
		return &meili.Task{UID: id, Status: meili.TaskSucceeded}, nil
	}

	if err := NewMeili(mc, "philgeps").WithTaskPoll(time.Millisecond).Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if !settingsApplied {
		t.Error("settings must still be applied to an existing index")
	}
}

func TestMeiliEnsure_CreateFails(t *testing.T) {
	mc := &mockMeili{}
	mc.createIndexFn = func(_ context.Context, _, _ string) (*meili.Task, error) {
		return nil, &meili.APIError{StatusCode: 401, Code: "invalid_api_key", Message: "nope"}
	}
	err := NewMeili(mc, "philgeps").Ensure(context.Background())
	if !meili.IsCode(err, "invalid_api_key") {
		t.Fatalf("expected invalid_api_key, got %v", err)
	}
}

func TestMeiliDrop(t *testing.T) {
	mc := &mockMeili{}
	var uid string
	mc.deleteIndexFn = func(_ context.Context, u string) (*meili.Task, error) {
		uid = u
		return &meili.Task{TaskUID: 4}, nil
	}
	if err := NewMeili(mc, "philgeps").Drop(context.Background()); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if uid != "philgeps" {
		t.Errorf("uid = %q", uid)
	}
}

func TestMeiliDrop_Missing(t *testing.T) {
	mc := &mockMeili{}
	mc.deleteIndexFn = func(_ context.Context, _ string) (*meili.Task, error) {
		return nil, &meili.APIError{StatusCode: 404, Code: meili.CodeIndexNotFound}
	}
	if err := NewMeili(mc, "philgeps").Drop(context.Background()); err != nil {
		t.Fatalf("missing index must not fail: %v", err)
	}

	mc.deleteIndexFn = func(_ context.Context, _ string) (*meili.Task, error) {
		return nil, &meili.APIError{StatusCode: 401, Code: "invalid_api_key"}
	}
	if err := NewMeili(mc, "philgeps").Drop(context.Background()); !meili.IsCode(err, "invalid_api_key") {
		t.Fatalf("expected invalid_api_key, got %v", err)
	}
}

func TestMeiliUpload(t *testing.T) {
	mc := &mockMeili{}
	var got []award.Award
	mc.addDocumentsFn = func(_ context.Context, _, pk string, docs any) (*meili.Task, error) {
		if pk != "id" {
			t.Errorf("primary key = %q", pk)
		}
		got, _ = docs.([]award.Award)
		return &meili.Task{TaskUID: 9}, nil
	}

	docs := []award.Award{{ID: "1", Title: "Chairs"}, {ID: "2", Title: "Desks"}}
	if err := NewMeili(mc, "philgeps").Upload(context.Background(), docs); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("uploaded %d docs, want 2", len(got))
	}
}

func TestMeiliUpload_TaskFailed(t *testing.T) {
	mc := &mockMeili{}
	mc.waitForTaskFn = func(_ context.Context, id int64, _ time.Duration) (*meili.Task, error) {
		return &meili.Task{UID: id, Status: meili.TaskFailed}, nil
	}
	err := NewMeili(mc, "philgeps").Upload(context.Background(), []award.Award{{ID: "1"}})
	if err == nil {
		t.Fatal("expected error for failed task")
	}
}

func TestMeiliUpload_Empty(t *testing.T) {
	mc := &mockMeili{}
	mc.addDocumentsFn = func(_ context.Context, _, _ string, _ any) (*meili.Task, error) {
		t.Fatal("no request expected")
		return nil, nil
	}
	if err := NewMeili(mc, "philgeps").Upload(context.Background(), nil); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

// --- RedisIndex ---

func TestRedisEnsure_Creates(t *testing.T) {
	ms := &mockStore{}
	var created *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		created = def
		return nil
	}

	if err := NewRedis(ms, "awards:idx", "award:").Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if created == nil || created.Name != "awards:idx" {
		t.Fatalf("index not created: %+v", created)
	}
}

func TestRedisEnsure_Exists(t *testing.T) {
	ms := &mockStore{}
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		t.Fatal("CreateIndex must not be called")
		return nil
	}
	if err := NewRedis(ms, "awards:idx", "award:").Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
}

func TestRedisEnsure_RaceOnCreate(t *testing.T) {
	ms := &mockStore{}
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error { return db.ErrIndexExists }
	if err := NewRedis(ms, "awards:idx", "award:").Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
}

func TestRedisEnsure_ProbeError(t *testing.T) {
	ms := &mockStore{}
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) {
		return false, errors.New("connection refused")
	}
	if err := NewRedis(ms, "awards:idx", "award:").Ensure(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRedisDrop(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"dropped", nil, false},
		{"missing", db.ErrIndexNotFound, false},
		{"failure", errors.New("connection refused"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := &mockStore{}
			ms.dropIndexFn = func(_ context.Context, name string, deleteDocs bool) error {
				if name != "awards:idx" || !deleteDocs {
					t.Errorf("DropIndex(%q, %v)", name, deleteDocs)
				}
				return tt.err
			}
			err := NewRedis(ms, "awards:idx", "award:").Drop(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRedisUpload(t *testing.T) {
	ms := &mockStore{}
	var items []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, in []db.HashSetItem) error {
		items = in
		return nil
	}

	docs := []award.Award{{ID: "7", Amount: "1,500.50", Date: "2024-03-01"}}
	if err := NewRedis(ms, "awards:idx", "award:").Upload(context.Background(), docs); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(items) != 1 || items[0].Key != "award:7" {
		t.Fatalf("items = %+v", items)
	}
	f := items[0].Fields
	if f[award.FieldAmountValue] != "1500.5" {
		t.Errorf("amount value = %q", f[award.FieldAmountValue])
	}
	if f[award.FieldDateTS] != "1709251200" {
		t.Errorf("date ts = %q", f[award.FieldDateTS])
	}
}

func TestRedisUpload_MissingID(t *testing.T) {
	ms := &mockStore{}
	err := NewRedis(ms, "awards:idx", "award:").Upload(context.Background(), []award.Award{{Title: "x"}})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

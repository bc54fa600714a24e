package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	documentstore "github.com/AashishRichhariya/openleaf/internal/app/store/documents"
	"github.com/AashishRichhariya/openleaf/internal/app/system/slug"
	"github.com/AashishRichhariya/openleaf/internal/app/system/slugalloc"
	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"go.uber.org/zap"
)

const hiContent = `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"Hi"}]}]}}`

type recordingRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingRevalidator) Revalidate(_ context.Context, path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *documentstore.Store, *recordingRevalidator, *clock) {
	t.Helper()
	logger := zap.NewNop()
	store := documentstore.New(documentstore.NewMemory(), logger)
	codec, err := slug.NewCodec([]string{"quiet"}, []string{"amber"}, []string{"heron"})
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	reval := &recordingRevalidator{}
	clk := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	svc := New(store, slugalloc.New(codec, store, logger), logger,
		WithRevalidator(reval),
		WithClock(clk.Now),
		WithMaxAttempts(3))
	return svc, store, reval, clk
}

func TestSave_NewDocument(t *testing.T) {
	svc, store, reval, clk := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Save(ctx, "hello-world", json.RawMessage(hiContent), false, true)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if string(doc.Content) != hiContent {
		t.Errorf("Content = %s, want input tree", doc.Content)
	}
	if !doc.CreatedAt.Equal(doc.UpdatedAt) || !doc.CreatedAt.Equal(clk.t) {
		t.Errorf("CreatedAt = %v, UpdatedAt = %v, want both %v", doc.CreatedAt, doc.UpdatedAt, clk.t)
	}
	if doc.Version != 1 {
		t.Errorf("Version = %d, want 1", doc.Version)
	}

	stored, _ := store.Get(ctx, "hello-world")
	if stored == nil || string(stored.Content) != hiContent {
		t.Errorf("stored = %+v, want saved content", stored)
	}
	if len(reval.paths) != 1 || reval.paths[0] != "/hello-world" {
		t.Errorf("revalidated = %v, want [/hello-world]", reval.paths)
	}
}

func TestSave_EmptyContentStoresNull(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Save(ctx, "empty-doc", json.RawMessage(`{"root":{"children":[]}}`), false, true)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if doc.Content != nil {
		t.Errorf("Content = %s, want nil", doc.Content)
	}
	stored, _ := store.Get(ctx, "empty-doc")
	if stored.HasContent() {
		t.Errorf("stored content = %s, want null", stored.Content)
	}
}

func TestSave_ReadOnlyBlocksUpdate(t *testing.T) {
	svc, store, _, clk := newTestService(t)
	ctx := context.Background()
	original, err := store.Create(ctx, models.Document{
		Slug:      "locked",
		Content:   json.RawMessage(hiContent),
		ReadOnly:  true,
		CreatedAt: clk.t,
		UpdatedAt: clk.t,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	clk.Advance(time.Hour)
	got, err := svc.Save(ctx, "locked", json.RawMessage(`{"root":{"children":[{"type":"text","text":"new"}]}}`), true, false)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if string(got.Content) != hiContent || !got.ReadOnly || !got.UpdatedAt.Equal(original.UpdatedAt) {
		t.Errorf("Save() = %+v, want original record %+v", got, original)
	}
}

func TestSave_Idempotent(t *testing.T) {
	svc, store, _, clk := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Save(ctx, "twice", json.RawMessage(hiContent), false, true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var results []models.Document
	for i := 0; i < 2; i++ {
		clk.Advance(time.Second)
		doc, err := svc.Save(ctx, "twice", json.RawMessage(hiContent), false, false)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		results = append(results, doc)
	}
	if string(results[0].Content) != string(results[1].Content) || results[0].ReadOnly != results[1].ReadOnly {
		t.Errorf("repeated saves differ: %+v vs %+v", results[0], results[1])
	}
	stored, _ := store.Get(ctx, "twice")
	if !stored.UpdatedAt.Equal(clk.t) {
		t.Errorf("UpdatedAt = %v, want %v", stored.UpdatedAt, clk.t)
	}
	if !stored.CreatedAt.Before(stored.UpdatedAt) {
		t.Error("update must not restamp CreatedAt")
	}
}

func TestSave_UpdateMissing(t *testing.T) {
	svc, _, reval, _ := newTestService(t)
	_, err := svc.Save(context.Background(), "ghost", json.RawMessage(hiContent), false, false)
	if !errors.Is(err, documentstore.ErrNotFound) {
		t.Fatalf("Save() error = %v, want ErrNotFound", err)
	}
	if len(reval.paths) != 0 {
		t.Errorf("revalidated = %v after failed save, want none", reval.paths)
	}
}

func TestSave_EmptySlug(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.Save(context.Background(), "   ", nil, false, true); !errors.Is(err, ErrEmptySlug) {
		t.Errorf("Save() error = %v, want ErrEmptySlug", err)
	}
}

func TestSave_NormalizesSlug(t *testing.T) {
	svc, _, reval, _ := newTestService(t)
	ctx := context.Background()
	doc, err := svc.Save(ctx, "Foo-Bar", json.RawMessage(hiContent), false, true)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if doc.Slug != "foo-bar" {
		t.Errorf("Slug = %q, want foo-bar", doc.Slug)
	}
	if reval.paths[0] != "/foo-bar" {
		t.Errorf("revalidated %q, want /foo-bar", reval.paths[0])
	}
}

func TestFetch_CaseInsensitive(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Save(ctx, "foo-bar", json.RawMessage(hiContent), false, true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	upper, err := svc.Fetch(ctx, "Foo-Bar")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	lower, err := svc.Fetch(ctx, "foo-bar")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if upper == nil || lower == nil || upper.Slug != lower.Slug {
		t.Errorf("Fetch() = %+v / %+v, want same record", upper, lower)
	}

	missing, err := svc.Fetch(ctx, "nothing-here")
	if err != nil || missing != nil {
		t.Errorf("Fetch(missing) = %+v, %v; want nil, nil", missing, err)
	}
}

func TestCheckExists(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	if ok, _ := svc.CheckExists(ctx, "Later"); ok {
		t.Fatal("CheckExists() = true before save")
	}
	if _, err := svc.Save(ctx, "later", nil, false, true); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if ok, err := svc.CheckExists(ctx, "LATER"); err != nil || !ok {
		t.Errorf("CheckExists() = %v, %v; want true, nil", ok, err)
	}
}

func TestRandomAvailableSlug(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if got := svc.RandomAvailableSlug(context.Background()); got != "quiet-amber-heron" {
		t.Errorf("RandomAvailableSlug() = %q, want quiet-amber-heron", got)
	}
}

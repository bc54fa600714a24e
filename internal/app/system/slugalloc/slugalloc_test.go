package slugalloc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/AashishRichhariya/openleaf/internal/domain/models"
	"go.uber.org/zap"
)

// scripted returns its candidates in order, repeating the last one.
type scripted struct {
	candidates []string
	calls      int
}

func (s *scripted) Generate() string {
	i := s.calls
	if i >= len(s.candidates) {
		i = len(s.candidates) - 1
	}
	s.calls++
	return s.candidates[i]
}

type fakeStore struct {
	docs   map[string]*models.Document
	err    error
	probes int
}

func (f *fakeStore) Get(_ context.Context, slug string) (*models.Document, error) {
	f.probes++
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[slug], nil
}

func docWith(raw string) *models.Document {
	return &models.Document{Content: json.RawMessage(raw), Version: 1}
}

const textContent = `{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"x"}]}]}}`

func TestFindAvailable_SkipsNonEmptySlug(t *testing.T) {
	store := &fakeStore{docs: map[string]*models.Document{"taken": docWith(textContent)}}
	gen := &scripted{candidates: []string{"taken", "free"}}

	got := New(gen, store, zap.NewNop()).FindAvailable(context.Background(), 20)
	if got != "free" {
		t.Errorf("FindAvailable() = %q, want %q", got, "free")
	}
	if store.probes != 2 {
		t.Errorf("probes = %d, want 2", store.probes)
	}
}

func TestFindAvailable_ReclaimsEmptyDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *models.Document
	}{
		{"null content", &models.Document{Version: 1}},
		{"no children", docWith(`{"root":{"children":[]}}`)},
		{"whitespace only", docWith(`{"root":{"children":[{"type":"paragraph","children":[{"type":"text","text":"   "}]}]}}`)},
		{"malformed", docWith(`{"root":`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{docs: map[string]*models.Document{"reuse-me": tt.doc}}
			got := New(&scripted{candidates: []string{"reuse-me"}}, store, zap.NewNop()).
				FindAvailable(context.Background(), 5)
			if got != "reuse-me" {
				t.Errorf("FindAvailable() = %q, want reuse-me", got)
			}
			if store.probes != 1 {
				t.Errorf("probes = %d, want 1", store.probes)
			}
		})
	}
}

func TestFindAvailable_Exhausted(t *testing.T) {
	store := &fakeStore{docs: map[string]*models.Document{
		"a": docWith(textContent),
		"b": docWith(textContent),
		"c": docWith(textContent),
	}}
	gen := &scripted{candidates: []string{"a", "b", "c"}}

	got := New(gen, store, zap.NewNop()).FindAvailable(context.Background(), 3)
	if got != "c" {
		t.Errorf("FindAvailable() = %q, want last candidate %q", got, "c")
	}
	if store.probes != 3 {
		t.Errorf("probes = %d, want 3", store.probes)
	}
}

func TestFindAvailable_ProbeBudget(t *testing.T) {
	for _, n := range []int{1, 2, 7, 20} {
		store := &fakeStore{docs: map[string]*models.Document{"busy": docWith(textContent)}}
		New(&scripted{candidates: []string{"busy"}}, store, zap.NewNop()).FindAvailable(context.Background(), n)
		if store.probes > n {
			t.Errorf("maxAttempts=%d: probes = %d, want <= %d", n, store.probes, n)
		}
	}
}

func TestFindAvailable_ClampsAttempts(t *testing.T) {
	for _, n := range []int{0, -3} {
		store := &fakeStore{docs: map[string]*models.Document{}}
		got := New(&scripted{candidates: []string{"solo"}}, store, zap.NewNop()).FindAvailable(context.Background(), n)
		if got != "solo" || store.probes != 1 {
			t.Errorf("maxAttempts=%d: got %q after %d probes, want solo after 1", n, got, store.probes)
		}
	}
}

func TestFindAvailable_ProbeErrorCountsAsAvailable(t *testing.T) {
	store := &fakeStore{err: errors.New("timeout")}
	got := New(&scripted{candidates: []string{"maybe"}}, store, zap.NewNop()).FindAvailable(context.Background(), 20)
	if got != "maybe" {
		t.Errorf("FindAvailable() = %q, want maybe", got)
	}
	if store.probes != 1 {
		t.Errorf("probes = %d, want 1", store.probes)
	}
}

func TestFindAvailable_SkipsEmptyCandidates(t *testing.T) {
	store := &fakeStore{docs: map[string]*models.Document{}}
	gen := &scripted{candidates: []string{"", "", "real"}}

	got := New(gen, store, zap.NewNop()).FindAvailable(context.Background(), 5)
	if got != "real" {
		t.Errorf("FindAvailable() = %q, want real", got)
	}
	if store.probes != 1 {
		t.Errorf("probes = %d, want 1 (empty candidates are not probed)", store.probes)
	}
}

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/modelviz/modelviz/pkg/errors"
	"github.com/modelviz/modelviz/pkg/graph"
)

func testInspection(name string) *Inspection {
	return &Inspection{
		Name:     name,
		Document: json.RawMessage(`{"a": 1}`),
		Graph: graph.Graph{
			Nodes: []graph.Node{
				{ID: "root", Label: "model", Kind: graph.KindRoot, ChildCount: 1},
				{ID: "a", Label: "a\n1", Kind: graph.KindField},
			},
			Edges: []graph.Edge{{ID: "e1", Source: "root", Target: "a"}},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close(ctx)

	insp := testInspection("office-42")
	if err := s.Save(ctx, insp); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if insp.CreatedAt.IsZero() || insp.UpdatedAt.IsZero() {
		t.Error("timestamps not set on save")
	}

	got, err := s.Load(ctx, "office-42")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "office-42" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Graph.Nodes) != 2 || len(got.Graph.Edges) != 1 {
		t.Errorf("graph = %d nodes / %d edges, want 2 / 1", len(got.Graph.Nodes), len(got.Graph.Edges))
	}
	// The JSON encoding may reindent the embedded document, so compare
	// compacted forms rather than raw bytes.
	var wantDoc, gotDoc bytes.Buffer
	if err := json.Compact(&wantDoc, insp.Document); err != nil {
		t.Fatalf("compact saved document: %v", err)
	}
	if err := json.Compact(&gotDoc, got.Document); err != nil {
		t.Fatalf("compact loaded document: %v", err)
	}
	if gotDoc.String() != wantDoc.String() {
		t.Errorf("document = %s, want %s", gotDoc.String(), wantDoc.String())
	}
	if got.Layout != nil {
		t.Error("layout should be nil when never computed")
	}
}

func TestFileStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first := testInspection("x")
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	created := first.CreatedAt

	second := testInspection("x")
	second.CreatedAt = created
	second.Layout = &graph.Layout{
		Width: 100, Height: 70,
		Boxes: []graph.Box{{ID: "root", X: 0, Y: 0, Width: 140, Height: 70}},
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Layout == nil || len(got.Layout.Boxes) != 1 {
		t.Error("replacement not persisted")
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created at changed on replace: %v vs %v", got.CreatedAt, created)
	}
}

func TestFileStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"beta", "alpha", "gamma"} {
		if err := s.Save(ctx, testInspection(name)); err != nil {
			t.Fatal(err)
		}
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	if err := s.Delete(ctx, "beta"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	names, _ = s.List(ctx)
	if len(names) != 2 {
		t.Errorf("names after delete = %v", names)
	}
}

func TestFileStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Load(ctx, "ghost"); !errors.Is(err, errors.ErrCodeInspectionNotFound) {
		t.Errorf("Load error code = %q, want INSPECTION_NOT_FOUND", errors.GetCode(err))
	}
	if err := s.Delete(ctx, "ghost"); !errors.Is(err, errors.ErrCodeInspectionNotFound) {
		t.Errorf("Delete error code = %q, want INSPECTION_NOT_FOUND", errors.GetCode(err))
	}
}

func TestFileStoreRejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"", "../escape", "a/b", `a\b`} {
		if err := s.Save(ctx, testInspection(name)); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("Save(%q) error code = %q, want INVALID_NAME", name, errors.GetCode(err))
		}
		if _, err := s.Load(ctx, name); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("Load(%q) error code = %q, want INVALID_NAME", name, errors.GetCode(err))
		}
	}
}

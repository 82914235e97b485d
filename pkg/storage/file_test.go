package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/format"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

func sampleDocument(t *testing.T) format.Document {
	t.Helper()
	g := mindmap.NewGraph()
	ids := make([]mindmap.NodeID, 0, 3)
	for _, text := range []string{"root", "left", "right"} {
		id, err := g.AddNode(mindmap.Node{Text: text})
		if err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		ids = append(ids, id)
	}
	if _, err := g.AddEdge(mindmap.NewEdge(ids[0], ids[1])); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return format.FromGraph(g, format.EncodeOptions{Title: "sample"})
}

func newStore(t *testing.T, opts FileStoreOptions) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestFileStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, FileStoreOptions{})
	doc := sampleDocument(t)

	if err := s.Save(ctx, "project", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "project")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Nodes) != len(doc.Nodes) || len(got.Edges) != len(doc.Edges) {
		t.Errorf("loaded %d/%d, want %d/%d", len(got.Nodes), len(got.Edges), len(doc.Nodes), len(doc.Edges))
	}
	if got.Title != "sample" {
		t.Errorf("title = %q, want sample", got.Title)
	}
}

func TestFileStoreLoadMissing(t *testing.T) {
	s := newStore(t, FileStoreOptions{})
	if _, err := s.Load(context.Background(), "ghost"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("error = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestFileStoreBackupOnSave(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, FileStoreOptions{Backups: true})
	doc := sampleDocument(t)

	if err := s.Save(ctx, "project", doc); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	backup := filepath.Join(s.Dir(), "project.json.bak")
	if _, err := os.Stat(backup); !os.IsNotExist(err) {
		t.Error("backup should not exist after first save")
	}

	doc.Title = "revised"
	if err := s.Save(ctx, "project", doc); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup missing after second save: %v", err)
	}

	// The backup holds the previous version.
	got, err := s.Load(ctx, "project")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Title != "revised" {
		t.Errorf("current title = %q, want revised", got.Title)
	}
}

func TestFileStoreListSorted(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, FileStoreOptions{})
	doc := sampleDocument(t)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(ctx, name, doc); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("infos = %d, want 3", len(infos))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if infos[i].Name != want {
			t.Errorf("infos[%d].Name = %q, want %q", i, infos[i].Name, want)
		}
	}
	if infos[0].NodeCount != 3 || infos[0].EdgeCount != 1 {
		t.Errorf("counts = %d/%d, want 3/1", infos[0].NodeCount, infos[0].EdgeCount)
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, FileStoreOptions{Backups: true})
	doc := sampleDocument(t)

	if err := s.Save(ctx, "project", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, "project", doc); err != nil {
		t.Fatalf("re-Save: %v", err)
	}
	if err := s.Delete(ctx, "project"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Load(ctx, "project"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Load after delete: %v, want DOCUMENT_NOT_FOUND", err)
	}
	if _, err := os.Stat(filepath.Join(s.Dir(), "project.json.bak")); !os.IsNotExist(err) {
		t.Error("backup should be removed with the document")
	}
	if err := s.Delete(ctx, "project"); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("double Delete: %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestFileStoreRejectsUnsafeNames(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, FileStoreOptions{})
	doc := sampleDocument(t)

	for _, name := range []string{"", "../escape", "a/b", `a\b`} {
		if err := s.Save(ctx, name, doc); !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("Save(%q): %v, want INVALID_PATH", name, err)
		}
	}
}

func TestFileStoreRoundTripThroughGraph(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, FileStoreOptions{})
	doc := sampleDocument(t)

	if err := s.Save(ctx, "project", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load(ctx, "project")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	g, err := format.ToGraph(loaded, format.RoundTripOptions())
	if err != nil {
		t.Fatalf("ToGraph: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 1 {
		t.Errorf("rebuilt graph = %d/%d, want 3/1", g.NodeCount(), g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/qswap/pkg/route"
)

func sampleRun(id string, created time.Time, swaps int) *Run {
	return &Run{
		ID:        id,
		CreatedAt: created,
		Topology:  "heavy-hex",
		Nodes:     4,
		Edges:     3,
		SwapCount: swaps,
		Solution: &route.Solution{
			SwapCount:        swaps,
			Moves:            []route.Move{{Kind: route.MoveEntangle, A: 0, B: 1, SiteA: 0, SiteB: 1}},
			InitialOccupancy: []int{0, 1},
			InitialEmbedding: []int{0, 1},
		},
	}
}

// exercise runs the behaviour every Store must share.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete(missing) error = %v, want ErrNotFound", err)
	}

	for i, id := range []string{"a", "b", "c"} {
		if err := s.Put(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Minute), i)); err != nil {
			t.Fatalf("Put(%s): %v", id, err)
		}
	}

	got, err := s.Get(ctx, "b")
	if err != nil {
		t.Fatalf("Get(b): %v", err)
	}
	if got.SwapCount != 1 || got.Solution == nil || len(got.Solution.Moves) != 1 {
		t.Errorf("Get(b) = %+v", got)
	}
	if got.Solution.Moves[0].Kind != route.MoveEntangle {
		t.Errorf("move kind = %v, want entangle", got.Solution.Moves[0].Kind)
	}

	runs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "c" || runs[2].ID != "a" {
		t.Errorf("List order = %v, want newest first", ids(runs))
	}

	runs, _ = s.List(ctx, 2)
	if len(runs) != 2 || runs[0].ID != "c" {
		t.Errorf("List(2) = %v", ids(runs))
	}

	replaced := sampleRun("a", base, 9)
	if err := s.Put(ctx, replaced); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "a")
	if got.SwapCount != 9 {
		t.Errorf("Put should replace, SwapCount = %d", got.SwapCount)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete(a): %v", err)
	}
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := s.Put(ctx, &Run{}); err == nil {
		t.Error("Put without id should fail")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func ids(runs []*Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	s := NewMemoryStore()
	run := sampleRun("x", time.Now(), 2)
	if err := s.Put(context.Background(), run); err != nil {
		t.Fatal(err)
	}
	run.Solution.Moves[0].A = 42

	got, _ := s.Get(context.Background(), "x")
	if got.Solution.Moves[0].A != 0 {
		t.Error("store should not alias the caller's run")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, s)
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(context.Background(), sampleRun("ok", time.Now(), 1)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != "ok" {
		t.Errorf("List = %v, want only the readable run", ids(runs))
	}
	if s.Path() != dir {
		t.Errorf("Path = %q, want %q", s.Path(), dir)
	}
}

func TestNewRun(t *testing.T) {
	res := &route.Result{
		Solution: &route.Solution{SwapCount: 3},
		Stats:    route.Stats{AverageSwaps: 4.5, Duration: time.Second},
	}
	a := NewRun("hex", 10, 15, res)
	b := NewRun("hex", 10, 15, res)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids should be unique, got %q and %q", a.ID, b.ID)
	}
	if a.SwapCount != 3 || a.AverageSwaps != 4.5 || a.Duration != time.Second {
		t.Errorf("NewRun = %+v", a)
	}
	if a.Summary().Solution != nil || a.Solution == nil {
		t.Error("Summary should drop only the solution")
	}
}

func TestNewMongoStoreRequiresURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{}); err == nil {
		t.Error("expected error without uri")
	}
	if _, err := NewMongoStore(context.Background(), MongoConfig{URI: "not-a-mongo-uri"}); err == nil {
		t.Error("expected error for a malformed uri")
	}
}

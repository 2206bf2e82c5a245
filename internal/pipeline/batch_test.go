package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ppiankov/evalia/internal/model"
)

type fakeEvaluator struct {
	mu       sync.Mutex
	rendered []string
	failOn   string
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, query, draft string) (*Result, error) {
	if f.failOn != "" && strings.Contains(draft, f.failOn) {
		return nil, errors.New("evaluation failed")
	}
	return &Result{
		Report: &model.Report{Query: query, OriginalDraftLength: len(draft)},
		Draft:  draft,
	}, nil
}

func (f *fakeEvaluator) Render(result *Result, outDir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rendered = append(f.rendered, outDir)
	return nil
}

func writeDraft(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
	return path
}

func TestProcess_EvaluatesEachDraft(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDraft(t, dir, "alpha.md", "first draft"),
		writeDraft(t, dir, "beta.md", "second draft"),
	}

	eval := &fakeEvaluator{}
	b := NewBatchProcessor(eval, 2)

	results := b.Process(context.Background(), "some query", paths, filepath.Join(dir, "out"))

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q (positional)", i, r.Path, paths[i])
		}
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v", i, r.Err)
		}
		if r.Report == nil || r.Report.Query != "some query" {
			t.Errorf("results[%d].Report = %+v", i, r.Report)
		}
	}

	// Each draft renders into a subdirectory named after the file
	for _, want := range []string{"alpha", "beta"} {
		found := false
		for _, outDir := range eval.rendered {
			if filepath.Base(outDir) == want {
				found = true
			}
		}
		if !found {
			t.Errorf("no render into subdirectory %q (rendered: %v)", want, eval.rendered)
		}
	}
}

func TestProcess_PerDraftErrorsDoNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDraft(t, dir, "good.md", "fine draft"),
		writeDraft(t, dir, "bad.md", "poison draft"),
		filepath.Join(dir, "missing.md"),
	}

	eval := &fakeEvaluator{failOn: "poison"}
	b := NewBatchProcessor(eval, 1)

	results := b.Process(context.Background(), "q", paths, filepath.Join(dir, "out"))

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("good draft errored: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("poisoned draft: want evaluation error")
	}
	if results[2].Err == nil {
		t.Error("missing file: want read error")
	}
}

// Drafts never picked up because the context expired must still come back
// as failures: callers read Report on every Err == nil entry.
func TestProcess_CancelledContextMarksSkippedDrafts(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeDraft(t, dir, "one.md", "draft one"),
		writeDraft(t, dir, "two.md", "draft two"),
		writeDraft(t, dir, "three.md", "draft three"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBatchProcessor(&fakeEvaluator{}, 2)
	results := b.Process(ctx, "q", paths, filepath.Join(dir, "out"))

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Err == nil && r.Report == nil {
			t.Errorf("results[%d]: neither Err nor Report set", i)
		}
		if r.Err == nil {
			continue
		}
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
		if r.Path != paths[i] {
			t.Errorf("results[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "drafts.txt")
	content := strings.Join([]string{
		"# drafts to evaluate",
		"a.md",
		"",
		"  b.md  ",
		"a.md",
		"# trailing comment",
		"c.md",
	}, "\n")
	if err := os.WriteFile(list, []byte(content), 0644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile: %v", err)
	}

	want := []string{"a.md", "b.md", "c.md"}
	if len(paths) != len(want) {
		t.Fatalf("got %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestReadPathsFromFile_Missing(t *testing.T) {
	if _, err := ReadPathsFromFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("want error for missing list file")
	}
}

func TestDraftName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"drafts/report.md", "report"},
		{"/abs/path/draft.txt", "draft"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := draftName(tt.in); got != tt.want {
			t.Errorf("draftName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

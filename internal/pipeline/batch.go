package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/evalia/internal/model"
	"github.com/ppiankov/evalia/internal/worker"
)

// Evaluator runs one evaluation and renders its reports
type Evaluator interface {
	Evaluate(ctx context.Context, query string, draft string) (*Result, error)
	Render(result *Result, outDir string) error
}

// BatchResult is the outcome of evaluating one draft file
type BatchResult struct {
	Path   string
	Report *model.Report
	Err    error
}

// BatchProcessor evaluates multiple draft files against one query
// concurrently. Each draft gets its own subdirectory of reports.
type BatchProcessor struct {
	evaluator   Evaluator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(evaluator Evaluator, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// ProcessFile reads draft paths from a list file (one per line) and
// evaluates them concurrently. Results are positional with the input list.
func (b *BatchProcessor) ProcessFile(ctx context.Context, query, listPath, outputDir string) ([]BatchResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read draft list: %w", err)
	}

	return b.Process(ctx, query, paths, outputDir), nil
}

// Process evaluates the given draft files concurrently. Every returned
// entry carries either a Report or an Err: drafts skipped because the
// context expired report the context error.
func (b *BatchProcessor) Process(ctx context.Context, query string, paths []string, outputDir string) []BatchResult {
	results := worker.Map(ctx, paths, b.concurrency, func(ctx context.Context, path string) BatchResult {
		draft, err := os.ReadFile(path)
		if err != nil {
			return BatchResult{Path: path, Err: fmt.Errorf("read draft: %w", err)}
		}

		result, err := b.evaluator.Evaluate(ctx, query, string(draft))
		if err != nil {
			return BatchResult{Path: path, Err: err}
		}

		outDir := filepath.Join(outputDir, draftName(path))
		if err := b.evaluator.Render(result, outDir); err != nil {
			return BatchResult{Path: path, Err: err}
		}

		return BatchResult{Path: path, Report: result.Report}
	})

	// Slots never executed (cancelled before a worker picked them up)
	// come back zero-valued; surface the cancellation instead
	for i := range results {
		if results[i].Report == nil && results[i].Err == nil {
			results[i].Path = paths[i]
			if err := ctx.Err(); err != nil {
				results[i].Err = err
			} else {
				results[i].Err = fmt.Errorf("evaluation did not run")
			}
		}
	}

	return results
}

// ReadPathsFromFile reads draft paths from a file, one per line. Blank
// lines and # comments are skipped; duplicates are dropped.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// draftName derives an output subdirectory name from a draft path
func draftName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

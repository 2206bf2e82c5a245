package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/evalia/internal/cache"
	"github.com/ppiankov/evalia/internal/check"
	"github.com/ppiankov/evalia/internal/extract"
	"github.com/ppiankov/evalia/internal/llm"
	"github.com/ppiankov/evalia/internal/model"
	"github.com/ppiankov/evalia/internal/revise"
	"github.com/ppiankov/evalia/internal/score"
	"github.com/ppiankov/evalia/internal/search"
)

// Pipeline orchestrates the complete evaluation: criteria -> claims ->
// fact-checks -> score -> conditional revision -> reports. Stages run in
// strict sequence; every stage completes via its fallback if the primary
// path fails, so partial results never surface downstream.
type Pipeline struct {
	criteriaExtractor *extract.CriteriaExtractor
	claimExtractor    *extract.ClaimExtractor
	checker           *check.FactChecker
	scorer            *score.Scorer
	reviser           *revise.Reviser
	renderer          *Renderer
	config            *model.Config
}

// NewPipeline creates a pipeline from configuration. A failed LLM provider
// initialization disables the LLM (heuristics everywhere) rather than
// aborting: configuration absence is not an error.
func NewPipeline(cfg *model.Config) *Pipeline {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		provider = nil
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cacheDir(cfg.Cache.Dir), cfg.Cache.DiskTTL)
	}

	searcher := search.NewClient(cfg.Search, store)

	return &Pipeline{
		criteriaExtractor: extract.NewCriteriaExtractor(provider),
		claimExtractor:    extract.NewClaimExtractor(provider),
		checker:           check.NewFactChecker(searcher, provider),
		scorer:            score.NewScorer(),
		reviser:           revise.NewReviser(provider),
		renderer:          NewRenderer(),
		config:            cfg,
	}
}

// Result contains everything the report writers need
type Result struct {
	Report     *model.Report
	Draft      string // Original draft text
	FixedDraft string // Revised draft; equals Draft when no revision ran
}

// Evaluate runs the full evaluation over one query/draft pair
func (p *Pipeline) Evaluate(ctx context.Context, query string, draft string) (*Result, error) {
	fmt.Fprintln(os.Stderr, "[INFO] Starting evaluation pipeline...")

	fmt.Fprintln(os.Stderr, "[1/6] Extracting evaluation criteria...")
	criteria := p.criteriaExtractor.Extract(ctx, query)

	fmt.Fprintln(os.Stderr, "[2/6] Extracting claims from draft...")
	claims := p.claimExtractor.Extract(ctx, draft)
	fmt.Fprintf(os.Stderr, "      Found %d claims to verify\n", len(claims))

	if len(claims) > extract.MaxClaims {
		claims = claims[:extract.MaxClaims]
	}

	fmt.Fprintln(os.Stderr, "[3/6] Fact-checking claims...")
	factChecks := p.checker.CheckAll(ctx, claims, p.config.Concurrency.CheckWorkers)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fact-checking interrupted: %w", err)
	}

	fmt.Fprintln(os.Stderr, "[4/6] Calculating scores...")
	evalScore := p.scorer.Calculate(draft, criteria, factChecks)

	fixedDraft := draft
	autoFixed := evalScore.Overall < model.ReviseThreshold
	if autoFixed {
		fmt.Fprintf(os.Stderr, "[5/6] Auto-fixing draft (score below %.1f)...\n", model.ReviseThreshold)
		fixedDraft = p.reviser.Revise(ctx, draft, criteria, factChecks)
	}

	report := &model.Report{
		Timestamp:           time.Now(),
		Query:               query,
		Score:               evalScore,
		Criteria:            criteria,
		FactChecks:          factChecks,
		OriginalDraftLength: len(draft),
		AutoFixed:           autoFixed,
	}
	if fixedDraft != draft {
		fixedLen := len(fixedDraft)
		report.FixedDraftLength = &fixedLen
	}

	return &Result{
		Report:     report,
		Draft:      draft,
		FixedDraft: fixedDraft,
	}, nil
}

// Render writes the three report artifacts to outDir and prints the
// colored summary to stdout.
func (p *Pipeline) Render(result *Result, outDir string) error {
	fmt.Fprintln(os.Stderr, "[6/6] Generating reports...")

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := p.renderer.WriteMarkdown(result, filepath.Join(outDir, "report.md")); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	if err := p.renderer.WriteHTML(result, filepath.Join(outDir, "report.html")); err != nil {
		return fmt.Errorf("render HTML: %w", err)
	}
	if err := p.renderer.WriteJSON(result, filepath.Join(outDir, "report.json")); err != nil {
		return fmt.Errorf("render JSON: %w", err)
	}

	p.renderer.PrintSummary(result, outDir)
	return nil
}

// cacheDir resolves the disk cache location, defaulting to ~/.evalia/cache
func cacheDir(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".evalia-cache"
	}
	return filepath.Join(home, ".evalia", "cache")
}

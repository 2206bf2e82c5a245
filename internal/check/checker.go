package check

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/evalia/internal/llm"
	"github.com/ppiankov/evalia/internal/model"
	"github.com/ppiankov/evalia/internal/search"
	"github.com/ppiankov/evalia/internal/worker"
)

const (
	// evidenceResults is the number of search results retrieved per claim
	evidenceResults = 3

	// overlapThreshold is the claim-to-snippet word overlap ratio above
	// which a source counts as matching in the heuristic path
	overlapThreshold = 0.3
)

const checkerSystem = "You are a fact-checking assistant. Analyze claims and determine if they are supported, contradicted, or have insufficient evidence. Always respond with valid JSON only."

// FactChecker verifies claims against web-search evidence. The LLM path
// classifies each claim; any failure degrades to keyword-overlap
// heuristics, so a FactCheckResult is always produced.
type FactChecker struct {
	searcher *search.Client
	provider llm.Provider // nil = LLM disabled, heuristic only
}

// NewFactChecker creates a new fact checker
func NewFactChecker(searcher *search.Client, provider llm.Provider) *FactChecker {
	return &FactChecker{
		searcher: searcher,
		provider: provider,
	}
}

// verdictResponse is the JSON shape requested from the LLM
type verdictResponse struct {
	Verdict    string  `json:"verdict"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// Check fact-checks a single claim. Evidence is always retrieved first,
// even when the LLM is disabled, so the heuristic path has sources to
// match against.
func (f *FactChecker) Check(ctx context.Context, claim model.Claim) model.FactCheckResult {
	sources := f.searcher.Search(ctx, claim.ClaimText, evidenceResults)

	if f.provider == nil {
		return heuristicCheck(claim, sources)
	}

	var sourcesText strings.Builder
	for i, s := range sources {
		fmt.Fprintf(&sourcesText, "Source %d: %s\nURL: %s\nSnippet: %s\n", i+1, s.Title, s.URL, s.Snippet)
	}

	prompt := fmt.Sprintf(`Given this claim and these sources, determine if the claim is:
- supported: sources clearly support the claim
- contradicted: sources contradict the claim
- insufficient: not enough evidence to determine

Claim: %s

Sources:
%s
Return JSON with:
- verdict: supported|contradicted|insufficient
- confidence: 0.0 to 1.0
- rationale: brief explanation`, claim.ClaimText, sourcesText.String())

	text, err := f.provider.Complete(ctx, llm.CompletionRequest{
		System: checkerSystem,
		Prompt: prompt,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: fact-check failed: %v\n", err)
		return heuristicCheck(claim, sources)
	}

	var parsed verdictResponse
	if err := llm.DecodeJSON(text, &parsed); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: fact-check response not parseable: %v\n", err)
		return heuristicCheck(claim, sources)
	}

	verdict := model.Verdict(parsed.Verdict)
	switch verdict {
	case model.VerdictSupported, model.VerdictContradicted, model.VerdictInsufficient:
	default:
		verdict = model.VerdictInsufficient
	}

	confidence := parsed.Confidence
	if confidence < 0 || confidence > 1 {
		confidence = 0.5
	}

	rationale := parsed.Rationale
	if rationale == "" {
		rationale = "Unable to determine"
	}

	return model.FactCheckResult{
		Claim:      claim.ClaimText,
		Verdict:    verdict,
		Confidence: confidence,
		Rationale:  rationale,
		Sources:    sources,
	}
}

// CheckAll fact-checks claims with at most workers concurrent checks.
// Results are positional: results[i] belongs to claims[i]. workers = 1
// checks strictly one claim at a time.
func (f *FactChecker) CheckAll(ctx context.Context, claims []model.Claim, workers int) []model.FactCheckResult {
	return worker.Map(ctx, claims, workers, func(ctx context.Context, claim model.Claim) model.FactCheckResult {
		return f.Check(ctx, claim)
	})
}

// heuristicCheck assigns a verdict from word-set overlap between the claim
// and each snippet. This path never emits contradicted: unmatched claims
// are treated as unverified, not false.
func heuristicCheck(claim model.Claim, sources []model.SearchResult) model.FactCheckResult {
	claimWords := wordSet(claim.ClaimText)

	matchCount := 0
	for _, source := range sources {
		snippetWords := wordSet(source.Snippet)
		if len(claimWords) == 0 {
			break
		}
		overlapping := 0
		for w := range claimWords {
			if snippetWords[w] {
				overlapping++
			}
		}
		if float64(overlapping)/float64(len(claimWords)) > overlapThreshold {
			matchCount++
		}
	}

	var (
		verdict    model.Verdict
		confidence float64
		rationale  string
	)
	switch {
	case matchCount >= 2:
		verdict = model.VerdictSupported
		confidence = 0.7
		rationale = fmt.Sprintf("Found %d sources with matching content", matchCount)
	case matchCount == 1:
		verdict = model.VerdictInsufficient
		confidence = 0.5
		rationale = "Limited evidence found"
	default:
		verdict = model.VerdictInsufficient
		confidence = 0.3
		rationale = "No clear supporting evidence found"
	}

	return model.FactCheckResult{
		Claim:      claim.ClaimText,
		Verdict:    verdict,
		Confidence: confidence,
		Rationale:  rationale,
		Sources:    sources,
	}
}

// wordSet tokenizes text into a lowercase word set
func wordSet(text string) map[string]bool {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

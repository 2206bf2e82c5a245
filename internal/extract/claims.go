package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/evalia/internal/llm"
	"github.com/ppiankov/evalia/internal/model"
)

const (
	// MaxClaims bounds downstream fact-check cost
	MaxClaims = 10

	// claimDraftLimit truncates the draft before prompting. Cost/latency
	// trade-off carried over from the original behavior: claims beyond this
	// point are never extracted or checked.
	claimDraftLimit = 3000

	// Fallback path: sentences considered and the minimum length kept
	fallbackSentenceLimit = 20
	minSentenceLength     = 20
)

const claimsSystem = "You are a helpful assistant that extracts verifiable claims from text. Always respond with a valid JSON array only."

// ClaimExtractor segments a draft into atomic, independently verifiable
// claims. At most MaxClaims are returned. Any LLM failure degrades to
// sentence splitting.
type ClaimExtractor struct {
	provider llm.Provider // nil = LLM disabled, heuristic only
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(provider llm.Provider) *ClaimExtractor {
	return &ClaimExtractor{provider: provider}
}

// Extract segments the draft into verifiable claims
func (e *ClaimExtractor) Extract(ctx context.Context, draft string) []model.Claim {
	if e.provider == nil {
		return heuristicClaims(draft)
	}

	truncated := draft
	if len(truncated) > claimDraftLimit {
		truncated = truncated[:claimDraftLimit]
	}

	prompt := fmt.Sprintf(`Extract verifiable claims (short, atomic statements) from this draft.
For each claim provide:
- claim_text: the specific claim being made
- evidence_needed: what type of evidence would verify this
- priority: high|medium|low based on importance

Draft:
%s

Return JSON array of claims.`, truncated)

	text, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: claimsSystem,
		Prompt: prompt,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: claim extraction failed: %v\n", err)
		return heuristicClaims(draft)
	}

	var claims []model.Claim
	if err := llm.DecodeJSON(text, &claims); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: claims response not parseable: %v\n", err)
		return heuristicClaims(draft)
	}

	if len(claims) > MaxClaims {
		claims = claims[:MaxClaims]
	}
	return claims
}

// heuristicClaims splits the draft on sentence terminators and wraps each
// sufficiently long sentence as a medium-priority claim.
func heuristicClaims(draft string) []model.Claim {
	sentences := strings.Split(draft, ".")
	if len(sentences) > fallbackSentenceLimit {
		sentences = sentences[:fallbackSentenceLimit]
	}

	var claims []model.Claim
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > minSentenceLength {
			claims = append(claims, model.Claim{
				ClaimText:      sentence,
				EvidenceNeeded: "Web search verification",
				Priority:       model.PriorityMedium,
			})
		}
	}

	if len(claims) > MaxClaims {
		claims = claims[:MaxClaims]
	}
	return claims
}

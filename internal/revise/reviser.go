package revise

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/evalia/internal/llm"
	"github.com/ppiankov/evalia/internal/model"
)

const (
	// reviseDraftLimit truncates the draft before prompting; issues beyond
	// this point are not presented to the model (known completeness gap,
	// carried over from the original behavior)
	reviseDraftLimit = 2000

	// warningClaimLimit truncates claim text in fallback warnings
	warningClaimLimit = 50

	// fallbackSourceLimit caps the generated sources section
	fallbackSourceLimit = 5
)

const reviserSystem = "You are a helpful assistant that rewrites drafts to correct errors and improve quality. Output clean Markdown text."

// Reviser rewrites a draft based on fact-checking results. Invoked by the
// pipeline only when the overall score falls below model.ReviseThreshold.
type Reviser struct {
	provider llm.Provider // nil = LLM disabled, templated fallback only
}

// NewReviser creates a new reviser
func NewReviser(provider llm.Provider) *Reviser {
	return &Reviser{provider: provider}
}

// Revise returns a corrected version of the draft
func (r *Reviser) Revise(ctx context.Context, draft string, criteria model.Criteria, factChecks []model.FactCheckResult) string {
	if r.provider == nil {
		return fallbackRevise(draft, factChecks)
	}

	truncated := draft
	if len(truncated) > reviseDraftLimit {
		truncated = truncated[:reviseDraftLimit]
	}

	type issue struct {
		Claim   string        `json:"claim"`
		Verdict model.Verdict `json:"verdict"`
	}
	var issues []issue
	for _, fc := range factChecks {
		if fc.Verdict != model.VerdictSupported {
			issues = append(issues, issue{Claim: fc.Claim, Verdict: fc.Verdict})
		}
	}

	issuesJSON, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		issuesJSON = []byte("[]")
	}
	criteriaJSON, err := json.MarshalIndent(criteria, "", "  ")
	if err != nil {
		criteriaJSON = []byte("{}")
	}

	prompt := fmt.Sprintf(`Rewrite this draft to:
1. Correct any factual errors based on fact-checking
2. Ensure all criteria are met
3. Include inline citations [1], [2] etc.
4. Keep it concise and well-structured
5. Use clear Markdown formatting

Original draft (first %d chars):
%s

Issues found:
%s

Criteria to meet:
%s

Return the corrected Markdown text.`, reviseDraftLimit, truncated, issuesJSON, criteriaJSON)

	text, err := r.provider.Complete(ctx, llm.CompletionRequest{
		System:      reviserSystem,
		Prompt:      prompt,
		Temperature: 0.5, // Rewriting wants more freedom than classification
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: revision failed: %v\n", err)
		return fallbackRevise(draft, factChecks)
	}

	return text
}

// fallbackRevise appends a verification warning for every contradicted
// claim and, when no sources heading is present, a generated sources
// section listing each fact-check's first source URL.
func fallbackRevise(draft string, factChecks []model.FactCheckResult) string {
	fixed := draft

	for _, fc := range factChecks {
		if fc.Verdict != model.VerdictContradicted {
			continue
		}
		claim := fc.Claim
		if len(claim) > warningClaimLimit {
			claim = claim[:warningClaimLimit]
		}
		fixed += fmt.Sprintf("\n**Note**: The claim '%s...' may need verification.\n", claim)
	}

	if !strings.Contains(fixed, "## Sources") && !strings.Contains(fixed, "## References") {
		fixed += "\n\n## Sources\n"
		n := 0
		for _, fc := range factChecks {
			if n >= fallbackSourceLimit {
				break
			}
			n++
			if len(fc.Sources) > 0 {
				fixed += fmt.Sprintf("[%d] %s\n", n, fc.Sources[0].URL)
			}
		}
	}

	return fixed
}

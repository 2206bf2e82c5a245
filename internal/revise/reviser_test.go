package revise

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/evalia/internal/llm"
	"github.com/ppiankov/evalia/internal/model"
)

type stubProvider struct {
	response string
	err      error
	lastReq  llm.CompletionRequest
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	s.lastReq = req
	return s.response, s.err
}

func (s *stubProvider) IsAvailable(ctx context.Context) bool { return s.err == nil }

func check(claim string, verdict model.Verdict, urls ...string) model.FactCheckResult {
	fc := model.FactCheckResult{Claim: claim, Verdict: verdict, Confidence: 0.7}
	for _, u := range urls {
		fc.Sources = append(fc.Sources, model.SearchResult{Title: "T", URL: u, Snippet: "s"})
	}
	return fc
}

func TestFallbackRevise_WarnsOnContradictedClaims(t *testing.T) {
	r := NewReviser(nil)

	longClaim := strings.Repeat("x", 80)
	checks := []model.FactCheckResult{
		check("the earth is flat", model.VerdictContradicted, "https://example.com/a"),
		check(longClaim, model.VerdictContradicted, "https://example.com/b"),
		check("water is wet", model.VerdictSupported, "https://example.com/c"),
		check("unclear claim", model.VerdictInsufficient, "https://example.com/d"),
	}

	fixed := r.Revise(context.Background(), "Draft body.", model.Criteria{}, checks)

	if !strings.Contains(fixed, "**Note**: The claim 'the earth is flat...' may need verification.") {
		t.Errorf("missing warning for contradicted claim:\n%s", fixed)
	}
	if !strings.Contains(fixed, "'"+longClaim[:50]+"...'") {
		t.Error("long claim not truncated to 50 chars in warning")
	}
	if strings.Contains(fixed, "water is wet") {
		t.Error("supported claim got a warning")
	}
	if strings.Contains(fixed, "unclear claim") {
		t.Error("insufficient claim got a warning; only contradicted claims warrant one")
	}
}

func TestFallbackRevise_AppendsSourcesSection(t *testing.T) {
	r := NewReviser(nil)

	var checks []model.FactCheckResult
	for i := 0; i < 8; i++ {
		checks = append(checks, check(
			fmt.Sprintf("claim %d", i),
			model.VerdictSupported,
			fmt.Sprintf("https://example.com/%d", i),
		))
	}

	fixed := r.Revise(context.Background(), "Draft body.", model.Criteria{}, checks)

	if !strings.Contains(fixed, "## Sources") {
		t.Fatalf("missing sources section:\n%s", fixed)
	}
	if !strings.Contains(fixed, "[1] https://example.com/0") {
		t.Error("first source missing")
	}
	if !strings.Contains(fixed, "[5] https://example.com/4") {
		t.Error("fifth source missing")
	}
	if strings.Contains(fixed, "example.com/5") {
		t.Error("sources section not capped at 5 entries")
	}
}

func TestFallbackRevise_SkipsSourcesWhenHeadingPresent(t *testing.T) {
	r := NewReviser(nil)

	for _, heading := range []string{"## Sources", "## References"} {
		draft := "Draft body.\n\n" + heading + "\n[1] https://original.example\n"
		fixed := r.Revise(context.Background(), draft, model.Criteria{}, []model.FactCheckResult{
			check("claim", model.VerdictSupported, "https://example.com/new"),
		})

		if strings.Contains(fixed, "https://example.com/new") {
			t.Errorf("draft with %q heading got a generated sources entry", heading)
		}
	}
}

func TestRevise_LLMPath(t *testing.T) {
	provider := &stubProvider{response: "# Corrected\n\nBetter draft [1].\n"}
	r := NewReviser(provider)

	checks := []model.FactCheckResult{
		check("bad claim", model.VerdictContradicted, "https://example.com/a"),
		check("fine claim", model.VerdictSupported, "https://example.com/b"),
	}
	criteria := model.Criteria{MustInclude: []string{"benchmarks"}}

	fixed := r.Revise(context.Background(), "Original draft.", criteria, checks)

	if fixed != "# Corrected\n\nBetter draft [1].\n" {
		t.Errorf("Revise = %q", fixed)
	}
	if provider.lastReq.Temperature != 0.5 {
		t.Errorf("Temperature = %v, want 0.5", provider.lastReq.Temperature)
	}
	if !strings.Contains(provider.lastReq.Prompt, "bad claim") {
		t.Error("prompt missing non-supported claim")
	}
	if strings.Contains(provider.lastReq.Prompt, `"fine claim"`) {
		t.Error("prompt lists a supported claim as an issue")
	}
	if !strings.Contains(provider.lastReq.Prompt, "benchmarks") {
		t.Error("prompt missing criteria")
	}
}

func TestRevise_TruncatesLongDraftInPrompt(t *testing.T) {
	provider := &stubProvider{response: "ok"}
	r := NewReviser(provider)

	draft := strings.Repeat("a", 2500) + "UNIQUE-TAIL"
	r.Revise(context.Background(), draft, model.Criteria{}, nil)

	if strings.Contains(provider.lastReq.Prompt, "UNIQUE-TAIL") {
		t.Error("prompt contains draft content past the 2000-char limit")
	}
}

func TestRevise_LLMFailure_FallsBack(t *testing.T) {
	provider := &stubProvider{err: errors.New("timeout")}
	r := NewReviser(provider)

	fixed := r.Revise(context.Background(), "Draft body.", model.Criteria{}, []model.FactCheckResult{
		check("shaky claim", model.VerdictContradicted, "https://example.com/a"),
	})

	if !strings.Contains(fixed, "Draft body.") {
		t.Error("fallback lost the original draft")
	}
	if !strings.Contains(fixed, "may need verification") {
		t.Error("fallback missing verification warning")
	}
}

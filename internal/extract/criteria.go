package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ppiankov/evalia/internal/llm"
	"github.com/ppiankov/evalia/internal/model"
)

// mustIncludePattern captures the token following coverage verbs
var mustIncludePattern = regexp.MustCompile(`\b(?:include|cover|explain|describe)\s+(\w+)`)

const criteriaSystem = "You are a helpful assistant that extracts evaluation criteria from queries. Always respond with valid JSON only."

// CriteriaExtractor turns a free-text user query into structured evaluation
// criteria. It never fails outward: any LLM failure degrades to a
// deterministic keyword heuristic, so the pipeline always receives a valid
// Criteria value.
type CriteriaExtractor struct {
	provider llm.Provider // nil = LLM disabled, heuristic only
}

// NewCriteriaExtractor creates a new criteria extractor
func NewCriteriaExtractor(provider llm.Provider) *CriteriaExtractor {
	return &CriteriaExtractor{provider: provider}
}

// Extract derives evaluation criteria from the user query
func (e *CriteriaExtractor) Extract(ctx context.Context, query string) model.Criteria {
	if e.provider == nil {
		return heuristicCriteria(query)
	}

	prompt := fmt.Sprintf(`Extract evaluation criteria from the user's question. Return strict JSON with:
- goals: list of main objectives the answer should achieve
- constraints: list of limitations or requirements
- must_include: list of topics/points that must be covered
- nice_to_have: list of optional but valuable additions
- disallowed: list of things to avoid

User question: %s

Return only valid JSON.`, query)

	text, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: criteriaSystem,
		Prompt: prompt,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: criteria extraction failed: %v\n", err)
		return heuristicCriteria(query)
	}

	var criteria model.Criteria
	if err := llm.DecodeJSON(text, &criteria); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: criteria response not parseable: %v\n", err)
		return heuristicCriteria(query)
	}

	return criteria
}

// heuristicCriteria derives criteria from trigger words in the query.
// Goals come from compare/best/how; must_include from tokens following
// coverage verbs; the remaining fields are fixed defaults.
func heuristicCriteria(query string) model.Criteria {
	queryLower := strings.ToLower(query)

	var goals []string
	if strings.Contains(queryLower, "compare") {
		goals = append(goals, "Provide comprehensive comparison")
	}
	if strings.Contains(queryLower, "best") {
		goals = append(goals, "Identify best options with justification")
	}
	if strings.Contains(queryLower, "how") {
		goals = append(goals, "Provide actionable instructions")
	}
	if len(goals) == 0 {
		goals = []string{"Answer the user's question comprehensively"}
	}

	var mustInclude []string
	for _, match := range mustIncludePattern.FindAllStringSubmatch(queryLower, -1) {
		mustInclude = append(mustInclude, match[1])
	}

	return model.Criteria{
		Goals:       goals,
		Constraints: []string{"Be factual and accurate", "Use credible sources"},
		MustInclude: mustInclude,
		NiceToHave:  []string{"Recent information (2023-2024)", "Multiple perspectives"},
		Disallowed:  []string{"Speculation without evidence", "Outdated information"},
	}
}

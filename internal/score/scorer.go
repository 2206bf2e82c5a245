package score

import (
	"strings"

	"github.com/ppiankov/evalia/internal/model"
)

// Scorer combines fact-check verdicts and criteria coverage into the four
// component scores and the weighted overall. Calculate is a pure function
// of its inputs.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores the draft. Denominators floor at 1 so empty fact-check
// or must-include lists never divide by zero.
func (s *Scorer) Calculate(draft string, criteria model.Criteria, factChecks []model.FactCheckResult) model.EvaluationScore {
	result := model.EvaluationScore{
		Accuracy:         s.accuracy(factChecks),
		Coverage:         s.coverage(draft, criteria),
		CitationsQuality: s.citationsQuality(factChecks),
		ClarityStructure: s.clarityStructure(draft),
	}
	result.CalculateOverall()
	return result
}

// accuracy is the supported fraction of fact-checks, scaled to 0-5
func (s *Scorer) accuracy(factChecks []model.FactCheckResult) float64 {
	supported := 0
	for _, fc := range factChecks {
		if fc.Verdict == model.VerdictSupported {
			supported++
		}
	}

	total := len(factChecks)
	if total == 0 {
		total = 1
	}
	return float64(supported) / float64(total) * 5.0
}

// coverage is the fraction of must-include items found in the draft
// (case-insensitive substring match), scaled to 0-5
func (s *Scorer) coverage(draft string, criteria model.Criteria) float64 {
	draftLower := strings.ToLower(draft)

	covered := 0
	for _, item := range criteria.MustInclude {
		if strings.Contains(draftLower, strings.ToLower(item)) {
			covered++
		}
	}

	total := len(criteria.MustInclude)
	if total == 0 {
		total = 1
	}
	return float64(covered) / float64(total) * 5.0
}

// citationsQuality rewards distinct source URLs across all fact-checks,
// half a point per URL, capped at 5
func (s *Scorer) citationsQuality(factChecks []model.FactCheckResult) float64 {
	unique := make(map[string]bool)
	for _, fc := range factChecks {
		for _, src := range fc.Sources {
			unique[src.URL] = true
		}
	}

	quality := float64(len(unique)) / 2
	if quality > 5.0 {
		quality = 5.0
	}
	return quality
}

// clarityStructure starts at 3.0, adds a point for a readable length and a
// point for sectioning, capped at 5
func (s *Scorer) clarityStructure(draft string) float64 {
	clarity := 3.0
	if len(draft) > 500 && len(draft) < 5000 {
		clarity += 1.0
	}
	if strings.Count(draft, "#") > 3 {
		clarity += 1.0
	}
	if clarity > 5.0 {
		clarity = 5.0
	}
	return clarity
}

package model

import "time"

// Report is the machine-readable evaluation result written to report.json.
// This schema is the canonical programmatic contract; the Markdown and HTML
// outputs are presentation-only renderings of the same data.
type Report struct {
	Timestamp time.Time `json:"timestamp"` // When the evaluation ran
	Query     string    `json:"query"`     // The original user question

	Score      EvaluationScore   `json:"score"`
	Criteria   Criteria          `json:"criteria"`
	FactChecks []FactCheckResult `json:"fact_checks"`

	OriginalDraftLength int  `json:"original_draft_length"`
	FixedDraftLength    *int `json:"fixed_draft_length"` // nil when no revision ran
	AutoFixed           bool `json:"auto_fixed"`
}

// CountVerdict returns how many fact-checks carry the given verdict
func (r *Report) CountVerdict(v Verdict) int {
	count := 0
	for _, fc := range r.FactChecks {
		if fc.Verdict == v {
			count++
		}
	}
	return count
}

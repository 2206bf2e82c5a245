package model

// Score weights. Accuracy dominates; presentation counts least.
const (
	WeightAccuracy         = 0.45
	WeightCoverage         = 0.30
	WeightCitationsQuality = 0.15
	WeightClarityStructure = 0.10
)

// ReviseThreshold gates automatic revision of the draft
const ReviseThreshold = 3.5

// PoorQualityThreshold gates the non-zero "poor quality" exit status
const PoorQualityThreshold = 3.0

// EvaluationScore holds the four component scores (each 0-5) and the
// weighted overall. Overall is derived: always recompute it via
// CalculateOverall before reading, never set it directly.
type EvaluationScore struct {
	Accuracy         float64 `json:"accuracy"`
	Coverage         float64 `json:"coverage"`
	CitationsQuality float64 `json:"citations_quality"`
	ClarityStructure float64 `json:"clarity_structure"`
	Overall          float64 `json:"overall"`
}

// CalculateOverall recomputes the weighted overall score from the four
// components and returns it.
func (s *EvaluationScore) CalculateOverall() float64 {
	s.Overall = WeightAccuracy*s.Accuracy +
		WeightCoverage*s.Coverage +
		WeightCitationsQuality*s.CitationsQuality +
		WeightClarityStructure*s.ClarityStructure
	return s.Overall
}

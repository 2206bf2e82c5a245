package model

// SearchResult is a normalized web search hit used as fact-check evidence.
// Transient: it is not persisted beyond the fact-check result it supports.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Verdict classifies the fact-check outcome for a claim
type Verdict string

const (
	VerdictSupported    Verdict = "supported"    // Sources clearly support the claim
	VerdictContradicted Verdict = "contradicted" // Sources contradict the claim
	VerdictInsufficient Verdict = "insufficient" // Not enough evidence to determine
)

// FactCheckResult is the outcome of fact-checking a single claim.
// Produced exactly once per claim, immutable after creation.
type FactCheckResult struct {
	Claim      string         `json:"claim"`
	Verdict    Verdict        `json:"verdict"`
	Confidence float64        `json:"confidence"` // 0.0 to 1.0
	Rationale  string         `json:"rationale"`
	Sources    []SearchResult `json:"sources"`
}

package model

// Claim is an atomic, independently verifiable statement extracted from a draft
type Claim struct {
	ClaimText      string   `json:"claim_text"`      // The specific claim being made
	EvidenceNeeded string   `json:"evidence_needed"` // What type of evidence would verify this
	Priority       Priority `json:"priority"`        // Importance of verifying this claim
}

// Priority ranks how important it is to verify a claim
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

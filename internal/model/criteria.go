package model

// Criteria captures what an ideal answer to the user's query should
// contain and avoid. Produced once per evaluation run, read-only after.
type Criteria struct {
	Goals       []string `json:"goals"`        // Main objectives the answer should achieve
	Constraints []string `json:"constraints"`  // Limitations or requirements
	MustInclude []string `json:"must_include"` // Topics that must be covered
	NiceToHave  []string `json:"nice_to_have"` // Optional but valuable additions
	Disallowed  []string `json:"disallowed"`   // Things to avoid
}

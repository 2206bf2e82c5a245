package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// StripCodeFence removes a Markdown code-fence wrapper (```json ... ``` or
// ``` ... ```) from an LLM response, returning the inner text. Models often
// wrap JSON in fences even when told not to.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// DecodeJSON strips code fences and unmarshals the response into v.
// Malformed JSON gets one repair attempt (truncated strings, trailing
// commas, single quotes) before the error is returned to the caller, which
// then degrades to its heuristic path.
func DecodeJSON(text string, v interface{}) error {
	cleaned := StripCodeFence(text)

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return fmt.Errorf("repair JSON: %w", err)
	}

	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("parse repaired JSON: %w", err)
	}

	return nil
}

package memory

import (
	"fmt"
	"strings"
)

// KnowledgeResult is one retrieved passage of domain text. Score is
// derived from the index's distance metric as 1 - distance, so higher is
// more relevant. It is an ordering hint, not a calibrated probability.
type KnowledgeResult struct {
	Content string  `json:"content"`
	Source  string  `json:"source,omitempty"`
	Score   float64 `json:"score,omitempty"`
}

// KnowledgeBundle is the ordered result set of one retrieval call. An
// empty bundle is valid and means "no relevant knowledge". Bundles are
// produced fresh per query and never persisted.
type KnowledgeBundle struct {
	Results []KnowledgeResult
}

// Empty reports whether the bundle holds no results.
func (b KnowledgeBundle) Empty() bool {
	return len(b.Results) == 0
}

// Format renders the bundle as a prompt block. There is deliberately no
// visible difference between "nothing found" and "lookup failed".
func (b KnowledgeBundle) Format() string {
	if b.Empty() {
		return "No relevant knowledge.\n"
	}

	var sb strings.Builder
	sb.WriteString("Knowledge snippets relevant to the user's query; fold them into your answer:\n")
	for i, r := range b.Results {
		fmt.Fprintf(&sb, "--- Snippet %d ---\n", i+1)
		sb.WriteString(r.Content)
		sb.WriteString("\n")
		if r.Source != "" {
			fmt.Fprintf(&sb, "Source: %s\n", r.Source)
		}
	}
	sb.WriteString("------------------------\n")
	return sb.String()
}

package studio

import (
	"fmt"
	"strings"

	"sourcebook/internal/types"
)

// sourcePayload concatenates all sources into one numbered payload. Numbering
// follows registry insertion order so citation-style answers stay stable
// across calls against the same registry state.
func sourcePayload(sources []types.Source) string {
	var sb strings.Builder
	for i, src := range sources {
		fmt.Fprintf(&sb, "--- SOURCE %d: %s ---\n", i+1, src.Title)
		sb.WriteString(src.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// buildUserPrompt assembles the request body sent to the backend: the source
// payload, plus the user's question for chat intents.
func buildUserPrompt(sources []types.Source, question string) string {
	payload := sourcePayload(sources)
	if strings.TrimSpace(question) == "" {
		return payload
	}
	return payload + "QUESTION: " + strings.TrimSpace(question)
}

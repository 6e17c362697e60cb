package app

import "strings"

// Spans carry a single-line, length-capped copy of the SQL text so repo
// queries stay readable in the trace UI.
const maxTracedQueryLength = 512

func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) > maxTracedQueryLength {
		return normalized[:maxTracedQueryLength] + "..."
	}
	return normalized
}

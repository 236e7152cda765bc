// Package analysis turns raw resume and job text into structured
// profiles, match scores, optimizations and interview preparation. Every
// operation degrades to a heuristic result when no model backend is
// reachable, so the API stays usable without an API key.
package analysis

import (
	"strings"

	"github.com/jobalign/jobalign-api/internal/ai"
)

// Analyzer runs AI-backed document analysis
type Analyzer struct {
	client ai.Client
}

// NewAnalyzer creates an analyzer on top of a chat client
func NewAnalyzer(client ai.Client) *Analyzer {
	return &Analyzer{client: client}
}

// clampScore bounds a score to [0,100]
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// joinList renders a string slice for prompt interpolation
func joinList(items []string) string {
	if len(items) == 0 {
		return "(none listed)"
	}
	return strings.Join(items, ", ")
}

// truncate bounds prompt inputs so a pathological upload cannot blow
// past the model context window.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}

package agent

import (
	"regexp"
	"strings"
)

// Trigger vocabulary for the web-search gate. Any single match fires the
// gate; the classes are only documentation, not weights.
var searchKeywords = []string{
	// recency
	"current", "latest", "recent", "today", "now",
	// pricing
	"price", "market price", "cost",
	// information freshness
	"news", "update", "research", "study",
	// weather
	"weather", "forecast", "climate data",
}

// yearToken matches four-digit year mentions ("2024 wheat rates").
var yearToken = regexp.MustCompile(`\b20\d{2}\b`)

// shouldSearch decides whether the user's message warrants a live web
// search. Case-insensitive substring match against the fixed keyword set.
func shouldSearch(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range searchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return yearToken.MatchString(lower)
}

// buildSearchQuery biases the raw message toward agricultural results by
// appending the user's region and a fixed domain qualifier. Deterministic,
// no model involvement.
func buildSearchQuery(message, region string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(message))
	if region = strings.TrimSpace(region); region != "" {
		b.WriteString(" ")
		b.WriteString(region)
	}
	b.WriteString(" agriculture farming")
	return b.String()
}

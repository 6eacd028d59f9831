package rules

import "strings"

// The clusterer and the opportunity scorer both score records against
// keyword tables. One matcher serves both so the two tables cannot
// drift apart in matching semantics.

// Criteria is one theme's matching surface.
type Criteria struct {
	Keywords []string
	Features []string
	Tags     []string
}

// Matcher scores lower-cased text plus derived feature/tag sets
// against Criteria using the configured per-category weights.
type Matcher struct {
	weights Weights
}

func NewMatcher(weights Weights) *Matcher {
	return &Matcher{weights: weights}
}

// Score returns the weighted match score. textLower must already be
// lower-cased; keywords match as plain substrings.
func (m *Matcher) Score(textLower string, features, tags map[string]bool, c Criteria) int {
	score := 0
	for _, kw := range c.Keywords {
		if strings.Contains(textLower, kw) {
			score += m.weights.Keyword
		}
	}
	for _, f := range c.Features {
		if features[f] {
			score += m.weights.Feature
		}
	}
	for _, tag := range c.Tags {
		if tags[tag] {
			score += m.weights.Tag
		}
	}
	return score
}

// MatchesAny reports whether any keyword of c appears in textLower.
// The opportunity scorer gates on presence rather than score.
func (m *Matcher) MatchesAny(textLower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(textLower, kw) {
			return true
		}
	}
	return false
}

package pipeline

import (
	"regexp"
	"strings"
)

// contextMatcher answers "does this text contain a domain-context
// term". Short terms (2-3 letter acronyms) must match on word
// boundaries to avoid substring false positives; longer terms match as
// plain substrings. Built once per ruleset and shared by the gate and
// the enricher.
type contextMatcher struct {
	substrings []string
	boundaries []*regexp.Regexp
}

func newContextMatcher(terms []string) *contextMatcher {
	cm := &contextMatcher{}
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if len(term) <= 3 {
			cm.boundaries = append(cm.boundaries, regexp.MustCompile(`\b`+regexp.QuoteMeta(term)+`\b`))
		} else {
			cm.substrings = append(cm.substrings, term)
		}
	}
	return cm
}

func (cm *contextMatcher) Matches(textLower string) bool {
	for _, sub := range cm.substrings {
		if strings.Contains(textLower, sub) {
			return true
		}
	}
	for _, re := range cm.boundaries {
		if re.MatchString(textLower) {
			return true
		}
	}
	return false
}

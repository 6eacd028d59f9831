package pipeline

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// Discoverer scans enriched signals for domains that could become new
// scrape sources: link targets in post text plus the posts' own URLs,
// minus the domains already configured or on the skip list. Suggested
// entries are merged with the previous scan so approve/reject
// decisions survive re-runs.
type Discoverer struct {
	rules   *rules.Ruleset
	context *contextMatcher
	known   map[string]bool
}

const (
	maxSampleURLs     = 3
	maxContexts       = 2
	contextSnippetLen = 200
)

var (
	reURL        = regexp.MustCompile(`https?://[^\s\)\]"'<>,]+`)
	reTool       = regexp.MustCompile(`(?i)\b(saas|platform|tool|software|app|dashboard|analytics|suite)\b`)
	reNewsletter = regexp.MustCompile(`(?i)\b(newsletter|weekly|digest|roundup|briefing|recap|subscribe|inbox)\b`)
	reCommunity  = regexp.MustCompile(`(?i)\b(forum|community|slack|discord|group|subreddit|circle)\b`)
	reBlog       = regexp.MustCompile(`(?i)\b(blog|article|post|guide|tutorial|how-?to|resource)\b`)
)

func NewDiscoverer(rs *rules.Ruleset, knownDomains map[string]bool) *Discoverer {
	return &Discoverer{
		rules:   rs,
		context: newContextMatcher(rs.ContextTerms),
		known:   knownDomains,
	}
}

type domainAccum struct {
	count      int
	firstSeen  string
	lastSeen   string
	types      map[string]bool
	sampleURLs []string
	contexts   []string
	relevant   bool
}

// Run scans the signal set and merges the findings with the previous
// suggestions.
func (d *Discoverer) Run(signals []signal.Signal, previous []signal.DiscoveredSource) []signal.DiscoveredSource {
	accums := make(map[string]*domainAccum)

	for i := range signals {
		s := &signals[i]
		domains := d.extractDomains(s.Text)
		if domain, ok := d.domainOf(s.URL); ok {
			domains[domain] = true
		}

		for domain := range domains {
			if d.known[domain] {
				continue
			}
			acc := accums[domain]
			if acc == nil {
				acc = &domainAccum{types: make(map[string]bool)}
				accums[domain] = acc
			}
			acc.observe(s, domain, d.context)
		}
	}

	now := time.Now().Format(time.RFC3339)
	discovered := make([]signal.DiscoveredSource, 0, len(accums))
	for domain, acc := range accums {
		discovered = append(discovered, signal.DiscoveredSource{
			Domain:       domain,
			MentionCount: acc.count,
			FirstSeen:    acc.firstSeen,
			LastSeen:     acc.lastSeen,
			SourceTypes:  sortedKeys(acc.types),
			Relevant:     acc.relevant,
			SampleURLs:   acc.sampleURLs,
			Contexts:     acc.contexts,
			Status:       "suggested",
			DiscoveredAt: now,
		})
	}

	sort.SliceStable(discovered, func(i, j int) bool {
		if discovered[i].MentionCount != discovered[j].MentionCount {
			return discovered[i].MentionCount > discovered[j].MentionCount
		}
		return discovered[i].Domain < discovered[j].Domain
	})

	return mergeDiscovered(discovered, previous)
}

func (acc *domainAccum) observe(s *signal.Signal, domain string, context *contextMatcher) {
	acc.count++

	date := s.PostDate
	if date != "" {
		if acc.firstSeen == "" || date < acc.firstSeen {
			acc.firstSeen = date
		}
		if acc.lastSeen == "" || date > acc.lastSeen {
			acc.lastSeen = date
		}
	}

	combined := strings.ToLower(domain + " " + s.Text)
	if reTool.MatchString(combined) {
		acc.types["tool"] = true
	}
	if reNewsletter.MatchString(combined) {
		acc.types["newsletter"] = true
	}
	if reCommunity.MatchString(combined) {
		acc.types["community"] = true
	}
	if reBlog.MatchString(combined) {
		acc.types["blog"] = true
	}
	if len(acc.types) == 0 {
		acc.types["unknown"] = true
	}

	if context.Matches(strings.ToLower(s.Text)) {
		acc.relevant = true
	}

	if len(acc.sampleURLs) < maxSampleURLs && s.URL != "" {
		acc.sampleURLs = append(acc.sampleURLs, s.URL)
	}
	if len(acc.contexts) < maxContexts {
		snippet := strings.TrimSpace(s.Text)
		if len(snippet) > contextSnippetLen {
			snippet = snippet[:contextSnippetLen]
		}
		if snippet != "" {
			acc.contexts = append(acc.contexts, snippet)
		}
	}
}

func (d *Discoverer) extractDomains(text string) map[string]bool {
	domains := make(map[string]bool)
	for _, raw := range reURL.FindAllString(text, -1) {
		if domain, ok := d.domainOf(raw); ok {
			domains[domain] = true
		}
	}
	return domains
}

func (d *Discoverer) domainOf(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "", false
	}
	domain := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	if domain == "" || !strings.Contains(domain, ".") {
		return "", false
	}
	if d.rules.SkipDomains[domain] {
		return "", false
	}
	return domain, true
}

// mergeDiscovered keeps user decisions from the previous scan and
// retains old entries the new scan no longer sees.
func mergeDiscovered(discovered, previous []signal.DiscoveredSource) []signal.DiscoveredSource {
	prevByDomain := make(map[string]signal.DiscoveredSource, len(previous))
	for _, p := range previous {
		prevByDomain[p.Domain] = p
	}

	merged := make([]signal.DiscoveredSource, 0, len(discovered))
	seen := make(map[string]bool, len(discovered))

	for _, src := range discovered {
		if old, ok := prevByDomain[src.Domain]; ok {
			if old.Status == "approved" || old.Status == "rejected" {
				src.Status = old.Status
			}
			if old.MentionCount > src.MentionCount {
				src.MentionCount = old.MentionCount
			}
		}
		merged = append(merged, src)
		seen[src.Domain] = true
	}

	for _, old := range previous {
		if !seen[old.Domain] {
			merged = append(merged, old)
		}
	}

	return merged
}

package pipeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// UncategorizedTheme collects signals matching no theme rule.
const UncategorizedTheme = "Uncategorized"

const maxSampleTitles = 5

// Clusterer assigns each signal to at most one topical theme using
// the shared weighted-keyword matcher. Ties go to the first-declared
// theme, which makes assignment deterministic.
type Clusterer struct {
	rules   *rules.Ruleset
	matcher *rules.Matcher
}

func NewClusterer(rs *rules.Ruleset) *Clusterer {
	return &Clusterer{rules: rs, matcher: rules.NewMatcher(rs.Weights)}
}

func (c *Clusterer) Run(signals []signal.Signal) *signal.ClusterDoc {
	clusters := make(map[string]*signal.ThemeCluster)

	for i := range signals {
		s := &signals[i]
		theme := c.assign(s)

		cluster, ok := clusters[theme]
		if !ok {
			cluster = &signal.ThemeCluster{
				Sentiments:   make(map[signal.Sentiment]int),
				TopCompanies: make(map[string]int),
				TopTags:      make(map[string]int),
				SampleTitles: []string{},
				InsightIDs:   []string{},
			}
			clusters[theme] = cluster
		}

		cluster.InsightIDs = append(cluster.InsightIDs, s.PostID)
		cluster.Count++
		cluster.Sentiments[s.Sentiment]++
		for _, comp := range s.CompaniesMentioned {
			cluster.TopCompanies[comp]++
		}
		for _, tag := range s.EntityTags {
			cluster.TopTags[tag]++
		}
		if len(cluster.SampleTitles) < maxSampleTitles && s.Title != "" && !containsString(cluster.SampleTitles, s.Title) {
			cluster.SampleTitles = append(cluster.SampleTitles, s.Title)
		}
	}

	total := len(signals)
	for _, cluster := range clusters {
		cluster.Pct = roundPct(cluster.Count, total)
	}

	order := make([]string, 0, len(clusters))
	for theme := range clusters {
		order = append(order, theme)
	}
	sort.SliceStable(order, func(i, j int) bool {
		if clusters[order[i]].Count != clusters[order[j]].Count {
			return clusters[order[i]].Count > clusters[order[j]].Count
		}
		return order[i] < order[j]
	})

	return &signal.ClusterDoc{
		GeneratedAt:   time.Now().Format(time.RFC3339),
		TotalInsights: total,
		Clusters:      clusters,
		Order:         order,
	}
}

// assign picks the best-scoring theme for one signal, or
// UncategorizedTheme when nothing matches.
func (c *Clusterer) assign(s *signal.Signal) string {
	textLower := strings.ToLower(s.CombinedText())
	features := toSet(s.FeaturesMentioned)
	tags := toSet(s.EntityTags)

	best := UncategorizedTheme
	bestScore := 0
	for _, theme := range c.rules.Themes {
		score := c.matcher.Score(textLower, features, tags, rules.Criteria{
			Keywords: theme.Keywords,
			Features: theme.Features,
			Tags:     theme.Tags,
		})
		if score > bestScore {
			best = theme.Name
			bestScore = score
		}
	}
	return best
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func roundPct(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

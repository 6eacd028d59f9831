package rules

import "regexp"

// Ruleset is the full set of classification tables the pipeline runs on.
// Built once at startup from the defaults (optionally overridden from a
// YAML file) and passed by reference into every stage.
type Ruleset struct {
	// Relevance gate vocabularies
	ContextTerms      []string
	WeakTerms         []string
	WhitelistSources  map[string]bool
	NoisePhrases      []string
	TitleBlocklist    []*regexp.Regexp
	ConditionalBrands []string
	MinTitleLength    int

	// Sentiment pattern counting
	PositivePatterns *regexp.Regexp
	NegativePatterns *regexp.Regexp

	// Entity tag detectors, applied in declaration order
	TagPatterns []TagPattern

	// Voice/intent detectors
	BuyerPattern          *regexp.Regexp
	FounderPattern        *regexp.Regexp
	AnalystPattern        *regexp.Regexp
	FeatureRequestPattern *regexp.Regexp
	ComparisonPattern     *regexp.Regexp

	// Capability keywords matched as plain substrings
	FeatureKeywords []string

	// Source quality weights; substring match against the source label
	SourceQuality  []SourceWeight
	DefaultQuality int

	// Highest-trust source marker used by the confidence formula
	TrustedSourceMarker string

	// Theme clustering and opportunity scoring tables
	Themes        []ThemeRule
	Opportunities []OpportunityRule
	Weights       Weights

	// Deduplication tuning
	Dedup DedupConfig

	// Source discovery
	SkipDomains map[string]bool
}

// TagPattern maps one entity tag to its detector pattern.
type TagPattern struct {
	Tag     string
	Pattern *regexp.Regexp
}

// SourceWeight assigns a quality weight to sources whose label
// contains Marker (case-insensitive). Order matters: first hit wins.
type SourceWeight struct {
	Marker string
	Weight int
}

// ThemeRule defines one topical theme for the clusterer.
type ThemeRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Features []string `yaml:"features"`
	Tags     []string `yaml:"tags"`
}

// OpportunityRule defines one buyer-need theme for the scorer.
type OpportunityRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Weights are the per-category points of the weighted-keyword matcher
// shared by the clusterer and the opportunity scorer.
type Weights struct {
	Keyword int `yaml:"keyword"`
	Feature int `yaml:"feature"`
	Tag     int `yaml:"tag"`
}

// DedupConfig holds the title-key normalization constants. These were
// magic numbers in the original; treat them as tunable configuration.
type DedupConfig struct {
	TitleKeyLength int `yaml:"title_key_length"`
	MinKeyLength   int `yaml:"min_key_length"`
}

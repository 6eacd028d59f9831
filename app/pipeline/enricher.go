package pipeline

import (
	"strings"

	"github.com/geopulse/geopulse/app/catalog"
	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// Enricher turns one admitted post into a Signal: resolved company
// mentions, sentiment, entity tags, voice flags, feature mentions and
// source quality. Pure and deterministic: identical inputs yield
// byte-identical Signals.
type Enricher struct {
	rules   *rules.Ruleset
	catalog *catalog.Catalog
	context *contextMatcher
}

func NewEnricher(rs *rules.Ruleset, cat *catalog.Catalog) *Enricher {
	return &Enricher{
		rules:   rs,
		catalog: cat,
		context: newContextMatcher(rs.ContextTerms),
	}
}

// Run enriches a single post. Missing fields default to empty/neutral;
// no error conditions exist at this stage.
func (e *Enricher) Run(post signal.RawPost) signal.Signal {
	text := post.CombinedText()
	textLower := strings.ToLower(text)

	// Computed once per post and reused for every context-required check.
	hasContext := e.context.Matches(textLower)

	companies, ownBrand := e.catalog.Match(textLower, hasContext)

	sentiment, reason := classifySentiment(e.rules, text)

	tags := make([]string, 0, len(e.rules.TagPatterns)+1)
	if len(companies) > 0 {
		tags = append(tags, signal.TagCompanyMention)
	}
	for _, tp := range e.rules.TagPatterns {
		if tp.Pattern.MatchString(text) {
			tags = append(tags, tp.Tag)
		}
	}

	features := make([]string, 0, 4)
	for _, kw := range e.rules.FeatureKeywords {
		if strings.Contains(textLower, kw) {
			features = append(features, kw)
		}
	}

	comparison := e.rules.ComparisonPattern.MatchString(text)

	return signal.Signal{
		RawPost: post,

		Sentiment:          sentiment,
		SentimentReason:    reason,
		CompaniesMentioned: companies,
		IsOwnBrandMention:  ownBrand,
		EntityTags:         tags,
		FeaturesMentioned:  features,
		IsBuyerVoice:       e.rules.BuyerPattern.MatchString(text),
		IsFounderVoice:     e.rules.FounderPattern.MatchString(text),
		IsAnalystVoice:     e.rules.AnalystPattern.MatchString(text),
		IsFeatureRequest:   e.rules.FeatureRequestPattern.MatchString(text),
		IsCompetitiveIntel: comparison && len(companies) >= 2,
		SourceQuality:      e.rules.QualityFor(post.Source),
	}
}

package pipeline

import (
	"log/slog"
	"strings"

	"github.com/geopulse/geopulse/app/catalog"
	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// Gate filters merged raw posts down to those plausibly about the
// tracked market. Pure: no side effects beyond logging.
type Gate struct {
	rules   *rules.Ruleset
	catalog *catalog.Catalog
	context *contextMatcher
}

func NewGate(rs *rules.Ruleset, cat *catalog.Catalog) *Gate {
	return &Gate{
		rules:   rs,
		catalog: cat,
		context: newContextMatcher(rs.ContextTerms),
	}
}

// Run returns the admitted subset. Output order follows input order.
func (g *Gate) Run(posts []signal.RawPost) []signal.RawPost {
	admitted := make([]signal.RawPost, 0, len(posts))
	rejections := make(map[string]int)

	for _, post := range posts {
		ok, reason := g.Admit(&post)
		if ok {
			admitted = append(admitted, post)
		} else {
			rejections[reason]++
		}
	}

	slog.Info("Relevance gate complete",
		"in", len(posts), "admitted", len(admitted), "rejections", rejections)

	return admitted
}

// Admit applies the gate rules in order; the first matching rule wins.
func (g *Gate) Admit(post *signal.RawPost) (bool, string) {
	title := strings.TrimSpace(post.Title)
	titleLower := strings.ToLower(title)
	textLower := strings.ToLower(post.CombinedText())

	// 1. Title sanity and hard blocklist.
	if len(title) < g.rules.MinTitleLength {
		return false, "short_title"
	}
	for _, re := range g.rules.TitleBlocklist {
		if re.MatchString(title) {
			return false, "title_blocklist"
		}
	}

	// 2. Big-brand titles pass only as crossover stories.
	for _, brand := range g.rules.ConditionalBrands {
		if strings.Contains(titleLower, brand) && !g.context.Matches(titleLower) {
			return false, "conditional_brand"
		}
	}

	// 3. Bot disclaimers, automod text, affiliate spam.
	for _, phrase := range g.rules.NoisePhrases {
		if strings.Contains(textLower, phrase) {
			return false, "noise"
		}
	}

	// 4. Domain-native sources: company presence alone is enough.
	if g.rules.WhitelistSources[post.Source] && g.catalog.MentionsAnyAlias(textLower) {
		return true, ""
	}

	// 5. Weak market terms qualify only alongside a company mention.
	for _, term := range g.rules.WeakTerms {
		if strings.Contains(textLower, term) && g.catalog.MentionsAnyAlias(textLower) {
			return true, ""
		}
	}

	// 6. Everything else needs a context term.
	if g.context.Matches(textLower) {
		return true, ""
	}

	return false, "no_context"
}

package catalog

import "regexp"

// Company is one catalog entry. ContextRequired marks canonical names
// that collide with common words: a mention only counts when the post
// also carries a domain-context term.
type Company struct {
	Name            string   `json:"name"`
	Aliases         []string `json:"aliases"`
	Category        string   `json:"category"`
	Notes           string   `json:"notes"`
	URL             string   `json:"url"`
	ContextRequired bool     `json:"context_required,omitempty"`
}

// companiesFile is the on-disk shape of companies.json.
type companiesFile struct {
	OwnBrands   []Company `json:"own_brands"`
	Competitors []Company `json:"competitors"`
}

// aliasMatcher is one precompiled alias lookup. Aliases of length <= 4
// match on word boundaries; longer aliases match as substrings.
type aliasMatcher struct {
	alias     string
	canonical string
	ownBrand  bool
	boundary  *regexp.Regexp // nil for substring aliases
}

// Catalog is the immutable company catalog handed to every stage.
// Built once at startup; the pipeline never mutates it.
type Catalog struct {
	OwnBrands   []Company
	Competitors []Company

	matchers        []aliasMatcher
	aliasSet        map[string]string // alias -> canonical, for the relevance gate
	contextRequired map[string]bool   // canonical names needing a context term
}

// sourcesFile is the on-disk shape of sources.json. Only the feed URLs
// matter to the core: discovery treats their domains as already known.
type sourcesFile struct {
	NewsRSSFeeds []struct {
		URL string `json:"url"`
	} `json:"news_rss_feeds"`
}

package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Load reads companies.json and builds the alias matchers. An empty or
// missing catalog is a configuration error: with no aliases the
// relevance gate would silently reject everything, so this surfaces
// loudly at startup instead.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read company catalog: %w", err)
	}

	var file companiesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse company catalog: %w", err)
	}

	c := &Catalog{
		OwnBrands:       file.OwnBrands,
		Competitors:     file.Competitors,
		aliasSet:        make(map[string]string),
		contextRequired: make(map[string]bool),
	}

	for _, company := range file.OwnBrands {
		c.addCompany(company, true)
	}
	for _, company := range file.Competitors {
		c.addCompany(company, false)
	}

	if len(c.aliasSet) == 0 {
		return nil, fmt.Errorf("company catalog %s contains no aliases", path)
	}

	// Deterministic match order regardless of map iteration.
	sort.Slice(c.matchers, func(i, j int) bool {
		return c.matchers[i].alias < c.matchers[j].alias
	})

	return c, nil
}

func (c *Catalog) addCompany(company Company, ownBrand bool) {
	if company.Name == "" {
		return
	}
	if company.ContextRequired {
		c.contextRequired[company.Name] = true
	}

	aliases := append([]string{company.Name}, company.Aliases...)
	for _, alias := range aliases {
		lower := strings.ToLower(strings.TrimSpace(alias))
		if lower == "" {
			continue
		}
		if _, seen := c.aliasSet[lower]; seen {
			continue
		}
		c.aliasSet[lower] = company.Name

		m := aliasMatcher{alias: lower, canonical: company.Name, ownBrand: ownBrand}
		if len(lower) <= 4 {
			m.boundary = regexp.MustCompile(`\b` + regexp.QuoteMeta(lower) + `\b`)
		}
		c.matchers = append(c.matchers, m)
	}
}

// Match resolves every alias hit in textLower to its canonical name.
// hasContext gates context-required companies: their matches are
// discarded when the post carries no domain-context term. The second
// return reports whether any surviving match was an own-brand alias.
func (c *Catalog) Match(textLower string, hasContext bool) ([]string, bool) {
	seen := make(map[string]bool)
	ownBrand := false

	for _, m := range c.matchers {
		if len(m.alias) < 3 {
			continue
		}
		var hit bool
		if m.boundary != nil {
			hit = m.boundary.MatchString(textLower)
		} else {
			hit = strings.Contains(textLower, m.alias)
		}
		if !hit {
			continue
		}
		if c.contextRequired[m.canonical] && !hasContext {
			continue
		}
		seen[m.canonical] = true
		if m.ownBrand {
			ownBrand = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, ownBrand
}

// MentionsAnyAlias reports whether any alias of length >= 3 appears in
// textLower as a plain substring. The relevance gate's whitelist rule
// needs presence only, not resolution.
func (c *Catalog) MentionsAnyAlias(textLower string) bool {
	for _, m := range c.matchers {
		if len(m.alias) < 3 {
			continue
		}
		if strings.Contains(textLower, m.alias) {
			return true
		}
	}
	return false
}

// AliasCount returns the number of distinct aliases loaded.
func (c *Catalog) AliasCount() int {
	return len(c.aliasSet)
}

// CompetitorNames returns the canonical competitor names in catalog order.
func (c *Catalog) CompetitorNames() []string {
	names := make([]string, 0, len(c.Competitors))
	for _, comp := range c.Competitors {
		names = append(names, comp.Name)
	}
	return names
}

// LoadKnownDomains reads sources.json and returns the domains of the
// configured feeds. A missing file yields an empty set: the source
// catalog belongs to the adapters, not this core.
func LoadKnownDomains(path string) (map[string]bool, error) {
	known := make(map[string]bool)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return known, nil
		}
		return nil, fmt.Errorf("failed to read source catalog: %w", err)
	}

	var file sourcesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse source catalog: %w", err)
	}

	for _, feed := range file.NewsRSSFeeds {
		parsed, err := url.Parse(feed.URL)
		if err != nil || parsed.Host == "" {
			continue
		}
		domain := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
		known[domain] = true
	}

	return known, nil
}

package rules

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Optional rule overrides. The built-in tables fit the tracked market;
// a deployment can swap the theme and opportunity tables (and the
// dedup constants) without a rebuild by dropping a rules.yml next to
// the catalogs.

type overrideFile struct {
	ContextTerms  []string      `yaml:"context_terms"`
	Themes        []ThemeRule   `yaml:"themes"`
	Opportunities []overrideOpp `yaml:"opportunities"`
	Weights       *Weights      `yaml:"weights"`
	Dedup         *DedupConfig  `yaml:"dedup"`
}

type overrideOpp struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Load returns the default ruleset, with any tables named in the
// override file (if it exists) replaced. A missing file is not an
// error; a malformed one is.
func Load(path string) (*Ruleset, error) {
	rs := Default()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rs, nil
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var ov overrideFile
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if len(ov.ContextTerms) > 0 {
		rs.ContextTerms = ov.ContextTerms
	}
	if len(ov.Themes) > 0 {
		rs.Themes = ov.Themes
	}
	if len(ov.Opportunities) > 0 {
		opps := make([]OpportunityRule, 0, len(ov.Opportunities))
		for _, o := range ov.Opportunities {
			opps = append(opps, OpportunityRule{Name: o.Name, Keywords: o.Keywords})
		}
		rs.Opportunities = opps
	}
	if ov.Weights != nil {
		rs.Weights = *ov.Weights
	}
	if ov.Dedup != nil {
		if ov.Dedup.TitleKeyLength > 0 {
			rs.Dedup.TitleKeyLength = ov.Dedup.TitleKeyLength
		}
		if ov.Dedup.MinKeyLength > 0 {
			rs.Dedup.MinKeyLength = ov.Dedup.MinKeyLength
		}
	}

	if err := validate(rs); err != nil {
		return nil, err
	}

	slog.Debug("Rule overrides applied", "path", path,
		"themes", len(rs.Themes), "opportunities", len(rs.Opportunities))

	return rs, nil
}

func validate(rs *Ruleset) error {
	for i, theme := range rs.Themes {
		if theme.Name == "" {
			return fmt.Errorf("theme at index %d has no name", i)
		}
		if len(theme.Keywords) == 0 && len(theme.Features) == 0 && len(theme.Tags) == 0 {
			return fmt.Errorf("theme %q has no matching criteria", theme.Name)
		}
	}
	for i, opp := range rs.Opportunities {
		if opp.Name == "" {
			return fmt.Errorf("opportunity theme at index %d has no name", i)
		}
		if len(opp.Keywords) == 0 {
			return fmt.Errorf("opportunity theme %q has no keywords", opp.Name)
		}
	}
	return nil
}

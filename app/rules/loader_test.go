package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	rs, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(rs.Themes) != 6 {
		t.Errorf("Expected 6 default themes, got %d", len(rs.Themes))
	}
	if len(rs.Opportunities) != 9 {
		t.Errorf("Expected 9 default opportunity themes, got %d", len(rs.Opportunities))
	}
	if rs.Dedup.TitleKeyLength != 60 || rs.Dedup.MinKeyLength != 16 {
		t.Errorf("Unexpected default dedup config: %+v", rs.Dedup)
	}
	if rs.Weights != (Weights{Keyword: 1, Feature: 3, Tag: 2}) {
		t.Errorf("Unexpected default weights: %+v", rs.Weights)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	rs, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Missing override file should not error: %v", err)
	}
	if len(rs.Themes) != 6 {
		t.Errorf("Expected default themes, got %d", len(rs.Themes))
	}
}

func TestLoad_AppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	content := `
context_terms:
  - custom term
themes:
  - name: Only Theme
    keywords: [alpha, beta]
weights:
  keyword: 2
  feature: 4
  tag: 1
dedup:
  title_key_length: 40
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write override: %v", err)
	}

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(rs.ContextTerms) != 1 || rs.ContextTerms[0] != "custom term" {
		t.Errorf("Context terms not overridden: %v", rs.ContextTerms)
	}
	if len(rs.Themes) != 1 || rs.Themes[0].Name != "Only Theme" {
		t.Errorf("Themes not overridden: %v", rs.Themes)
	}
	if rs.Weights.Feature != 4 {
		t.Errorf("Weights not overridden: %+v", rs.Weights)
	}
	if rs.Dedup.TitleKeyLength != 40 {
		t.Errorf("Dedup title key length not overridden: %d", rs.Dedup.TitleKeyLength)
	}
	// Unset dedup fields keep their defaults.
	if rs.Dedup.MinKeyLength != 16 {
		t.Errorf("Dedup min key length should keep its default, got %d", rs.Dedup.MinKeyLength)
	}
	// Untouched tables keep their defaults.
	if len(rs.Opportunities) != 9 {
		t.Errorf("Opportunities should keep defaults, got %d", len(rs.Opportunities))
	}
}

func TestLoad_RejectsInvalidOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	content := `
themes:
  - name: ""
    keywords: [alpha]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write override: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Nameless theme should fail validation")
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	if err := os.WriteFile(path, []byte("themes: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write override: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Malformed YAML should fail to load")
	}
}

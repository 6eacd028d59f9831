package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/geopulse/geopulse/app/catalog"
	"github.com/geopulse/geopulse/app/rules"
)

const testCompaniesJSON = `{
  "own_brands": [
    {"name": "GEO Pulse", "aliases": ["geopulse"], "category": "geo"}
  ],
  "competitors": [
    {"name": "Acme", "aliases": ["acme analytics"], "category": "geo"},
    {"name": "Peec AI", "aliases": ["peec"], "category": "geo"},
    {"name": "Profound", "aliases": [], "category": "geo", "context_required": true}
  ]
}`

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	path := filepath.Join(t.TempDir(), "companies.json")
	if err := os.WriteFile(path, []byte(testCompaniesJSON), 0o644); err != nil {
		t.Fatalf("Failed to write catalog fixture: %v", err)
	}

	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("Failed to load catalog fixture: %v", err)
	}
	return cat
}

func testRules() *rules.Ruleset {
	return rules.Default()
}

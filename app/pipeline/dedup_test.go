package pipeline

import (
	"testing"

	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

func newTestDeduplicator() *Deduplicator {
	return NewDeduplicator(rules.DedupConfig{TitleKeyLength: 60, MinKeyLength: 16})
}

func TestDeduplicator_Run_URLGroupKeepsRichest(t *testing.T) {
	d := newTestDeduplicator()

	signals := []signal.Signal{
		{
			RawPost:    signal.RawPost{PostID: "a", URL: "https://example.com/story"},
			EntityTags: []string{"complaint"},
		},
		{
			RawPost:            signal.RawPost{PostID: "b", URL: "https://example.com/story/"},
			CompaniesMentioned: []string{"Acme"},
			EntityTags:         []string{"company_mention", "complaint"},
		},
	}

	out := d.Run(signals)

	if len(out) != 1 {
		t.Fatalf("Expected 1 signal after URL dedup, got %d", len(out))
	}
	if out[0].PostID != "b" {
		t.Errorf("Expected the richer copy 'b' to survive, got '%s'", out[0].PostID)
	}
}

func TestDeduplicator_Run_URLTieKeepsFirst(t *testing.T) {
	d := newTestDeduplicator()

	signals := []signal.Signal{
		{RawPost: signal.RawPost{PostID: "first", URL: "https://example.com/x"}, EntityTags: []string{"question"}},
		{RawPost: signal.RawPost{PostID: "second", URL: "https://example.com/x"}, EntityTags: []string{"praise"}},
	}

	out := d.Run(signals)

	if len(out) != 1 || out[0].PostID != "first" {
		t.Errorf("Equal richness should keep the first-seen copy, got %v", out)
	}
}

func TestDeduplicator_Run_TitlePrefixKey(t *testing.T) {
	d := newTestDeduplicator()

	signals := []signal.Signal{
		{RawPost: signal.RawPost{PostID: "a", URL: "https://a.example.com", Title: "How GEO Changes Content Strategy Forever"}},
		{RawPost: signal.RawPost{PostID: "b", URL: "https://b.example.com", Title: "How GEO changes content strategy forever!!!"}},
	}

	out := d.Run(signals)

	if len(out) != 1 {
		t.Fatalf("Expected title dedup to collapse reposts, got %d signals", len(out))
	}
	if out[0].PostID != "a" {
		t.Errorf("Expected first repost to survive, got '%s'", out[0].PostID)
	}
}

func TestDeduplicator_Run_AccentFolding(t *testing.T) {
	d := newTestDeduplicator()

	signals := []signal.Signal{
		{RawPost: signal.RawPost{PostID: "plain", URL: "https://a.example.com", Title: "Generative engine optimization explained"}},
		{RawPost: signal.RawPost{PostID: "accented", URL: "https://b.example.com", Title: "Générative engine optimizatión explained"}},
	}

	out := d.Run(signals)

	if len(out) != 1 {
		t.Errorf("Accented repost should fold onto the same title key, got %d signals", len(out))
	}
}

func TestDeduplicator_Run_ShortTitlesNotDeduped(t *testing.T) {
	d := newTestDeduplicator()

	// Keys below the minimum length are too ambiguous to collapse.
	signals := []signal.Signal{
		{RawPost: signal.RawPost{PostID: "a", URL: "https://a.example.com", Title: "GEO news"}},
		{RawPost: signal.RawPost{PostID: "b", URL: "https://b.example.com", Title: "GEO news"}},
	}

	out := d.Run(signals)

	if len(out) != 2 {
		t.Errorf("Short identical titles should both survive, got %d signals", len(out))
	}
}

func TestDeduplicator_Run_EmptyURLNeverGrouped(t *testing.T) {
	d := newTestDeduplicator()

	signals := []signal.Signal{
		{RawPost: signal.RawPost{PostID: "a", Title: "First unrelated discussion thread"}},
		{RawPost: signal.RawPost{PostID: "b", Title: "Second unrelated discussion thread"}},
	}

	out := d.Run(signals)

	if len(out) != 2 {
		t.Errorf("Signals without URLs should not be URL-grouped, got %d", len(out))
	}
}

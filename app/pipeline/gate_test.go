package pipeline

import (
	"testing"

	"github.com/geopulse/geopulse/app/signal"
)

func TestGate_Admit_ShortTitle(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	post := signal.RawPost{Title: "", Text: "long discussion of geo tooling and ai search"}
	ok, reason := gate.Admit(&post)

	if ok {
		t.Error("Post with empty title should be rejected")
	}
	if reason != "short_title" {
		t.Errorf("Expected reason 'short_title', got '%s'", reason)
	}

	post = signal.RawPost{Title: "Hi", Text: "geo discussion"}
	if ok, _ := gate.Admit(&post); ok {
		t.Error("Post with two-character title should be rejected")
	}
}

func TestGate_Admit_TitleBlocklist(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	post := signal.RawPost{
		Title: "Ask HN: Who is hiring? (March 2025)",
		Text:  "monthly hiring thread with geo mentions",
	}
	ok, reason := gate.Admit(&post)

	if ok {
		t.Error("Hiring thread should be rejected even with a context term in the text")
	}
	if reason != "title_blocklist" {
		t.Errorf("Expected reason 'title_blocklist', got '%s'", reason)
	}
}

func TestGate_Admit_ConditionalBrand(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	// Big-brand title with no context term in the title is rejected.
	post := signal.RawPost{
		Title: "Apple announces new iPhone lineup",
		Text:  "hardware specs and pricing details",
	}
	ok, reason := gate.Admit(&post)
	if ok {
		t.Error("Unrelated big-brand story should be rejected")
	}
	if reason != "conditional_brand" {
		t.Errorf("Expected reason 'conditional_brand', got '%s'", reason)
	}

	// The same brand passes as a crossover story when the title itself
	// carries a context term.
	post = signal.RawPost{
		Title: "Apple and the future of AI search",
		Text:  "what siri changes mean for brand visibility",
	}
	if ok, reason := gate.Admit(&post); !ok {
		t.Errorf("Crossover big-brand story should be admitted, rejected with '%s'", reason)
	}
}

func TestGate_Admit_NoisePhrases(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	post := signal.RawPost{
		Title: "Interesting GEO discussion",
		Text:  "I am a bot, and this action was performed automatically.",
	}
	ok, reason := gate.Admit(&post)

	if ok {
		t.Error("Bot disclaimer post should be rejected")
	}
	if reason != "noise" {
		t.Errorf("Expected reason 'noise', got '%s'", reason)
	}
}

func TestGate_Admit_WhitelistSourceWithCompanyMention(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	// No context term anywhere, but the review names a tracked company
	// and comes from a domain-native source.
	post := signal.RawPost{
		Title:  "Honest review after three months",
		Text:   "We have been using Acme Analytics daily and the reports are solid.",
		Source: "G2",
	}
	if ok, reason := gate.Admit(&post); !ok {
		t.Errorf("Whitelisted source with company mention should be admitted, rejected with '%s'", reason)
	}

	// Same post from a non-whitelisted source lacks context and fails.
	post.Source = "Reddit"
	ok, reason := gate.Admit(&post)
	if ok {
		t.Error("Company mention alone should not admit a post from a non-whitelisted source")
	}
	if reason != "no_context" {
		t.Errorf("Expected reason 'no_context', got '%s'", reason)
	}
}

func TestGate_Admit_WeakTermWithCompanyMention(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	// "chatgpt" alone is too weak to admit, but combined with a tracked
	// company mention it qualifies.
	post := signal.RawPost{
		Title:  "Looking for tracking recommendations",
		Text:   "Has anyone compared Peec AI against asking ChatGPT directly?",
		Source: "Reddit",
	}
	if ok, reason := gate.Admit(&post); !ok {
		t.Errorf("Weak term with company mention should be admitted, rejected with '%s'", reason)
	}

	// The same weak term without any company mention stays rejected.
	post = signal.RawPost{
		Title:  "Looking for tracking recommendations",
		Text:   "Has anyone tried asking ChatGPT directly?",
		Source: "Reddit",
	}
	ok, reason := gate.Admit(&post)
	if ok {
		t.Error("Weak term without a company mention should not be admitted")
	}
	if reason != "no_context" {
		t.Errorf("Expected reason 'no_context', got '%s'", reason)
	}
}

func TestGate_Admit_ContextTerm(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	post := signal.RawPost{
		Title: "GEO Pulse raised $5M to expand",
		Text:  "The funding round was led by a growth fund.",
	}
	if ok, reason := gate.Admit(&post); !ok {
		t.Errorf("Post with 'geo' context term should be admitted, rejected with '%s'", reason)
	}
}

func TestGate_Admit_ShortContextTermWordBoundary(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	// "geo" inside "geology" must not count as a context term.
	post := signal.RawPost{
		Title: "Fascinating geology of Iceland",
		Text:  "Volcanic rock formations explained.",
	}
	ok, reason := gate.Admit(&post)
	if ok {
		t.Error("Embedded 'geo' substring should not satisfy the context requirement")
	}
	if reason != "no_context" {
		t.Errorf("Expected reason 'no_context', got '%s'", reason)
	}
}

func TestGate_Run_PreservesOrderAndCounts(t *testing.T) {
	gate := NewGate(testRules(), newTestCatalog(t))

	posts := []signal.RawPost{
		{PostID: "1", Title: "AI search is changing marketing", Text: "brand visibility in llm answers"},
		{PostID: "2", Title: "Hi", Text: "too short"},
		{PostID: "3", Title: "Schema markup deep dive", Text: "structured data for ai overviews"},
	}

	admitted := gate.Run(posts)

	if len(admitted) != 2 {
		t.Fatalf("Expected 2 admitted posts, got %d", len(admitted))
	}
	if admitted[0].PostID != "1" || admitted[1].PostID != "3" {
		t.Errorf("Admitted posts out of order: %s, %s", admitted[0].PostID, admitted[1].PostID)
	}
}

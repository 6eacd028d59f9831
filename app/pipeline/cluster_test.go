package pipeline

import (
	"testing"

	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

func TestClusterer_Run_SingleAssignment(t *testing.T) {
	clusterer := NewClusterer(testRules())

	signals := []signal.Signal{
		{
			RawPost: signal.RawPost{PostID: "a", Title: "Citation visibility in AI overviews dropped"},
		},
		{
			RawPost: signal.RawPost{PostID: "b", Title: "Nothing relevant here at all"},
		},
	}

	doc := clusterer.Run(signals)

	if doc.TotalInsights != 2 {
		t.Errorf("Expected 2 total insights, got %d", doc.TotalInsights)
	}

	// Every signal lands in exactly one cluster.
	assigned := 0
	for _, cluster := range doc.Clusters {
		assigned += cluster.Count
	}
	if assigned != 2 {
		t.Errorf("Each signal should be in exactly one cluster, total %d", assigned)
	}

	vis := doc.Clusters["Visibility & Rankings"]
	if vis == nil || vis.Count != 1 {
		t.Fatalf("Expected the citation post in 'Visibility & Rankings': %+v", vis)
	}
	if vis.InsightIDs[0] != "a" {
		t.Errorf("Expected insight id 'a', got '%s'", vis.InsightIDs[0])
	}

	unc := doc.Clusters[UncategorizedTheme]
	if unc == nil || unc.Count != 1 {
		t.Fatalf("Unmatched post should land in Uncategorized: %+v", unc)
	}
}

func TestClusterer_Run_TieGoesToFirstDeclaredTheme(t *testing.T) {
	rs := testRules()
	rs.Themes = []rules.ThemeRule{
		{Name: "First", Keywords: []string{"shared"}},
		{Name: "Second", Keywords: []string{"shared"}},
	}
	clusterer := NewClusterer(rs)

	doc := clusterer.Run([]signal.Signal{
		{RawPost: signal.RawPost{PostID: "a", Title: "A shared keyword appears"}},
	})

	if doc.Clusters["First"] == nil {
		t.Fatal("Tie should be resolved in declaration order")
	}
	if doc.Clusters["Second"] != nil {
		t.Error("Second theme should not also claim the signal")
	}
}

func TestClusterer_Run_WeightsPreferFeatureMatches(t *testing.T) {
	rs := testRules()
	rs.Themes = []rules.ThemeRule{
		{Name: "KeywordOnly", Keywords: []string{"dashboard"}},
		{Name: "FeatureBased", Features: []string{"dashboard"}, Keywords: []string{}},
	}
	clusterer := NewClusterer(rs)

	doc := clusterer.Run([]signal.Signal{
		{
			RawPost:           signal.RawPost{PostID: "a", Title: "New dashboard shipped"},
			FeaturesMentioned: []string{"dashboard"},
		},
	})

	// Feature weight (3) beats keyword weight (1).
	if doc.Clusters["FeatureBased"] == nil {
		t.Fatal("Feature match should outscore the keyword match")
	}
}

func TestClusterer_Run_SampleTitlesCapped(t *testing.T) {
	clusterer := NewClusterer(testRules())

	var signals []signal.Signal
	titles := []string{
		"Visibility report one", "Visibility report two", "Visibility report three",
		"Visibility report four", "Visibility report five", "Visibility report six",
		"Visibility report six",
	}
	for i, title := range titles {
		signals = append(signals, signal.Signal{
			RawPost: signal.RawPost{PostID: string(rune('a' + i)), Title: title},
		})
	}

	doc := clusterer.Run(signals)

	cluster := doc.Clusters["Visibility & Rankings"]
	if cluster == nil {
		t.Fatal("Expected visibility cluster")
	}
	if len(cluster.SampleTitles) != 5 {
		t.Errorf("Sample titles should cap at 5, got %d", len(cluster.SampleTitles))
	}
	if cluster.Count != len(titles) {
		t.Errorf("All signals counted even past the sample cap, got %d", cluster.Count)
	}
}

func TestClusterer_Run_OrderByCountDescending(t *testing.T) {
	clusterer := NewClusterer(testRules())

	signals := []signal.Signal{
		{RawPost: signal.RawPost{PostID: "a", Title: "Citation visibility ranking update"}},
		{RawPost: signal.RawPost{PostID: "b", Title: "Another serp visibility ranking note"}},
		{RawPost: signal.RawPost{PostID: "c", Title: "Unmatched text entirely"}},
	}

	doc := clusterer.Run(signals)

	if len(doc.Order) < 2 {
		t.Fatalf("Expected at least 2 ordered themes, got %v", doc.Order)
	}
	if doc.Order[0] != "Visibility & Rankings" {
		t.Errorf("Largest cluster should come first, got '%s'", doc.Order[0])
	}

	if vis := doc.Clusters["Visibility & Rankings"]; vis.Pct != 66.7 {
		t.Errorf("Expected 66.7 pct, got %v", vis.Pct)
	}
}

package rules

import "testing"

func TestMatcher_Score_Weights(t *testing.T) {
	m := NewMatcher(Weights{Keyword: 1, Feature: 3, Tag: 2})

	c := Criteria{
		Keywords: []string{"dashboard", "report"},
		Features: []string{"api"},
		Tags:     []string{"complaint"},
	}

	score := m.Score("the dashboard report is ready",
		map[string]bool{"api": true},
		map[string]bool{"complaint": true},
		c)

	// 2 keywords * 1 + 1 feature * 3 + 1 tag * 2.
	if score != 7 {
		t.Errorf("Expected score 7, got %d", score)
	}
}

func TestMatcher_Score_NoMatches(t *testing.T) {
	m := NewMatcher(Weights{Keyword: 1, Feature: 3, Tag: 2})

	score := m.Score("unrelated text", nil, nil, Criteria{
		Keywords: []string{"dashboard"},
		Features: []string{"api"},
		Tags:     []string{"complaint"},
	})

	if score != 0 {
		t.Errorf("Expected score 0, got %d", score)
	}
}

func TestMatcher_MatchesAny(t *testing.T) {
	m := NewMatcher(Weights{})

	if !m.MatchesAny("we need real-time data", []string{"batch", "real-time"}) {
		t.Error("Expected a keyword match")
	}
	if m.MatchesAny("we need daily data", []string{"batch", "real-time"}) {
		t.Error("Expected no keyword match")
	}
}

func TestRuleset_QualityFor(t *testing.T) {
	rs := Default()

	tests := []struct {
		source string
		want   int
	}{
		{"G2", 5},
		{"G2 Reviews", 5},
		{"Hacker News", 4},
		{"Reddit", 2},
		{"Some Unknown Forum", 2},
		{"", 2},
	}

	for _, tt := range tests {
		if got := rs.QualityFor(tt.source); got != tt.want {
			t.Errorf("QualityFor(%q) = %d, want %d", tt.source, got, tt.want)
		}
	}
}

package pipeline

import (
	"testing"

	"github.com/geopulse/geopulse/app/signal"
)

func TestComputeDelta_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		previous  int
		delta     float64
		direction signal.Direction
	}{
		{"zero to zero is flat", 0, 0, 0, signal.DirectionFlat},
		{"zero to five is new with raw count", 5, 0, 5, signal.DirectionNew},
		{"thirty percent up is rising", 13, 10, 30, signal.DirectionRising},
		{"thirty percent down is fading", 7, 10, -30, signal.DirectionFading},
		{"exactly twenty percent is stable", 12, 10, 20, signal.DirectionStable},
		{"no change is stable", 10, 10, 0, signal.DirectionStable},
		{"drop to zero is fading", 0, 10, -100, signal.DirectionFading},
	}

	for _, tt := range tests {
		delta, direction := computeDelta(tt.current, tt.previous)
		if delta != tt.delta {
			t.Errorf("%s: expected delta %.1f, got %.1f", tt.name, tt.delta, delta)
		}
		if direction != tt.direction {
			t.Errorf("%s: expected direction '%s', got '%s'", tt.name, tt.direction, direction)
		}
	}
}

func TestComputeDelta_Rounding(t *testing.T) {
	delta, _ := computeDelta(1, 3)
	if delta != -66.7 {
		t.Errorf("Expected delta rounded to one decimal (-66.7), got %v", delta)
	}
}

func TestIsoWeek(t *testing.T) {
	week, ok := isoWeek("2025-01-06")
	if !ok {
		t.Fatal("Valid date should parse")
	}
	if week != "2025-W02" {
		t.Errorf("Expected '2025-W02', got '%s'", week)
	}

	// ISO week years differ from calendar years at the boundary.
	week, ok = isoWeek("2024-12-30")
	if !ok {
		t.Fatal("Valid date should parse")
	}
	if week != "2025-W01" {
		t.Errorf("Expected '2025-W01' for 2024-12-30, got '%s'", week)
	}

	if _, ok := isoWeek("not-a-date"); ok {
		t.Error("Unparseable date should be excluded")
	}
	if _, ok := isoWeek(""); ok {
		t.Error("Empty date should be excluded")
	}
}

func TestAggregator_Run_Buckets(t *testing.T) {
	agg := NewAggregator()

	signals := []signal.Signal{
		{
			RawPost:            signal.RawPost{PostID: "a", PostDate: "2025-03-03", Source: "Reddit"},
			Sentiment:          signal.SentimentNegative,
			CompaniesMentioned: []string{"Acme"},
			EntityTags:         []string{"complaint"},
			IsBuyerVoice:       true,
		},
		{
			RawPost:            signal.RawPost{PostID: "b", PostDate: "2025-03-04", Source: "G2"},
			Sentiment:          signal.SentimentPositive,
			CompaniesMentioned: []string{"Acme"},
			EntityTags:         []string{"praise"},
		},
		{
			RawPost:   signal.RawPost{PostID: "c", PostDate: "2025-03-10"},
			Sentiment: signal.SentimentNeutral,
		},
		{
			// Undated signals stay out of the weekly view.
			RawPost:   signal.RawPost{PostID: "d", PostDate: ""},
			Sentiment: signal.SentimentNeutral,
		},
	}

	buckets, doc := agg.Run(signals)

	if len(buckets) != 2 {
		t.Fatalf("Expected 2 weekly buckets, got %d", len(buckets))
	}

	first := buckets[0]
	if first.Week != "2025-W10" {
		t.Errorf("Expected first bucket '2025-W10', got '%s'", first.Week)
	}
	if first.Total != 2 {
		t.Errorf("Expected 2 signals in first week, got %d", first.Total)
	}
	if first.Companies["Acme"] != 2 {
		t.Errorf("Expected Acme count 2, got %d", first.Companies["Acme"])
	}
	if first.Voices[signal.VoiceBuyer] != 1 {
		t.Errorf("Expected 1 buyer voice, got %d", first.Voices[signal.VoiceBuyer])
	}
	if first.Sources["Unknown"] != 0 {
		t.Errorf("Dated sourced posts should not count as Unknown")
	}

	if len(doc.Weeks) != 2 {
		t.Errorf("Expected 2 weeks in trend doc, got %d", len(doc.Weeks))
	}
	if len(doc.VolumeTrend) != 2 {
		t.Fatalf("Expected 2 volume points, got %d", len(doc.VolumeTrend))
	}

	// First week starts a series: new, raw count as delta.
	if doc.VolumeTrend[0].Direction != signal.DirectionNew || doc.VolumeTrend[0].DeltaPct != 2 {
		t.Errorf("Unexpected first volume point: %+v", doc.VolumeTrend[0])
	}
	// 2 -> 1 is a 50 percent drop.
	if doc.VolumeTrend[1].Direction != signal.DirectionFading || doc.VolumeTrend[1].DeltaPct != -50 {
		t.Errorf("Unexpected second volume point: %+v", doc.VolumeTrend[1])
	}
}

func TestAggregator_Run_CompanySeriesAndMovers(t *testing.T) {
	agg := NewAggregator()

	var signals []signal.Signal
	// Week 2025-W10: 2 Acme mentions. Week 2025-W11: 3 Acme mentions
	// (rising), Peec appears for the first time (new, not a mover).
	for i := 0; i < 2; i++ {
		signals = append(signals, signal.Signal{
			RawPost:            signal.RawPost{PostID: "w1", PostDate: "2025-03-03"},
			CompaniesMentioned: []string{"Acme"},
		})
	}
	for i := 0; i < 3; i++ {
		signals = append(signals, signal.Signal{
			RawPost:            signal.RawPost{PostID: "w2", PostDate: "2025-03-10"},
			CompaniesMentioned: []string{"Acme"},
		})
	}
	signals = append(signals, signal.Signal{
		RawPost:            signal.RawPost{PostID: "w2p", PostDate: "2025-03-10"},
		CompaniesMentioned: []string{"Peec AI"},
	})

	_, doc := agg.Run(signals)

	acme := doc.CompanyTrends["Acme"]
	if acme == nil {
		t.Fatal("Expected an Acme trend series")
	}
	if acme.Direction != signal.DirectionRising {
		t.Errorf("2 -> 3 should be rising, got '%s'", acme.Direction)
	}
	if acme.DeltaPct != 50 {
		t.Errorf("Expected +50%% delta, got %v", acme.DeltaPct)
	}
	if acme.LatestCount != 3 {
		t.Errorf("Expected latest count 3, got %d", acme.LatestCount)
	}

	peec := doc.CompanyTrends["Peec AI"]
	if peec == nil {
		t.Fatal("Expected a Peec AI trend series")
	}
	if peec.Direction != signal.DirectionNew {
		t.Errorf("First appearance should be 'new', got '%s'", peec.Direction)
	}

	foundAcme := false
	for _, m := range doc.Rising {
		if m.Name == "Acme" && m.Type == "company" {
			foundAcme = true
		}
		if m.Name == "Peec AI" {
			t.Error("'new' series should not appear in the rising list")
		}
	}
	if !foundAcme {
		t.Error("Rising Acme series should appear in the rising list")
	}
}

func TestAggregator_Run_HistoryCap(t *testing.T) {
	agg := NewAggregator()

	// 14 consecutive weeks of one mention each.
	var signals []signal.Signal
	dates := []string{
		"2025-01-06", "2025-01-13", "2025-01-20", "2025-01-27",
		"2025-02-03", "2025-02-10", "2025-02-17", "2025-02-24",
		"2025-03-03", "2025-03-10", "2025-03-17", "2025-03-24",
		"2025-03-31", "2025-04-07",
	}
	for _, d := range dates {
		signals = append(signals, signal.Signal{
			RawPost:            signal.RawPost{PostDate: d},
			CompaniesMentioned: []string{"Acme"},
		})
	}

	_, doc := agg.Run(signals)

	series := doc.CompanyTrends["Acme"]
	if series == nil {
		t.Fatal("Expected an Acme trend series")
	}
	if len(series.History) != 12 {
		t.Errorf("History should be capped at 12 weeks, got %d", len(series.History))
	}
	if series.Direction != signal.DirectionStable {
		t.Errorf("Constant series should be stable, got '%s'", series.Direction)
	}
}

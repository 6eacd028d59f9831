package pipeline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/geopulse/geopulse/app/signal"
)

// Aggregator buckets deduplicated signals into ISO calendar weeks and
// derives week-over-week trend series. Everything is recomputed in
// full on each run; there is no incremental merge.
type Aggregator struct {
	// RecentWindow is the look-back used for per-entity deltas;
	// HistoryCap bounds the retained history for display.
	RecentWindow int
	HistoryCap   int
}

const (
	defaultRecentWindow = 4
	defaultHistoryCap   = 12

	risingThresholdPct = 20.0
	fadingThresholdPct = -20.0
)

var voiceNames = []string{
	signal.VoiceBuyer,
	signal.VoiceFounder,
	signal.VoiceAnalyst,
	signal.VoiceFeatureRequest,
	signal.VoiceCompetitiveIntel,
}

func NewAggregator() *Aggregator {
	return &Aggregator{RecentWindow: defaultRecentWindow, HistoryCap: defaultHistoryCap}
}

// Run computes the weekly buckets and the trend document. Signals with
// unparseable dates are excluded here but remain in other views; fewer
// than two weeks of data yields flat zero deltas, never an error.
func (a *Aggregator) Run(signals []signal.Signal) ([]signal.TrendBucket, *signal.TrendDoc) {
	byWeek := make(map[string][]signal.Signal)
	for _, s := range signals {
		week, ok := isoWeek(s.PostDate)
		if !ok {
			continue
		}
		byWeek[week] = append(byWeek[week], s)
	}

	weeks := make([]string, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Strings(weeks)

	buckets := make([]signal.TrendBucket, 0, len(weeks))
	for _, week := range weeks {
		buckets = append(buckets, buildBucket(week, byWeek[week]))
	}

	doc := &signal.TrendDoc{
		Weeks:         weeks,
		CompanyTrends: make(map[string]*signal.TrendSeries),
		TagTrends:     make(map[string]*signal.TrendSeries),
		SignalTrends:  make(map[string]*signal.TrendSeries),
		Rising:        []signal.Mover{},
		Fading:        []signal.Mover{},
		GeneratedAt:   time.Now().Format(time.RFC3339),
	}

	bucketByWeek := make(map[string]*signal.TrendBucket, len(buckets))
	for i := range buckets {
		bucketByWeek[buckets[i].Week] = &buckets[i]
	}

	// Volume trend across the full week range.
	for i, week := range weeks {
		current := bucketByWeek[week].Total
		previous := 0
		if i > 0 {
			previous = bucketByWeek[weeks[i-1]].Total
		}
		delta, direction := computeDelta(current, previous)
		doc.VolumeTrend = append(doc.VolumeTrend, signal.VolumePoint{
			Week: week, Count: current, DeltaPct: delta, Direction: direction,
		})
	}

	recent := weeks
	if len(weeks) > a.RecentWindow {
		recent = weeks[len(weeks)-a.RecentWindow:]
	}

	// Per-company and per-tag series for entities active in the
	// recent window.
	for _, name := range recentKeys(recent, bucketByWeek, func(b *signal.TrendBucket) map[string]int { return b.Companies }) {
		series := a.buildSeries(name, weeks, recent, bucketByWeek, func(b *signal.TrendBucket) map[string]int { return b.Companies })
		doc.CompanyTrends[name] = series
		appendMover(doc, name, "company", series)
	}
	for _, name := range recentKeys(recent, bucketByWeek, func(b *signal.TrendBucket) map[string]int { return b.Tags }) {
		series := a.buildSeries(name, weeks, recent, bucketByWeek, func(b *signal.TrendBucket) map[string]int { return b.Tags })
		doc.TagTrends[name] = series
		appendMover(doc, name, "tag", series)
	}
	for _, name := range voiceNames {
		doc.SignalTrends[name] = a.buildSeries(name, weeks, recent, bucketByWeek, func(b *signal.TrendBucket) map[string]int { return b.Voices })
	}

	sort.SliceStable(doc.Rising, func(i, j int) bool {
		return math.Abs(doc.Rising[i].Delta) > math.Abs(doc.Rising[j].Delta)
	})
	sort.SliceStable(doc.Fading, func(i, j int) bool {
		return math.Abs(doc.Fading[i].Delta) > math.Abs(doc.Fading[j].Delta)
	})

	return buckets, doc
}

func buildBucket(week string, posts []signal.Signal) signal.TrendBucket {
	b := signal.TrendBucket{
		Week:       week,
		Total:      len(posts),
		Sentiments: make(map[signal.Sentiment]int),
		Companies:  make(map[string]int),
		Tags:       make(map[string]int),
		Voices:     make(map[string]int),
		Sources:    make(map[string]int),
	}

	for _, p := range posts {
		b.Sentiments[p.Sentiment]++
		for _, c := range p.CompaniesMentioned {
			b.Companies[c]++
		}
		for _, tag := range p.EntityTags {
			b.Tags[tag]++
		}
		source := p.Source
		if source == "" {
			source = "Unknown"
		}
		b.Sources[source]++

		if p.IsBuyerVoice {
			b.Voices[signal.VoiceBuyer]++
		}
		if p.IsFounderVoice {
			b.Voices[signal.VoiceFounder]++
		}
		if p.IsAnalystVoice {
			b.Voices[signal.VoiceAnalyst]++
		}
		if p.IsFeatureRequest {
			b.Voices[signal.VoiceFeatureRequest]++
		}
		if p.IsCompetitiveIntel {
			b.Voices[signal.VoiceCompetitiveIntel]++
		}
	}

	return b
}

func (a *Aggregator) buildSeries(name string, weeks, recent []string,
	buckets map[string]*signal.TrendBucket, counts func(*signal.TrendBucket) map[string]int) *signal.TrendSeries {

	history := make([]signal.WeekPoint, 0, len(weeks))
	for _, week := range weeks {
		history = append(history, signal.WeekPoint{Week: week, Count: counts(buckets[week])[name]})
	}
	if len(history) > a.HistoryCap {
		history = history[len(history)-a.HistoryCap:]
	}

	var delta float64
	direction := signal.DirectionFlat
	if len(recent) >= 2 {
		curr := counts(buckets[recent[len(recent)-1]])[name]
		prev := counts(buckets[recent[len(recent)-2]])[name]
		delta, direction = computeDelta(curr, prev)
	}

	latest := 0
	if len(history) > 0 {
		latest = history[len(history)-1].Count
	}

	return &signal.TrendSeries{
		History:     history,
		LatestCount: latest,
		DeltaPct:    delta,
		Direction:   direction,
	}
}

// recentKeys collects every entity name that appears in the recent
// window, sorted for deterministic output.
func recentKeys(recent []string, buckets map[string]*signal.TrendBucket,
	counts func(*signal.TrendBucket) map[string]int) []string {

	set := make(map[string]bool)
	for _, week := range recent {
		for name := range counts(buckets[week]) {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func appendMover(doc *signal.TrendDoc, name, kind string, series *signal.TrendSeries) {
	switch series.Direction {
	case signal.DirectionRising:
		doc.Rising = append(doc.Rising, signal.Mover{Name: name, Type: kind, Delta: series.DeltaPct})
	case signal.DirectionFading:
		doc.Fading = append(doc.Fading, signal.Mover{Name: name, Type: kind, Delta: series.DeltaPct})
	}
}

// computeDelta classifies a week-over-week change. A series starting
// from zero is "new" (the delta carries the raw count), a zero-to-zero
// step is "flat"; otherwise the percentage change against the
// thresholds decides rising/fading/stable.
func computeDelta(current, previous int) (float64, signal.Direction) {
	if previous == 0 {
		if current == 0 {
			return 0, signal.DirectionFlat
		}
		return float64(current), signal.DirectionNew
	}
	deltaPct := (float64(current) - float64(previous)) / float64(previous) * 100
	deltaPct = math.Round(deltaPct*10) / 10
	switch {
	case deltaPct > risingThresholdPct:
		return deltaPct, signal.DirectionRising
	case deltaPct < fadingThresholdPct:
		return deltaPct, signal.DirectionFading
	default:
		return deltaPct, signal.DirectionStable
	}
}

// isoWeek converts a YYYY-MM-DD date into its ISO year-week key.
func isoWeek(dateStr string) (string, bool) {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return "", false
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week), true
}

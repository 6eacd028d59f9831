package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// Scorer aggregates signals against the buyer-need theme catalog and
// derives a bounded confidence score per theme. Confidence is a
// heuristic combining evidence volume and source diversity; it is not
// a probability and the API documents it as such.
type Scorer struct {
	rules   *rules.Ruleset
	matcher *rules.Matcher
}

const (
	confidenceBase         = 30
	confidencePerSource    = 6
	confidencePerSignal    = 5
	confidenceSignalCap    = 15
	confidenceTrustedBonus = 10
	confidenceMax          = 95

	gapMinEvidence = 3
)

// opportunityAccum carries the set-typed working state before the
// record is finalized into sorted slices.
type opportunityAccum struct {
	record     *signal.OpportunityRecord
	tried      map[string]bool
	praised    map[string]bool
	complained map[string]bool
	sources    map[string]bool
	trusted    bool
}

func NewScorer(rs *rules.Ruleset) *Scorer {
	return &Scorer{rules: rs, matcher: rules.NewMatcher(rs.Weights)}
}

// Run builds one OpportunityRecord per theme with at least one
// matching signal. competitors is the currently-selected company set
// used for gap detection.
func (sc *Scorer) Run(signals []signal.Signal, competitors []string) *signal.OpportunityDoc {
	accums := make(map[string]*opportunityAccum)

	for i := range signals {
		s := &signals[i]
		textLower := strings.ToLower(s.CombinedText())

		for _, theme := range sc.rules.Opportunities {
			if !sc.matcher.MatchesAny(textLower, theme.Keywords) {
				continue
			}
			acc := accums[theme.Name]
			if acc == nil {
				acc = newAccum(theme.Name)
				accums[theme.Name] = acc
			}
			acc.add(s, sc.rules.TrustedSourceMarker)
		}
	}

	doc := &signal.OpportunityDoc{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Records:     make(map[string]*signal.OpportunityRecord, len(accums)),
	}
	for name, acc := range accums {
		doc.Records[name] = acc.finalize(competitors)
	}
	return doc
}

func newAccum(theme string) *opportunityAccum {
	return &opportunityAccum{
		record: &signal.OpportunityRecord{
			Theme:         theme,
			CompanyDetail: make(map[string]*signal.CompanyEvidence),
			SignalIDs:     []string{},
		},
		tried:      make(map[string]bool),
		praised:    make(map[string]bool),
		complained: make(map[string]bool),
		sources:    make(map[string]bool),
	}
}

func (acc *opportunityAccum) add(s *signal.Signal, trustedMarker string) {
	rec := acc.record
	rec.Evidence++

	if s.HasTag(signal.TagComplaint) {
		rec.Complaints++
		for _, c := range s.CompaniesMentioned {
			acc.complained[c] = true
		}
	}
	if s.IsFeatureRequest {
		rec.Requests++
	}
	if s.HasTag(signal.TagPraise) && s.Sentiment == signal.SentimentPositive {
		rec.Praise++
		for _, c := range s.CompaniesMentioned {
			acc.praised[c] = true
		}
	}
	for _, c := range s.CompaniesMentioned {
		acc.tried[c] = true
		detail := rec.CompanyDetail[c]
		if detail == nil {
			detail = &signal.CompanyEvidence{}
			rec.CompanyDetail[c] = detail
		}
		detail.Count++
		if s.PostDate > detail.Latest {
			detail.Latest = s.PostDate
		}
	}

	if s.Source != "" {
		acc.sources[s.Source] = true
		if strings.Contains(s.Source, trustedMarker) {
			acc.trusted = true
		}
	}
	rec.SignalIDs = append(rec.SignalIDs, s.PostID)
}

func (acc *opportunityAccum) finalize(competitors []string) *signal.OpportunityRecord {
	rec := acc.record
	rec.CompaniesTried = sortedKeys(acc.tried)
	rec.CompaniesPraised = sortedKeys(acc.praised)
	rec.CompaniesComplained = sortedKeys(acc.complained)
	rec.Confidence = acc.confidence()
	rec.IsGap = acc.isGap(competitors)
	return rec
}

// confidence starts at the base, rewards source diversity and extra
// evidence (capped), adds a flat bonus for the highest-trust source,
// and clamps to [0, confidenceMax].
func (acc *opportunityAccum) confidence() int {
	conf := confidenceBase
	conf += len(acc.sources) * confidencePerSource

	extra := acc.record.Evidence - 1
	if extra < 0 {
		extra = 0
	}
	bonus := extra * confidencePerSignal
	if bonus > confidenceSignalCap {
		bonus = confidenceSignalCap
	}
	conf += bonus

	if acc.trusted {
		conf += confidenceTrustedBonus
	}

	if conf > confidenceMax {
		conf = confidenceMax
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

// isGap reports high buyer demand with no competitor coverage: enough
// evidence, and more than half the selected companies absent from the
// theme's praised/complained/tried sets.
func (acc *opportunityAccum) isGap(competitors []string) bool {
	if acc.record.Evidence < gapMinEvidence || len(competitors) == 0 {
		return false
	}
	uncovered := 0
	for _, c := range competitors {
		if !acc.praised[c] && !acc.complained[c] && !acc.tried[c] {
			uncovered++
		}
	}
	return uncovered*2 > len(competitors)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

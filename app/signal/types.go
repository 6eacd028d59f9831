package signal

// Core record types shared by every pipeline stage.

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Direction classifies a week-over-week count delta.
type Direction string

const (
	DirectionNew    Direction = "new"
	DirectionRising Direction = "rising"
	DirectionStable Direction = "stable"
	DirectionFading Direction = "fading"
	DirectionFlat   Direction = "flat"
)

// Entity tag vocabulary. A signal may carry any subset.
const (
	TagCompanyMention = "company_mention"
	TagComplaint      = "complaint"
	TagPraise         = "praise"
	TagQuestion       = "question"
	TagFundingNews    = "funding_news"
	TagProductLaunch  = "product_launch"
	TagComparison     = "comparison"
)

// Voice signal names used in trend series and weekly buckets.
const (
	VoiceBuyer            = "buyer_voice"
	VoiceFounder          = "founder_voice"
	VoiceAnalyst          = "analyst_voice"
	VoiceFeatureRequest   = "feature_request"
	VoiceCompetitiveIntel = "competitive_intel"
)

// RawPost is one scraped unit as emitted by the source adapters.
// Immutable once produced; PostDate is a source-reported calendar day
// in YYYY-MM-DD form and may be empty or unparseable.
type RawPost struct {
	PostID   string `json:"post_id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Username string `json:"username"`
	PostDate string `json:"post_date"`
	Score    int    `json:"score"`
	Comments int    `json:"num_comments"`
}

// Signal is a RawPost that passed the relevance gate plus everything
// the enricher derived from it. Created once; never mutated afterward.
type Signal struct {
	RawPost

	Sentiment          Sentiment `json:"sentiment"`
	SentimentReason    string    `json:"sentiment_reason"`
	CompaniesMentioned []string  `json:"companies_mentioned"`
	IsOwnBrandMention  bool      `json:"is_own_brand_mention"`
	EntityTags         []string  `json:"entity_tags"`
	FeaturesMentioned  []string  `json:"features_mentioned"`
	IsBuyerVoice       bool      `json:"is_buyer_voice"`
	IsFounderVoice     bool      `json:"is_founder_voice"`
	IsAnalystVoice     bool      `json:"is_analyst_voice"`
	IsFeatureRequest   bool      `json:"is_feature_request"`
	IsCompetitiveIntel bool      `json:"is_competitive_intel"`
	SourceQuality      int       `json:"source_quality"`
}

// HasTag reports whether the signal carries the given entity tag.
func (s *Signal) HasTag(tag string) bool {
	for _, t := range s.EntityTags {
		if t == tag {
			return true
		}
	}
	return false
}

// CombinedText returns text and title joined the way every matcher
// sees a post. The enricher and all downstream scorers lower-case it
// exactly once per record.
func (p *RawPost) CombinedText() string {
	if p.Title == "" {
		return p.Text
	}
	if p.Text == "" {
		return p.Title
	}
	return p.Text + " " + p.Title
}

// WeekPoint is one step of a per-entity time series.
type WeekPoint struct {
	Week  string `json:"week"`
	Count int    `json:"count"`
}

// TrendSeries is the per-company / per-tag / per-voice-signal history
// plus the latest week-over-week delta.
type TrendSeries struct {
	History     []WeekPoint `json:"history"`
	LatestCount int         `json:"latest_count"`
	DeltaPct    float64     `json:"delta_pct"`
	Direction   Direction   `json:"direction"`
}

// VolumePoint is the total signal count for one week.
type VolumePoint struct {
	Week      string    `json:"week"`
	Count     int       `json:"count"`
	DeltaPct  float64   `json:"delta_pct"`
	Direction Direction `json:"direction"`
}

// Mover is one entry of the global rising/fading lists.
type Mover struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"` // "company" or "tag"
	Delta float64 `json:"delta"`
}

// TrendBucket holds the per-week frequency counts. Recomputed in full
// on every run; never merged incrementally.
type TrendBucket struct {
	Week       string            `json:"week"`
	Total      int               `json:"total"`
	Sentiments map[Sentiment]int `json:"sentiments"`
	Companies  map[string]int    `json:"companies"`
	Tags       map[string]int    `json:"tags"`
	Voices     map[string]int    `json:"signals"`
	Sources    map[string]int    `json:"sources"`
}

// TrendDoc is the trend artifact consumed by the display layer.
type TrendDoc struct {
	Weeks         []string                `json:"weeks"`
	VolumeTrend   []VolumePoint           `json:"volume_trend"`
	CompanyTrends map[string]*TrendSeries `json:"company_trends"`
	TagTrends     map[string]*TrendSeries `json:"tag_trends"`
	SignalTrends  map[string]*TrendSeries `json:"signal_trends"`
	Rising        []Mover                 `json:"rising"`
	Fading        []Mover                 `json:"fading"`
	GeneratedAt   string                  `json:"generated_at"`
}

// ThemeCluster is one topical bucket of the cluster artifact.
type ThemeCluster struct {
	Count        int               `json:"count"`
	Pct          float64           `json:"pct"`
	Sentiments   map[Sentiment]int `json:"sentiments"`
	TopCompanies map[string]int    `json:"top_companies"`
	TopTags      map[string]int    `json:"top_tags"`
	SampleTitles []string          `json:"sample_titles"`
	InsightIDs   []string          `json:"insight_ids"`
}

// ClusterDoc is the theme clustering artifact.
type ClusterDoc struct {
	GeneratedAt   string                   `json:"generated_at"`
	TotalInsights int                      `json:"total_insights"`
	Clusters      map[string]*ThemeCluster `json:"clusters"`
	Order         []string                 `json:"order"` // themes by descending count
}

// CompanyEvidence tracks per-company evidence volume under one
// opportunity theme.
type CompanyEvidence struct {
	Count  int    `json:"count"`
	Latest string `json:"latest"` // most recent post_date
}

// OpportunityRecord aggregates buyer-need evidence for one theme.
// Confidence is a bounded heuristic in [0,95], not a probability.
type OpportunityRecord struct {
	Theme               string                      `json:"theme"`
	Evidence            int                         `json:"evidence"`
	Complaints          int                         `json:"complaints"`
	Requests            int                         `json:"requests"`
	Praise              int                         `json:"praise"`
	CompaniesTried      []string                    `json:"companies_tried"`
	CompaniesPraised    []string                    `json:"companies_praised"`
	CompaniesComplained []string                    `json:"companies_complained"`
	CompanyDetail       map[string]*CompanyEvidence `json:"company_detail"`
	SignalIDs           []string                    `json:"signal_ids"`
	Confidence          int                         `json:"confidence"`
	IsGap               bool                        `json:"is_gap"`
}

// OpportunityDoc is the opportunity artifact. The original computed
// these on demand in the display layer; persisting them keeps every
// consumer on the same rule table.
type OpportunityDoc struct {
	GeneratedAt string                        `json:"generated_at"`
	Records     map[string]*OpportunityRecord `json:"records"`
}

// DiscoveredSource is one suggested scrape source surfaced by the
// discovery scan.
type DiscoveredSource struct {
	Domain       string   `json:"domain"`
	MentionCount int      `json:"mention_count"`
	FirstSeen    string   `json:"first_seen"`
	LastSeen     string   `json:"last_seen"`
	SourceTypes  []string `json:"source_types"`
	Relevant     bool     `json:"geo_relevant"`
	SampleURLs   []string `json:"sample_urls"`
	Contexts     []string `json:"contexts"`
	Status       string   `json:"status"` // suggested, approved, rejected
	DiscoveredAt string   `json:"discovered_at"`
}

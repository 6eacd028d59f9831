package rules

import (
	"regexp"
	"strings"
)

// Default rule tables for the GEO/AEO market. Everything here is data:
// the classifiers iterate these tables and never hard-code a pattern.

var defaultContextTerms = []string{
	"geo", "aeo", "generative engine optimization", "answer engine optimization",
	"ai search", "ai visibility", "ai answer", "ai citation", "ai overview",
	"brand visibility", "share of voice", "share of answer",
	"llm optimization", "llm brand", "llm monitoring",
	"perplexity", "chatgpt search", "searchgpt", "gemini search",
	"seo", "search engine optimization", "organic search",
	"content optimization", "structured data", "schema markup",
	"zero click", "zero-click", "ai overviews",
}

// Weak terms only count when a tracked company is also mentioned.
var defaultWeakTerms = []string{
	"seo", "chatgpt", "perplexity", "gemini", "ai tool",
}

// Sources inherently about the tracked market: a company mention alone
// is sufficient evidence of relevance.
var defaultWhitelistSources = map[string]bool{
	"G2":           true,
	"Product Hunt": true,
}

var defaultNoisePhrases = []string{
	"i am a bot", "this action was performed automatically",
	"automoderator", "this post has been removed",
	"please read the rules", "megathread",
	"check out my channel", "subscribe to my",
	"use my affiliate", "promo code", "discount code",
}

var defaultTitleBlocklist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*\[(dead|flagged|deleted)\]\s*$`),
	regexp.MustCompile(`(?i)who is hiring|who.s hiring|ask hn:.*hiring|hiring thread`),
	regexp.MustCompile(`(?i)freelancer.*seeking|monthly.*job`),
	regexp.MustCompile(`(?i)why is the sky|50 years ago|bill gates.*birthday|what color is`),
	regexp.MustCompile(`(?i)how to lose weight|best recipe for|weather forecast|horoscope`),
	regexp.MustCompile(`(?i)lottery results|sports score|celebrity gossip`),
}

// Large unrelated tech brands crowd out the market unless the title
// also carries a context term.
var defaultConditionalBrands = []string{
	"apple", "microsoft", "amazon", "netflix", "tesla",
	"nvidia", "meta quest", "playstation", "xbox",
}

var defaultPositivePatterns = regexp.MustCompile(
	`(?i)\b(love|great|amazing|excellent|fantastic|impressed|perfect|best|recommend` +
		`|game.?changer|helpful|powerful|easy to use|well done|solid|smooth` +
		`|happy with|pleased|satisfied|works great|exactly what|finally a)\b`)

var defaultNegativePatterns = regexp.MustCompile(
	`(?i)\b(terrible|horrible|awful|worst|hate|frustrated|annoying|broken|useless` +
		`|disappointed|waste|scam|misleading|overpriced|doesn.?t work|not working` +
		`|buggy|slow|inaccurate|unreliable|confusing|clunky|garbage|joke` +
		`|rip.?off|can.?t believe|ridiculous|unacceptable)\b`)

var (
	reComplaint = regexp.MustCompile(
		`(?i)\b(problem|issue|bug|broken|frustrated|annoying|can.?t|won.?t|doesn.?t work` +
			`|not working|failed|error|waiting|slow|delay|missing|lack|no way to` +
			`|unable to|wish it|should have|terrible|awful|worst)\b`)
	rePraise = regexp.MustCompile(
		`(?i)\b(love|great|amazing|excellent|perfect|best|recommend|impressed` +
			`|game.?changer|helpful|works great|exactly what|solid|smooth|finally)\b`)
	reQuestion = regexp.MustCompile(
		`(?i)(^|\n)\s*(how do|how can|how to|what is|what are|is there|anyone know` +
			`|has anyone|can someone|does anyone|which tool|what tool|best way to` +
			`|looking for|trying to find|need help|any recommendations)\b`)
	reFunding = regexp.MustCompile(
		`(?i)\b(raised|funding|series [a-d]|seed round|venture|valuation|acquired` +
			`|acquisition|ipo|investment|investor|backed by|\$\d+[mk])\b`)
	reLaunch = regexp.MustCompile(
		`(?i)\b(launched|launching|announcing|just released|new feature|now available` +
			`|introducing|beta|early access|product hunt|we built|just shipped` +
			`|v[12]\.\d|version \d)\b`)
	reComparison = regexp.MustCompile(
		`(?i)\b(vs\.?|versus|compared to|better than|worse than|alternative to` +
			`|switched from|moving from|replaced|instead of|or should i)\b`)
)

var (
	reBuyer = regexp.MustCompile(
		`(?i)\b(looking for|evaluating|comparing|trialing|testing|considering` +
			`|signed up|started using|just bought|pricing|free trial|demo` +
			`|worth it|should i use|anyone using)\b`)
	reFounder = regexp.MustCompile(
		`(?i)\b(we built|i built|my startup|our product|founder|co-founder` +
			`|we.re building|we just launched|i.m the creator|our team` +
			`|bootstrapped|yc |y combinator)\b`)
	reAnalyst = regexp.MustCompile(
		`(?i)\b(according to|report|research|study|analysis|survey|data shows` +
			`|market size|tam |gartner|forrester|g2 crowd|analyst` +
			`|venture|investor perspective)\b`)
	reFeatureRequest = regexp.MustCompile(
		`(?i)\b(wish it|should have|would be nice|need a|looking for a tool that` +
			`|anyone know.*that can|feature request|missing feature|no way to` +
			`|i want|please add|when will|roadmap|planned)\b`)
)

var defaultFeatureKeywords = []string{
	"dashboard", "reporting", "api", "integration", "pricing",
	"accuracy", "citation tracking", "share of voice", "recommendations",
	"workflow", "alerts", "real-time", "historical data", "export",
	"white label", "multi-brand", "custom prompts", "benchmarking",
}

var defaultSourceQuality = []SourceWeight{
	{"G2", 5},
	{"Slack", 4},
	{"Hacker News", 4},
	{"Product Hunt", 3},
	{"News", 3},
	{"RSS", 3},
	{"Reddit", 2},
}

var defaultThemes = []ThemeRule{
	{
		Name: "Visibility & Rankings",
		Keywords: []string{
			"visibility", "ranking", "rank", "position", "serp",
			"ai overview", "ai overviews", "citation", "share of voice",
			"share of answer", "brand mention", "zero click", "featured snippet",
			"search result", "indexed", "indexing", "organic",
		},
		Features: []string{"citation tracking", "share of voice"},
	},
	{
		Name: "Content & Optimization",
		Keywords: []string{
			"content", "optimize", "optimization", "seo", "geo",
			"structured data", "schema", "markup", "keyword",
			"authority", "e-e-a-t", "eeat", "topical authority",
			"content strategy", "prompt", "answer engine",
		},
		Features: []string{"content optimization", "recommendations"},
	},
	{
		Name: "Tools & Measurement",
		Keywords: []string{
			"tool", "platform", "dashboard", "analytics", "measure",
			"metric", "report", "data", "track", "monitor",
			"benchmark", "api", "integration", "software",
		},
		Features: []string{"dashboard", "reporting", "api", "integration", "benchmarking"},
		Tags:     []string{"product_launch"},
	},
	{
		Name: "Competitive Landscape",
		Keywords: []string{
			"competitor", "alternative", "vs", "versus", "compare",
			"switch", "market", "landscape", "leader", "player",
			"funding", "acquisition", "partnership", "raised",
		},
		Tags: []string{"comparison", "funding_news", "competitive_intel"},
	},
	{
		Name: "User Needs & Gaps",
		Keywords: []string{
			"need", "want", "wish", "request", "missing",
			"frustrated", "problem", "issue", "gap", "pain",
			"pricing", "expensive", "cost", "value", "roi",
		},
		Tags:     []string{"complaint", "question"},
		Features: []string{"pricing", "accuracy", "workflow"},
	},
	{
		Name: "Industry & Market Shifts",
		Keywords: []string{
			"industry", "market", "trend", "shift", "change",
			"google", "openai", "perplexity", "chatgpt",
			"regulation", "policy", "privacy", "cookie",
			"publisher", "media", "traffic", "revenue",
		},
	},
}

var defaultOpportunities = []OpportunityRule{
	{"Real-time Tracking", []string{
		"real-time", "real time", "live tracking", "live monitoring",
		"instant", "continuous", "live data", "monitor"}},
	{"Multi-LLM Coverage", []string{
		"multiple llm", "all llm", "perplexity and chatgpt", "cross-platform",
		"every ai", "all ai", "multi-model", "chatgpt and gemini",
		"claude and", "different ai", "llm coverage"}},
	{"Actionable Recs", []string{
		"actionable", "what to do", "next steps", "recommendations",
		"how to improve", "specific advice", "optimization tip",
		"action item"}},
	{"ROI Measurement", []string{
		"roi", "return on investment", "revenue impact", "attribution",
		"prove value", "business impact", "conversion", "kpi",
		"measure results", "performance metric"}},
	{"Historical Trends", []string{
		"historical", "trend", "over time", "change over", "compare week",
		"month over month", "trajectory", "time series",
		"tracking progress", "weekly report"}},
	{"Comp. Benchmarking", []string{
		"benchmark", "compare to competitor", "competitive",
		"industry average", "how do we compare", "vs competitor",
		"competitor analysis", "comparison", "ranking"}},
	{"Content Guidance", []string{
		"what to write", "content recommendations", "topic suggestion",
		"content gap", "optimization guide", "content strategy",
		"content plan"}},
	{"Brand Safety", []string{
		"brand safety", "misinformation", "hallucination about",
		"wrong information", "incorrect", "ai says wrong",
		"inaccurate", "false information", "reputation"}},
	{"Integrations", []string{
		"integrate", "integration", "connect to", "plugin",
		"works with", "api", "google analytics", "hubspot",
		"webhook", "zapier", "export data", "third-party"}},
}

var defaultSkipDomains = map[string]bool{
	"reddit.com": true, "old.reddit.com": true, "www.reddit.com": true,
	"news.ycombinator.com": true, "ycombinator.com": true,
	"twitter.com": true, "x.com": true,
	"youtube.com": true, "youtu.be": true,
	"google.com": true, "news.google.com": true,
	"facebook.com": true, "instagram.com": true, "tiktok.com": true,
	"linkedin.com": true, "medium.com": true, "substack.com": true,
	"github.com": true, "gitlab.com": true,
	"producthunt.com": true, "g2.com": true,
	"imgur.com": true, "i.redd.it": true, "v.redd.it": true,
	"bit.ly": true, "t.co": true, "goo.gl": true,
	"en.wikipedia.org": true, "wikipedia.org": true,
	"web.archive.org": true,
}

// Default returns the built-in ruleset.
func Default() *Ruleset {
	return &Ruleset{
		ContextTerms:      defaultContextTerms,
		WeakTerms:         defaultWeakTerms,
		WhitelistSources:  defaultWhitelistSources,
		NoisePhrases:      defaultNoisePhrases,
		TitleBlocklist:    defaultTitleBlocklist,
		ConditionalBrands: defaultConditionalBrands,
		MinTitleLength:    8,

		PositivePatterns: defaultPositivePatterns,
		NegativePatterns: defaultNegativePatterns,

		TagPatterns: []TagPattern{
			{Tag: "complaint", Pattern: reComplaint},
			{Tag: "praise", Pattern: rePraise},
			{Tag: "question", Pattern: reQuestion},
			{Tag: "funding_news", Pattern: reFunding},
			{Tag: "product_launch", Pattern: reLaunch},
			{Tag: "comparison", Pattern: reComparison},
		},

		BuyerPattern:          reBuyer,
		FounderPattern:        reFounder,
		AnalystPattern:        reAnalyst,
		FeatureRequestPattern: reFeatureRequest,
		ComparisonPattern:     reComparison,

		FeatureKeywords: defaultFeatureKeywords,

		SourceQuality:       defaultSourceQuality,
		DefaultQuality:      2,
		TrustedSourceMarker: "G2",

		Themes:        defaultThemes,
		Opportunities: defaultOpportunities,
		Weights:       Weights{Keyword: 1, Feature: 3, Tag: 2},

		Dedup: DedupConfig{TitleKeyLength: 60, MinKeyLength: 16},

		SkipDomains: defaultSkipDomains,
	}
}

// QualityFor returns the weight for a source label, falling back to
// the default weight for unrecognized sources.
func (r *Ruleset) QualityFor(source string) int {
	lower := strings.ToLower(source)
	for _, sw := range r.SourceQuality {
		if strings.Contains(lower, strings.ToLower(sw.Marker)) {
			return sw.Weight
		}
	}
	return r.DefaultQuality
}

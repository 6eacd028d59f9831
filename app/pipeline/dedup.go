package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// Deduplicator collapses near-duplicate signals in two passes: first
// by normalized URL keeping the most enriched copy, then by a
// normalized title-prefix key among the survivors. Output order is not
// guaranteed; callers needing chronology must re-sort by post date.
type Deduplicator struct {
	cfg  rules.DedupConfig
	fold transform.Transformer
}

func NewDeduplicator(cfg rules.DedupConfig) *Deduplicator {
	return &Deduplicator{
		cfg: cfg,
		// NFKD plus mark-stripping folds accented titles onto the
		// same key as their plain-ASCII copies.
		fold: transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

func (d *Deduplicator) Run(signals []signal.Signal) []signal.Signal {
	// Pass 1: group by normalized URL, keep the richest per group.
	byURL := make(map[string]int)
	survivors := make([]signal.Signal, 0, len(signals))

	for _, s := range signals {
		url := normalizeURL(s.URL)
		if url == "" {
			survivors = append(survivors, s)
			continue
		}
		idx, ok := byURL[url]
		if !ok {
			byURL[url] = len(survivors)
			survivors = append(survivors, s)
			continue
		}
		if richness(&s) > richness(&survivors[idx]) {
			survivors[idx] = s
		}
	}

	// Pass 2: drop repeated titles among the survivors.
	seenTitles := make(map[string]bool)
	out := make([]signal.Signal, 0, len(survivors))
	for _, s := range survivors {
		key := d.titleKey(s.Title)
		if len(key) >= d.cfg.MinKeyLength {
			if seenTitles[key] {
				continue
			}
			seenTitles[key] = true
		}
		out = append(out, s)
	}

	return out
}

// richness is the enrichment score that decides which duplicate to
// keep: company mentions plus entity tags. Ties keep the first seen.
func richness(s *signal.Signal) int {
	return len(s.CompaniesMentioned) + len(s.EntityTags)
}

func normalizeURL(raw string) string {
	url := strings.TrimSpace(raw)
	return strings.TrimSuffix(url, "/")
}

// titleKey lower-cases, strips everything non-alphanumeric and
// truncates to the configured prefix length.
func (d *Deduplicator) titleKey(title string) string {
	folded, _, err := transform.String(d.fold, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= d.cfg.TitleKeyLength {
			break
		}
	}
	return b.String()
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/geopulse/geopulse/app/artifacts"
	"github.com/geopulse/geopulse/app/catalog"
	"github.com/geopulse/geopulse/app/database"
	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/signal"
)

// Runner executes the full batch: normalize, gate, enrich, dedup,
// trends, cluster, opportunities, discovery. Each stage fully consumes
// its input before the next starts; artifacts are written atomically
// at the end of each stage so a failing stage leaves every previously
// written output intact.
type Runner struct {
	normalizer   *Normalizer
	gate         *Gate
	enricher     *Enricher
	deduplicator *Deduplicator
	aggregator   *Aggregator
	clusterer    *Clusterer
	scorer       *Scorer
	discoverer   *Discoverer

	catalog  *catalog.Catalog
	store    *artifacts.Store
	postRepo database.PostRepository
	runRepo  database.RunRepository

	maxAgeDays int
}

// RunOptions selects between a full and an incremental run.
type RunOptions struct {
	// SinceDate (YYYY-MM-DD) restricts enrichment to posts on or
	// after the given day. Empty means a full run.
	SinceDate string
}

// RunResult summarizes one completed (or failed) run.
type RunResult struct {
	RunType     string
	StartedAt   time.Time
	CompletedAt time.Time
	Status      string
	NewPosts    int
	Admitted    int
	Enriched    int
	Skipped     int
	Deduped     int
	Err         error
}

func NewRunner(rs *rules.Ruleset, cat *catalog.Catalog, knownDomains map[string]bool,
	store *artifacts.Store, postRepo database.PostRepository, runRepo database.RunRepository,
	maxAgeDays int) *Runner {

	return &Runner{
		normalizer:   NewNormalizer(store.DataDir()),
		gate:         NewGate(rs, cat),
		enricher:     NewEnricher(rs, cat),
		deduplicator: NewDeduplicator(rs.Dedup),
		aggregator:   NewAggregator(),
		clusterer:    NewClusterer(rs),
		scorer:       NewScorer(rs),
		discoverer:   NewDiscoverer(rs, knownDomains),
		catalog:      cat,
		store:        store,
		postRepo:     postRepo,
		runRepo:      runRepo,
		maxAgeDays:   maxAgeDays,
	}
}

// Run executes the batch and records the outcome in the run log. The
// returned result always carries the final status; the error mirrors
// result.Err for callers that only care about failure.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	result := &RunResult{
		RunType:   "full",
		StartedAt: time.Now(),
		Status:    database.RunStatusCompleted,
	}
	if opts.SinceDate != "" {
		result.RunType = "incremental"
	}

	err := r.run(ctx, opts, result)
	result.CompletedAt = time.Now()
	if err != nil {
		result.Status = database.RunStatusFailed
		result.Err = err
		slog.Error("Pipeline run failed", "error", err, "duration", result.CompletedAt.Sub(result.StartedAt))
	} else {
		slog.Info("Pipeline run complete",
			"new_posts", result.NewPosts, "admitted", result.Admitted,
			"enriched", result.Enriched, "skipped", result.Skipped,
			"deduped", result.Deduped, "duration", result.CompletedAt.Sub(result.StartedAt))
	}

	r.logRun(result, opts)

	return result, err
}

func (r *Runner) run(ctx context.Context, opts RunOptions, result *RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Stage 1: ingestion.
	posts, err := r.normalizer.Run()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	if r.postRepo != nil {
		inserted, err := r.postRepo.UpsertPosts(posts)
		if err != nil {
			return fmt.Errorf("post archive failed: %w", err)
		}
		result.NewPosts = inserted

		// Union with the archive so posts rotated out of the scrape
		// files stay in the batch. Current scrapes win on conflict;
		// they carry fresher scores and comment counts.
		archived, err := r.postRepo.GetAllPosts()
		if err != nil {
			return fmt.Errorf("failed to read post archive: %w", err)
		}
		posts = mergeArchived(posts, archived)
	}

	// Stage 2: relevance gate.
	admitted := r.gate.Run(posts)
	result.Admitted = len(admitted)

	if opts.SinceDate != "" {
		recent := admitted[:0]
		for _, p := range admitted {
			if p.PostDate >= opts.SinceDate {
				recent = append(recent, p)
			}
		}
		admitted = recent
		slog.Info("Incremental date filter applied", "since", opts.SinceDate, "remaining", len(admitted))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Stage 3: enrichment. A panic while enriching one record must
	// not abort the batch; the record is skipped and counted.
	signals := make([]signal.Signal, 0, len(admitted))
	for _, post := range admitted {
		s, ok := r.enrichOne(post)
		if !ok {
			result.Skipped++
			continue
		}
		signals = append(signals, s)
	}
	result.Enriched = len(signals)

	// Stage 4: age limit and dedup. Newest first before deduping so
	// a richness tie keeps the most recent record.
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].PostDate > signals[j].PostDate
	})
	signals = r.filterByAge(signals)
	signals = r.deduplicator.Run(signals)
	result.Deduped = len(signals)

	if err := r.store.WriteSignals(signals); err != nil {
		return fmt.Errorf("failed to write signals artifact: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// Stage 5: trends.
	_, trendDoc := r.aggregator.Run(signals)
	if err := r.store.WriteTrends(trendDoc); err != nil {
		return fmt.Errorf("failed to write trends artifact: %w", err)
	}

	// Stage 6: theme clusters.
	clusterDoc := r.clusterer.Run(signals)
	if err := r.store.WriteClusters(clusterDoc); err != nil {
		return fmt.Errorf("failed to write clusters artifact: %w", err)
	}

	// Stage 7: opportunity scoring against the competitor catalog.
	oppDoc := r.scorer.Run(signals, r.catalog.CompetitorNames())
	if err := r.store.WriteOpportunities(oppDoc); err != nil {
		return fmt.Errorf("failed to write opportunities artifact: %w", err)
	}

	// Stage 8: source discovery, preserving prior decisions.
	previous, err := r.store.ReadDiscovered()
	if err != nil {
		return fmt.Errorf("failed to read discovered sources: %w", err)
	}
	discovered := r.discoverer.Run(signals, previous)
	if err := r.store.WriteDiscovered(discovered); err != nil {
		return fmt.Errorf("failed to write discovered sources: %w", err)
	}

	return nil
}

func mergeArchived(current, archived []signal.RawPost) []signal.RawPost {
	seen := make(map[string]bool, len(current))
	for _, p := range current {
		if p.PostID != "" {
			seen[p.PostID] = true
		}
	}
	for _, p := range archived {
		if !seen[p.PostID] {
			current = append(current, p)
		}
	}
	return current
}

func (r *Runner) enrichOne(post signal.RawPost) (s signal.Signal, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("Skipping record after enrichment panic", "post_id", post.PostID, "panic", rec)
			ok = false
		}
	}()
	return r.enricher.Run(post), true
}

// filterByAge drops signals with a parseable date older than the age
// limit. Undated or unparseable records are retained; only the trend
// aggregator excludes them.
func (r *Runner) filterByAge(signals []signal.Signal) []signal.Signal {
	if r.maxAgeDays <= 0 {
		return signals
	}
	cutoff := time.Now().AddDate(0, 0, -r.maxAgeDays)

	kept := signals[:0]
	for _, s := range signals {
		t, err := time.Parse("2006-01-02", s.PostDate)
		if err == nil && t.Before(cutoff) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

func (r *Runner) logRun(result *RunResult, opts RunOptions) {
	if r.runRepo == nil {
		return
	}
	run := database.Run{
		RunType:     result.RunType,
		StartedAt:   result.StartedAt.Format(time.RFC3339),
		CompletedAt: result.CompletedAt.Format(time.RFC3339),
		Status:      result.Status,
		NewPosts:    result.NewPosts,
		Skipped:     result.Skipped,
		SinceDate:   opts.SinceDate,
	}
	if result.Err != nil {
		run.Error = result.Err.Error()
	}
	if err := r.runRepo.RecordRun(run); err != nil {
		slog.Error("Failed to record run", "error", err)
	}
}

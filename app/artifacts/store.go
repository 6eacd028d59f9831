// Package artifacts persists the pipeline's derived outputs as whole
// JSON documents. Every write is atomic (temp file + rename) so a
// consumer reading mid-run sees the previous fully-consistent output,
// never a partially-written one.
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/geopulse/geopulse/app/signal"
)

const (
	SignalsFile       = "enriched_insights.json"
	TrendsFile        = "trends.json"
	ClustersFile      = "clusters.json"
	OpportunitiesFile = "opportunities.json"
	DiscoveredFile    = "discovered_sources.json"
)

type Store struct {
	dataDir string
}

func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// DataDir returns the directory the store writes to. The normalizer
// reads the adapters' scrape files from the same place.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) WriteSignals(signals []signal.Signal) error {
	return s.write(SignalsFile, signals)
}

func (s *Store) ReadSignals() ([]signal.Signal, error) {
	var signals []signal.Signal
	if err := s.read(SignalsFile, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

func (s *Store) WriteTrends(doc *signal.TrendDoc) error {
	return s.write(TrendsFile, doc)
}

func (s *Store) ReadTrends() (*signal.TrendDoc, error) {
	var doc signal.TrendDoc
	if err := s.read(TrendsFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) WriteClusters(doc *signal.ClusterDoc) error {
	return s.write(ClustersFile, doc)
}

func (s *Store) ReadClusters() (*signal.ClusterDoc, error) {
	var doc signal.ClusterDoc
	if err := s.read(ClustersFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) WriteOpportunities(doc *signal.OpportunityDoc) error {
	return s.write(OpportunitiesFile, doc)
}

func (s *Store) ReadOpportunities() (*signal.OpportunityDoc, error) {
	var doc signal.OpportunityDoc
	if err := s.read(OpportunitiesFile, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) WriteDiscovered(sources []signal.DiscoveredSource) error {
	return s.write(DiscoveredFile, sources)
}

func (s *Store) ReadDiscovered() ([]signal.DiscoveredSource, error) {
	var sources []signal.DiscoveredSource
	if err := s.read(DiscoveredFile, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// IsStale reports whether the signals artifact is older than ttl.
// A missing artifact is always stale.
func (s *Store) IsStale(ttl time.Duration) bool {
	info, err := os.Stat(filepath.Join(s.dataDir, SignalsFile))
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > ttl
}

// write marshals v and atomically replaces the target file.
func (s *Store) write(name string, v any) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	target := filepath.Join(s.dataDir, name)
	tmp, err := os.CreateTemp(s.dataDir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}

	return nil
}

// read unmarshals the named artifact into v. A missing file is "no
// data": v is left at its zero value and no error is returned.
func (s *Store) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

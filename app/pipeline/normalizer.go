package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/geopulse/geopulse/app/signal"
)

// Normalizer merges the per-source scrape files into one record set.
// Each adapter writes a JSON array of raw posts to its own file; the
// normalizer concatenates them and drops cheap duplicates by post id
// (or a text prefix when the id is missing).
type Normalizer struct {
	dataDir string
}

const textKeyPrefixLen = 100

func NewNormalizer(dataDir string) *Normalizer {
	return &Normalizer{dataDir: dataDir}
}

// Run loads every scraped_*.json file. Missing files and an empty
// directory are treated as "no data", not as errors.
func (n *Normalizer) Run() ([]signal.RawPost, error) {
	files, err := filepath.Glob(filepath.Join(n.dataDir, "scraped_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scrape files: %w", err)
	}
	sort.Strings(files)

	var all []signal.RawPost
	for _, file := range files {
		posts, err := n.loadFile(file)
		if err != nil {
			slog.Warn("Skipping unreadable scrape file", "file", file, "error", err)
			continue
		}
		slog.Debug("Loaded scrape file", "file", file, "posts", len(posts))
		all = append(all, posts...)
	}

	merged := Merge(all)
	slog.Info("Ingestion normalized", "raw", len(all), "unique", len(merged))

	return merged, nil
}

func (n *Normalizer) loadFile(path string) ([]signal.RawPost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var posts []signal.RawPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return posts, nil
}

// Merge removes duplicate posts by id-or-text-prefix key, keeping the
// first occurrence. Records with no usable key are dropped.
func Merge(posts []signal.RawPost) []signal.RawPost {
	seen := make(map[string]bool, len(posts))
	unique := make([]signal.RawPost, 0, len(posts))

	for _, p := range posts {
		key := p.PostID
		if key == "" {
			text := p.Text
			if len(text) > textKeyPrefixLen {
				text = text[:textKeyPrefixLen]
			}
			key = text
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}

	return unique
}

package database

import (
	"fmt"

	"github.com/geopulse/geopulse/app/signal"
)

// PostRepo archives normalized raw posts so re-runs and incremental
// runs operate on a stable input set even after an adapter's scrape
// file is rotated.
type PostRepo struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

// UpsertPosts stores the batch and returns the number of posts not
// seen before. Posts without an id are skipped; the normalizer keys
// those by text prefix and they never reach the archive.
func (r *PostRepo) UpsertPosts(posts []signal.RawPost) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO posts (post_id, title, text, source, url, username, post_date, score, num_comments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (post_id) DO UPDATE SET
			score = excluded.score,
			num_comments = excluded.num_comments,
			last_seen_at = datetime('now')
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, p := range posts {
		if p.PostID == "" {
			continue
		}
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(1) FROM posts WHERE post_id = ?`, p.PostID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check post %s: %w", p.PostID, err)
		}
		if _, err := stmt.Exec(p.PostID, p.Title, p.Text, p.Source, p.URL, p.Username, p.PostDate, p.Score, p.Comments); err != nil {
			return 0, fmt.Errorf("failed to upsert post %s: %w", p.PostID, err)
		}
		if exists == 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit posts: %w", err)
	}

	return inserted, nil
}

// GetAllPosts returns the archived posts, newest first. Incremental
// runs merge these with the current scrape files so history survives
// adapter file rotation.
func (r *PostRepo) GetAllPosts() ([]signal.RawPost, error) {
	rows, err := r.db.Query(`
		SELECT post_id, title, text, source, url, username, post_date, score, num_comments
		FROM posts
		ORDER BY post_date DESC, post_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []signal.RawPost
	for rows.Next() {
		var p signal.RawPost
		if err := rows.Scan(&p.PostID, &p.Title, &p.Text, &p.Source, &p.URL, &p.Username, &p.PostDate, &p.Score, &p.Comments); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, nil
}

func (r *PostRepo) GetPostCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

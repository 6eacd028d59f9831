package database

import "github.com/geopulse/geopulse/app/signal"

type PostRepository interface {
	UpsertPosts(posts []signal.RawPost) (int, error)
	GetAllPosts() ([]signal.RawPost, error)
	GetPostCount() (int, error)
}

type RunRepository interface {
	RecordRun(run Run) error
	GetRecentRuns(limit int) ([]Run, error)
	GetLastCompletedRun() (*Run, error)
}

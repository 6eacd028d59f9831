package database

// Run is one pipeline run log entry. History is capped; old rows are
// pruned after each insert.
type Run struct {
	ID          int64  `json:"id"`
	RunType     string `json:"run_type"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	Status      string `json:"status"`
	NewPosts    int    `json:"new_posts"`
	Skipped     int    `json:"skipped"`
	SinceDate   string `json:"since_date"`
	Error       string `json:"error"`
}

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

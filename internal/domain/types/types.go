// Package types contains common types used across the application
package types

// PlatformStat aggregates one platform's results for a pipeline pass.
type PlatformStat struct {
	Discovered int `json:"discovered"`
	New        int `json:"new"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// Summary is the per-pass result reported by the orchestrator and
// returned from GET /test-crawl.
type Summary struct {
	Success       bool                    `json:"success"`
	RunID         string                  `json:"run_id"`
	NewCount      int                     `json:"new_count"`
	SentCount     int                     `json:"sent_count"`
	FailedCount   int                     `json:"failed_count"`
	NewTitles     []string                `json:"new_titles,omitempty"`
	PlatformStats map[string]PlatformStat `json:"platform_stats"`
	StartedAt     string                  `json:"started_at"`
	FinishedAt    string                  `json:"finished_at"`
}

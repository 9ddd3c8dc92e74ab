package domain

import "time"

// Report is one dated aggregation of qualifying articles. The article list
// is a point-in-time snapshot taken at generation; later re-analysis of an
// article does not reach back into a saved report.
type Report struct {
	Date        string    `json:"date"`
	GeneratedAt time.Time `json:"generated_at"`
	Summary     string    `json:"summary"`
	Articles    []Article `json:"articles"`
}

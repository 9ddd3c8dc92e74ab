package domain

import "time"

// Article is a core entity describing one discovered publication.
type Article struct {
	ID          int64     `json:"id"`
	Journal     string    `json:"journal"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publication_date"`
	// ExternalID is a persistent, globally unique identifier for the item:
	// a DOI-derived key for bibliographic APIs, the entry GUID or link for
	// syndicated feeds. It is the dedup key across fetches.
	ExternalID  string    `json:"external_id"`
	ProcessedAt time.Time `json:"processed_at"`

	// Set by the analyzer; nil until the article has been analyzed.
	RelevanceScore *int    `json:"relevance_score"`
	Summary        *string `json:"summary"`
}

// Scored reports whether the article has been through analysis.
func (a Article) Scored() bool {
	return a.RelevanceScore != nil
}

// Score returns the relevance score, treating unanalyzed articles as 0.
func (a Article) Score() int {
	if a.RelevanceScore == nil {
		return 0
	}
	return *a.RelevanceScore
}

// AnalysisOutcome distinguishes a genuine model score from the two
// degenerate cases that also surface as a numeric zero.
type AnalysisOutcome string

const (
	// OutcomeScored means a numeric score was extracted from model output.
	OutcomeScored AnalysisOutcome = "scored"
	// OutcomeExtractionFailed means the model responded but no score
	// pattern matched; the zero is an artifact, not a rating.
	OutcomeExtractionFailed AnalysisOutcome = "extraction_failed"
	// OutcomeInsufficientData means title or abstract was empty and no
	// model call was made.
	OutcomeInsufficientData AnalysisOutcome = "insufficient_data"
)

// Analysis is the result of running one article through the relevance
// analyzer. The outcome travels with the score so callers can tell an
// extraction failure apart from true irrelevance before the store collapses
// both to a plain integer.
type Analysis struct {
	Score       int
	Outcome     AnalysisOutcome
	Explanation string
	Summary     string
}

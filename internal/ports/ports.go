package ports

import (
	"context"
	"time"

	"journalwatch/internal/domain"
)

// ArticleSource pulls fresh articles from all configured upstream sources.
type ArticleSource interface {
	FetchLatest(ctx context.Context) ([]domain.Article, error)
}

// ArticleStore persists articles for deduplication, analysis and reporting.
type ArticleStore interface {
	// Upsert inserts the article unless either uniqueness constraint
	// (external_id, or journal+title) already holds. The duplicate case is
	// the expected dedup signal, reported via inserted=false, never as an
	// error.
	Upsert(ctx context.Context, article domain.Article) (inserted bool, err error)

	// Unscored returns every article not yet analyzed.
	Unscored(ctx context.Context) ([]domain.Article, error)

	// All returns every stored article; used for reanalysis.
	All(ctx context.Context) ([]domain.Article, error)

	// ByDate returns articles processed on the given calendar day whose
	// score is null or >= minScore, ordered by score descending with
	// unscored rows last.
	ByDate(ctx context.Context, day time.Time, minScore int) ([]domain.Article, error)

	// Recent returns articles processed within the trailing window, same
	// filter and order as ByDate with publication date as tiebreaker.
	Recent(ctx context.Context, days, minScore int) ([]domain.Article, error)

	Get(ctx context.Context, id int64) (domain.Article, error)
	GetByExternalID(ctx context.Context, externalID string) (domain.Article, error)

	// UpdateAnalysis writes score and summary for one article and touches
	// nothing else.
	UpdateAnalysis(ctx context.Context, id int64, score int, summary string) error

	// SaveReportSummary records the narrative for a report date,
	// replacing any prior row for the same date.
	SaveReportSummary(ctx context.Context, date, summary string) error

	// Reset drops all stored articles and report summaries.
	Reset(ctx context.Context) error
}

// Analyzer scores one article against the configured interest profile.
// Backend failures are absorbed into the returned Analysis as placeholder
// text; analyzing one article never aborts a batch.
type Analyzer interface {
	Analyze(ctx context.Context, article domain.Article) domain.Analysis
}

// ModelClient is the language-model backend protocol: one user-role prompt
// in, generated text out. No streaming, no multi-turn state.
type ModelClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReportStore aggregates scored articles into dated report artifacts.
type ReportStore interface {
	// Generate filters, sorts and summarizes the articles for the given
	// date and persists the result, fully replacing any prior artifact
	// for that date.
	Generate(articles []domain.Article, date string) (domain.Report, error)

	Get(date string) (domain.Report, error)

	// List returns all known report dates, newest first.
	List() ([]string, error)

	// RemoveAll deletes every report artifact; part of the explicit reset
	// operation.
	RemoveAll() error
}

// SiteRenderer projects report artifacts into a static HTML site.
type SiteRenderer interface {
	Render(reports []domain.Report) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"journalwatch/internal/domain"
	"journalwatch/internal/ports"
	"journalwatch/internal/reports"
)

// Progress reports incremental completion of a long-running stage. It is a
// UI concern only; correctness never depends on it.
type Progress func(stage string, done, total int)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source       ports.ArticleSource
	Store        ports.ArticleStore
	Analyzer     ports.Analyzer
	Reports      ports.ReportStore
	Site         ports.SiteRenderer
	MinRelevance int
	Logger       *slog.Logger
	Progress     Progress
}

// Pipeline implements the sequential ingestion-and-relevance workflow:
// fetch, dedup-persist, analyze, aggregate, render. Sources are fetched one
// at a time and articles analyzed one at a time; cancellation between steps
// simply leaves remaining work for the next run.
type Pipeline struct {
	source       ports.ArticleSource
	store        ports.ArticleStore
	analyzer     ports.Analyzer
	reports      ports.ReportStore
	site         ports.SiteRenderer
	minRelevance int
	logger       *slog.Logger
	progress     Progress
	nowFunc      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:       deps.Source,
		store:        deps.Store,
		analyzer:     deps.Analyzer,
		reports:      deps.Reports,
		site:         deps.Site,
		minRelevance: deps.MinRelevance,
		logger:       deps.Logger,
		progress:     deps.Progress,
		nowFunc:      time.Now,
	}
}

// FetchResult counts one fetch pass. Duplicates are successes, not errors;
// they are reported separately so callers can show accurate counts.
type FetchResult struct {
	Fetched    int
	Inserted   int
	Duplicates int
}

// Fetch pulls every configured source and persists new articles.
func (p *Pipeline) Fetch(ctx context.Context) (FetchResult, error) {
	articles, err := p.source.FetchLatest(ctx)
	if err != nil {
		return FetchResult{}, fmt.Errorf("fetch sources: %w", err)
	}

	result := FetchResult{Fetched: len(articles)}
	for i, article := range articles {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		// Adapters guarantee these, but a malformed item must never reach
		// the uniqueness constraints.
		if strings.TrimSpace(article.Title) == "" || article.ExternalID == "" {
			continue
		}

		inserted, err := p.store.Upsert(ctx, article)
		if err != nil {
			return result, fmt.Errorf("persist article %q: %w", article.Title, err)
		}
		if inserted {
			result.Inserted++
		} else {
			result.Duplicates++
		}
		p.report("fetch", i+1, len(articles))
	}

	p.info("fetch complete",
		"fetched", result.Fetched, "new", result.Inserted, "duplicates", result.Duplicates)
	return result, nil
}

// Analyze scores every unscored article. Per-article failures are embedded
// into the stored summary by the analyzer; only storage errors propagate.
func (p *Pipeline) Analyze(ctx context.Context) (int, error) {
	unscored, err := p.store.Unscored(ctx)
	if err != nil {
		return 0, fmt.Errorf("load unscored articles: %w", err)
	}
	return p.AnalyzeArticles(ctx, unscored)
}

// AnalyzeArticles runs the analyzer over an explicit article list; used by
// Analyze and by reanalysis of already-scored articles.
func (p *Pipeline) AnalyzeArticles(ctx context.Context, articles []domain.Article) (int, error) {
	analyzed := 0
	for i, article := range articles {
		if err := ctx.Err(); err != nil {
			return analyzed, err
		}

		analysis := p.analyzer.Analyze(ctx, article)
		if analysis.Outcome == domain.OutcomeExtractionFailed {
			// The stored zero is an artifact; the log line is the
			// operator's audit trail for it.
			p.warn("score extraction failed", "id", article.ID, "title", article.Title)
		}

		if err := p.store.UpdateAnalysis(ctx, article.ID, analysis.Score, analysis.Summary); err != nil {
			return analyzed, fmt.Errorf("store analysis for article %d: %w", article.ID, err)
		}
		analyzed++
		p.report("analyze", i+1, len(articles))
	}

	p.info("analysis complete", "analyzed", analyzed)
	return analyzed, nil
}

// Report aggregates the given calendar day into a persisted report
// artifact and mirrors the narrative into the store.
func (p *Pipeline) Report(ctx context.Context, day time.Time) (domain.Report, error) {
	date := day.Format("2006-01-02")

	articles, err := p.store.ByDate(ctx, day, p.minRelevance)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load articles for %s: %w", date, err)
	}

	report, err := p.reports.Generate(articles, date)
	if err != nil {
		return domain.Report{}, fmt.Errorf("generate report for %s: %w", date, err)
	}

	if err := p.store.SaveReportSummary(ctx, date, report.Summary); err != nil {
		return domain.Report{}, fmt.Errorf("save report summary for %s: %w", date, err)
	}

	p.info("report generated", "date", date, "articles", len(report.Articles))
	return report, nil
}

// RenderSite projects all persisted reports into the static site.
func (p *Pipeline) RenderSite(ctx context.Context) error {
	dates, err := p.reports.List()
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	all := make([]domain.Report, 0, len(dates))
	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return err
		}
		report, err := p.reports.Get(date)
		if err != nil {
			if errors.Is(err, reports.ErrNotFound) {
				continue
			}
			return fmt.Errorf("load report %s: %w", date, err)
		}
		all = append(all, report)
	}

	if err := p.site.Render(all); err != nil {
		return fmt.Errorf("render site: %w", err)
	}

	p.info("site rendered", "reports", len(all))
	return nil
}

// Run executes the full workflow for the current day.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := p.Fetch(ctx); err != nil {
		return err
	}
	if _, err := p.Analyze(ctx); err != nil {
		return err
	}
	if _, err := p.Report(ctx, p.nowFunc()); err != nil {
		return err
	}
	return p.RenderSite(ctx)
}

// Reset wipes the article store and every report artifact.
func (p *Pipeline) Reset(ctx context.Context) error {
	if err := p.store.Reset(ctx); err != nil {
		return err
	}
	return p.reports.RemoveAll()
}

func (p *Pipeline) report(stage string, done, total int) {
	if p.progress != nil {
		p.progress(stage, done, total)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

package source

import (
	"context"
	"log/slog"
	"time"

	"journalwatch/internal/config"
	"journalwatch/internal/domain"
	"journalwatch/internal/ports"
)

// MultiSource implements ports.ArticleSource by fanning the configured
// source descriptors out to registered adapter strategies. A failing source
// contributes zero articles and the batch continues; only the per-source
// error is logged.
type MultiSource struct {
	registry *Registry
	cfg      config.Config
	logger   *slog.Logger
	nowFunc  func() time.Time

	// Progress, when set, is invoked after each source finishes.
	Progress func(done, total int, name string)
}

var _ ports.ArticleSource = (*MultiSource)(nil)

// NewMultiSource wires the adapter registry with config-defined sources.
func NewMultiSource(reg *Registry, cfg config.Config, log *slog.Logger) *MultiSource {
	return &MultiSource{
		registry: reg,
		cfg:      cfg,
		logger:   log,
		nowFunc:  time.Now,
	}
}

// FetchLatest iterates over configured sources sequentially and aggregates
// their normalized articles.
func (s *MultiSource) FetchLatest(ctx context.Context) ([]domain.Article, error) {
	now := s.nowFunc()
	total := len(s.cfg.Feeds)
	s.debug("fetch latest", "sources", total)

	var aggregated []domain.Article
	for i, src := range s.cfg.Feeds {
		if err := ctx.Err(); err != nil {
			return aggregated, err
		}

		articles := s.fetchOne(ctx, now, src)
		for j := range articles {
			if articles[j].Journal == "" {
				articles[j].Journal = src.Name
			}
			articles[j].ProcessedAt = now
		}
		aggregated = append(aggregated, articles...)

		if s.Progress != nil {
			s.Progress(i+1, total, src.Name)
		}
	}

	s.debug("fetch latest done", "total_articles", len(aggregated))
	return aggregated, nil
}

func (s *MultiSource) fetchOne(ctx context.Context, now time.Time, src config.SourceConfig) []domain.Article {
	adapter, err := s.registry.Resolve(src.Type)
	if err != nil {
		s.warn("skipping source", "source", src.Name, "error", err)
		return nil
	}

	req := Request{
		Now:      now,
		Name:     src.Name,
		ISSN:     src.ISSN,
		URL:      src.URL,
		Lookback: time.Duration(s.cfg.LookbackDays(src)) * 24 * time.Hour,
	}

	articles, err := adapter.Fetch(ctx, req)
	if err != nil {
		s.warn("source fetch failed", "source", src.Name, "type", src.Type, "error", err)
		return nil
	}

	s.debug("source produced articles", "source", src.Name, "count", len(articles))
	return articles
}

func (s *MultiSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *MultiSource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

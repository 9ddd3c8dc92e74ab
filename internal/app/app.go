package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"journalwatch/internal/config"
	"journalwatch/internal/infrastructure/crossref"
	"journalwatch/internal/infrastructure/llm"
	"journalwatch/internal/infrastructure/rss"
	"journalwatch/internal/infrastructure/storage"
	"journalwatch/internal/logging"
	"journalwatch/internal/reports"
	"journalwatch/internal/source"
	"journalwatch/internal/usecase"
	"journalwatch/internal/web"
)

// Application wires configuration to adapters and the pipeline use case.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	store    *storage.SQLiteRepository
	reports  *reports.Generator
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance. A nil logger falls back to
// the configured level; a nil progress callback disables progress output.
func New(cfg config.Config, baseLogger *slog.Logger, progress usecase.Progress) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	registry := source.NewRegistry()
	registry.Register(crossref.NewAdapter(httpClient))
	registry.Register(rss.NewAdapter(httpClient))

	src := source.NewMultiSource(registry, cfg, baseLogger.With("component", "source"))

	client := llm.NewOllamaClient(cfg.Model)
	analyzer := llm.NewAnalyzer(client, cfg.RelevancePrompt(), cfg.SummaryPrompt(),
		baseLogger.With("component", "analyzer"))

	generator := reports.NewGenerator(cfg.ReportsPath(), cfg.Reports.MinRelevance)

	renderer, err := web.NewRenderer(cfg.SitePath(), cfg.Site.Title)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build site renderer: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:       src,
		Store:        store,
		Analyzer:     analyzer,
		Reports:      generator,
		Site:         renderer,
		MinRelevance: cfg.Reports.MinRelevance,
		Logger:       baseLogger.With("component", "pipeline"),
		Progress:     progress,
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		store:    store,
		reports:  generator,
		pipeline: pipeline,
	}, nil
}

// Close releases the application's resources.
func (a *Application) Close() error {
	return a.store.Close()
}

// Config returns the effective configuration.
func (a *Application) Config() config.Config { return a.cfg }

// Logger returns the base logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Store exposes the article store for read-side commands.
func (a *Application) Store() *storage.SQLiteRepository { return a.store }

// Reports exposes the report store for read-side commands.
func (a *Application) Reports() *reports.Generator { return a.reports }

// Pipeline exposes the orchestration use case.
func (a *Application) Pipeline() *usecase.Pipeline { return a.pipeline }

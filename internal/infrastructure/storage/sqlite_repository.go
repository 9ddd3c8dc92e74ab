package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"journalwatch/internal/domain"
	"journalwatch/internal/ports"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("article not found")

var articleColumns = []string{
	"id", "journal", "title", "abstract", "url", "pub_date",
	"external_id", "processed_at", "relevance_score", "summary",
}

// SQLiteRepository persists articles and report summaries into SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ArticleStore = (*SQLiteRepository)(nil)

// Open creates the database file (and its directory) if needed and ensures
// the schema exists. Schema creation is idempotent.
func Open(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.createSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *SQLiteRepository) createSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		journal TEXT NOT NULL,
		title TEXT NOT NULL,
		abstract TEXT,
		url TEXT,
		pub_date TEXT,
		external_id TEXT UNIQUE,
		processed_at TEXT,
		relevance_score INTEGER,
		summary TEXT,
		UNIQUE(journal, title)
	);
	CREATE TABLE IF NOT EXISTS daily_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT UNIQUE,
		summary TEXT,
		created_at TEXT
	);`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Upsert inserts the article; a collision on either uniqueness constraint
// is the dedup signal and reports inserted=false without an error.
func (r *SQLiteRepository) Upsert(ctx context.Context, article domain.Article) (bool, error) {
	query, args, err := sq.Insert("articles").
		Columns("journal", "title", "abstract", "url", "pub_date", "external_id", "processed_at").
		Values(
			article.Journal,
			article.Title,
			article.Abstract,
			article.URL,
			article.PublishedAt.UTC().Format(time.RFC3339),
			article.ExternalID,
			article.ProcessedAt.UTC().Format(time.RFC3339),
		).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build upsert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("upsert article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert rows affected: %w", err)
	}
	return affected > 0, nil
}

// All returns every stored article in insertion order.
func (r *SQLiteRepository) All(ctx context.Context) ([]domain.Article, error) {
	builder := sq.Select(articleColumns...).From("articles").OrderBy("id")
	return r.queryArticles(ctx, builder)
}

// Unscored returns every article not yet analyzed.
func (r *SQLiteRepository) Unscored(ctx context.Context) ([]domain.Article, error) {
	builder := sq.Select(articleColumns...).
		From("articles").
		Where("relevance_score IS NULL").
		OrderBy("id")
	return r.queryArticles(ctx, builder)
}

// ByDate returns articles processed on the given calendar day, unscored or
// at least minScore, best scores first with unscored rows last.
func (r *SQLiteRepository) ByDate(ctx context.Context, day time.Time, minScore int) ([]domain.Article, error) {
	builder := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Expr("date(processed_at) = ?", day.Format("2006-01-02"))).
		Where(sq.Expr("(relevance_score IS NULL OR relevance_score >= ?)", minScore)).
		OrderBy(
			"CASE WHEN relevance_score IS NULL THEN 1 ELSE 0 END",
			"relevance_score DESC",
		)
	return r.queryArticles(ctx, builder)
}

// Recent returns articles processed within the last N days, same filter and
// order as ByDate with publication date as tiebreaker.
func (r *SQLiteRepository) Recent(ctx context.Context, days, minScore int) ([]domain.Article, error) {
	builder := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Expr("date(processed_at) >= date('now', ?)", fmt.Sprintf("-%d days", days))).
		Where(sq.Expr("(relevance_score IS NULL OR relevance_score >= ?)", minScore)).
		OrderBy(
			"CASE WHEN relevance_score IS NULL THEN 1 ELSE 0 END",
			"relevance_score DESC",
			"pub_date DESC",
		)
	return r.queryArticles(ctx, builder)
}

// Get fetches one article by its row id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (domain.Article, error) {
	builder := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id})
	return r.queryOne(ctx, builder)
}

// GetByExternalID fetches one article by its external identifier.
func (r *SQLiteRepository) GetByExternalID(ctx context.Context, externalID string) (domain.Article, error) {
	builder := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"external_id": externalID})
	return r.queryOne(ctx, builder)
}

// UpdateAnalysis writes score and summary for one article, touching no
// other columns.
func (r *SQLiteRepository) UpdateAnalysis(ctx context.Context, id int64, score int, summary string) error {
	query, args, err := sq.Update("articles").
		Set("relevance_score", score).
		Set("summary", summary).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build analysis update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update analysis for article %d: %w", id, err)
	}
	return nil
}

// SaveReportSummary records the narrative for a report date; regenerating
// replaces the prior row.
func (r *SQLiteRepository) SaveReportSummary(ctx context.Context, date, summary string) error {
	query, args, err := sq.Insert("daily_reports").
		Columns("date", "summary", "created_at").
		Values(date, summary, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(date) DO UPDATE SET summary = excluded.summary, created_at = excluded.created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build report summary upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save report summary for %s: %w", date, err)
	}
	return nil
}

// Reset drops all stored articles and report summaries.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}

	for _, table := range []string{"articles", "daily_reports"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) queryArticles(ctx context.Context, builder sq.SelectBuilder) ([]domain.Article, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return articles, nil
}

func (r *SQLiteRepository) queryOne(ctx context.Context, builder sq.SelectBuilder) (domain.Article, error) {
	articles, err := r.queryArticles(ctx, builder)
	if err != nil {
		return domain.Article{}, err
	}
	if len(articles) == 0 {
		return domain.Article{}, ErrNotFound
	}
	return articles[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (domain.Article, error) {
	var (
		article     domain.Article
		pubDate     sql.NullString
		processedAt sql.NullString
		score       sql.NullInt64
		summary     sql.NullString
	)

	err := row.Scan(
		&article.ID,
		&article.Journal,
		&article.Title,
		&article.Abstract,
		&article.URL,
		&pubDate,
		&article.ExternalID,
		&processedAt,
		&score,
		&summary,
	)
	if err != nil {
		return domain.Article{}, fmt.Errorf("scan article: %w", err)
	}

	article.PublishedAt = parseTime(pubDate)
	article.ProcessedAt = parseTime(processedAt)
	if score.Valid {
		value := int(score.Int64)
		article.RelevanceScore = &value
	}
	if summary.Valid {
		article.Summary = &summary.String
	}

	return article, nil
}

func parseTime(value sql.NullString) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, value.String)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

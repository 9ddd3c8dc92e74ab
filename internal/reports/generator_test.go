package reports

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journalwatch/internal/domain"
)

func newTestGenerator(t *testing.T, minRelevance int) *Generator {
	t.Helper()
	gen := NewGenerator(t.TempDir(), minRelevance)
	gen.nowFunc = func() time.Time {
		return time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
	}
	return gen
}

func scored(title string, score int, summary string) domain.Article {
	return domain.Article{
		Journal:        "JGR Oceans",
		Title:          title,
		RelevanceScore: &score,
		Summary:        &summary,
	}
}

func TestGenerateFiltersAndSorts(t *testing.T) {
	gen := newTestGenerator(t, 5)

	articles := []domain.Article{
		scored("Mid", 6, "brief"),
		scored("Top", 9, "## Summary\ndetailed"),
		scored("Below threshold", 3, "low"),
		{Journal: "JGR Oceans", Title: "Never analyzed"},
	}

	report, err := gen.Generate(articles, "2026-03-10")
	require.NoError(t, err)

	require.Len(t, report.Articles, 2)
	assert.Equal(t, "Top", report.Articles[0].Title)
	assert.Equal(t, "Mid", report.Articles[1].Title)
	assert.Equal(t, "2026-03-10", report.Date)

	assert.Contains(t, report.Summary, "Found 2 publications with relevance score >= 5 for 2026-03-10.")
	assert.Contains(t, report.Summary, "### 1. Top")
	assert.Contains(t, report.Summary, "### 2. Mid")
	assert.Contains(t, report.Summary, "**Journal:** JGR Oceans | **Relevance:** 9/10")
	// Plain summaries get an analysis heading; markdown ones keep their own.
	assert.Contains(t, report.Summary, "#### Analysis\nbrief")
	assert.Contains(t, report.Summary, "## Summary\ndetailed")
}

func TestGenerateEmptyDay(t *testing.T) {
	gen := newTestGenerator(t, 5)

	report, err := gen.Generate(nil, "2026-03-10")
	require.NoError(t, err)

	assert.Empty(t, report.Articles)
	assert.Contains(t, report.Summary, "No publications with relevance score >= 5 found for 2026-03-10.")
}

func TestGenerateRoundTripsThroughGet(t *testing.T) {
	gen := newTestGenerator(t, 5)

	written, err := gen.Generate([]domain.Article{scored("Paper", 8, "text")}, "2026-03-10")
	require.NoError(t, err)

	read, err := gen.Get("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, written.Date, read.Date)
	assert.Equal(t, written.Summary, read.Summary)
	require.Len(t, read.Articles, 1)
	assert.Equal(t, "Paper", read.Articles[0].Title)
}

func TestGenerateReplacesExistingArtifact(t *testing.T) {
	gen := newTestGenerator(t, 5)

	_, err := gen.Generate([]domain.Article{scored("Old", 8, "old")}, "2026-03-10")
	require.NoError(t, err)
	_, err = gen.Generate([]domain.Article{scored("New", 8, "new")}, "2026-03-10")
	require.NoError(t, err)

	report, err := gen.Get("2026-03-10")
	require.NoError(t, err)
	require.Len(t, report.Articles, 1)
	assert.Equal(t, "New", report.Articles[0].Title)

	dates, err := gen.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-10"}, dates)
}

func TestGetMissingReport(t *testing.T) {
	gen := newTestGenerator(t, 5)

	_, err := gen.Get("1999-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListNewestFirst(t *testing.T) {
	gen := newTestGenerator(t, 5)

	for _, date := range []string{"2026-03-08", "2026-03-10", "2026-03-09"} {
		_, err := gen.Generate(nil, date)
		require.NoError(t, err)
	}

	dates, err := gen.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-10", "2026-03-09", "2026-03-08"}, dates)
}

func TestListIgnoresForeignFiles(t *testing.T) {
	gen := newTestGenerator(t, 5)
	require.NoError(t, os.WriteFile(filepath.Join(gen.path, "notes.txt"), []byte("x"), 0o644))

	dates, err := gen.List()
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestListMissingDirectory(t *testing.T) {
	gen := NewGenerator(filepath.Join(t.TempDir(), "never-created"), 5)

	dates, err := gen.List()
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestRemoveAll(t *testing.T) {
	gen := newTestGenerator(t, 5)

	for _, date := range []string{"2026-03-09", "2026-03-10"} {
		_, err := gen.Generate(nil, date)
		require.NoError(t, err)
	}

	require.NoError(t, gen.RemoveAll())

	dates, err := gen.List()
	require.NoError(t, err)
	assert.Empty(t, dates)
}

package web

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journalwatch/internal/domain"
)

func renderTo(t *testing.T, reports []domain.Report) string {
	t.Helper()
	dir := t.TempDir()
	renderer, err := NewRenderer(dir, "Journal Watch")
	require.NoError(t, err)
	require.NoError(t, renderer.Render(reports))
	return dir
}

func readPage(t *testing.T, dir, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(raw)
}

func TestRenderEmptyShowsPlaceholder(t *testing.T) {
	dir := renderTo(t, nil)

	index := readPage(t, dir, "index.html")
	assert.Contains(t, index, "Journal Watch")
	assert.Contains(t, index, "No reports available yet")

	_, err := os.Stat(filepath.Join(dir, "assets", "styles.css"))
	assert.NoError(t, err)
}

func TestRenderWritesIndexAndReportPages(t *testing.T) {
	score := 8
	summary := "## Summary\nKey findings."
	reports := []domain.Report{
		{
			Date:        "2026-03-09",
			GeneratedAt: time.Now(),
			Summary:     "Found 1 publications with relevance score >= 5 for 2026-03-09.",
			Articles: []domain.Article{{
				Journal:        "JGR Oceans",
				Title:          "Abyssal mixing rates",
				Abstract:       "We estimate mixing.",
				URL:            "https://doi.org/10.1029/test",
				RelevanceScore: &score,
				Summary:        &summary,
			}},
		},
		{Date: "2026-03-10", GeneratedAt: time.Now(), Summary: "Nothing today."},
	}

	dir := renderTo(t, reports)

	index := readPage(t, dir, "index.html")
	assert.Contains(t, index, "report_2026-03-09.html")
	assert.Contains(t, index, "report_2026-03-10.html")
	assert.Contains(t, index, "March 9, 2026")
	// Newest report is listed first.
	assert.Less(t,
		strings.Index(index, "report_2026-03-10.html"),
		strings.Index(index, "report_2026-03-09.html"))

	page := readPage(t, dir, "report_2026-03-09.html")
	assert.Contains(t, page, "Report for March 9, 2026")
	assert.Contains(t, page, "Abyssal mixing rates")
	assert.Contains(t, page, "https://doi.org/10.1029/test")
	assert.Contains(t, page, "8/10")
	assert.Contains(t, page, "Key findings.")

	emptyPage := readPage(t, dir, "report_2026-03-10.html")
	assert.Contains(t, emptyPage, "No articles met the relevance threshold")
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "March 9, 2026", displayDate("2026-03-09"))
	assert.Equal(t, "not-a-date", displayDate("not-a-date"))
}

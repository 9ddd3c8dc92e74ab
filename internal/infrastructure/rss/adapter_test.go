package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journalwatch/internal/source"
)

var testNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Ocean Letters</title>
  <item>
    <title>Internal tide energetics on the continental slope</title>
    <link>https://example.org/articles/101</link>
    <guid>example-101</guid>
    <pubDate>Mon, 09 Mar 2026 10:00:00 GMT</pubDate>
    <description>We quantify internal tide energy fluxes along the slope using a year of mooring observations.</description>
  </item>
  <item>
    <title>Stale entry outside the window</title>
    <link>https://example.org/articles/55</link>
    <guid>example-55</guid>
    <pubDate>Sun, 01 Feb 2026 10:00:00 GMT</pubDate>
    <description>Old enough to fall outside any reasonable lookback window here.</description>
  </item>
  <item>
    <title>Issue Information</title>
    <link>https://example.org/issues/12</link>
    <guid>example-issue</guid>
    <pubDate>Mon, 09 Mar 2026 10:00:00 GMT</pubDate>
    <description>Volume 4, Issue 12</description>
  </item>
</channel>
</rss>`

func TestFetchParsesAndFiltersFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	t.Cleanup(server.Close)

	adapter := NewAdapter(server.Client())
	articles, err := adapter.Fetch(context.Background(), source.Request{
		Now:      testNow,
		Name:     "Ocean Letters",
		URL:      server.URL,
		Lookback: 10 * 24 * time.Hour,
	})
	require.NoError(t, err)

	require.Len(t, articles, 1)
	got := articles[0]
	assert.Equal(t, "Ocean Letters", got.Journal)
	assert.Equal(t, "Internal tide energetics on the continental slope", got.Title)
	assert.Equal(t, "example-101", got.ExternalID)
	assert.Equal(t, "https://example.org/articles/101", got.URL)
	assert.Contains(t, got.Abstract, "internal tide energy fluxes")
}

func TestFetchRequiresURL(t *testing.T) {
	_, err := NewAdapter(nil).Fetch(context.Background(), source.Request{Name: "No URL"})
	assert.Error(t, err)
}

func TestExtractArticleIdentifierFallback(t *testing.T) {
	req := source.Request{Now: testNow, Name: "Ocean Letters"}

	withGUID := &gofeed.Item{
		Title:       "With GUID",
		GUID:        "guid-1",
		Link:        "https://example.org/1",
		Description: "A sufficiently long description that stands in for the abstract text here.",
	}
	article, ok := extractArticle(withGUID, req)
	require.True(t, ok)
	assert.Equal(t, "guid-1", article.ExternalID)

	withoutGUID := &gofeed.Item{
		Title:       "Link only",
		Link:        "https://example.org/2",
		Description: "A sufficiently long description that stands in for the abstract text here.",
	}
	article, ok = extractArticle(withoutGUID, req)
	require.True(t, ok)
	assert.Equal(t, "https://example.org/2", article.ExternalID)

	_, ok = extractArticle(&gofeed.Item{Title: "No identifier at all"}, req)
	assert.False(t, ok)
}

func TestExtractArticleDropsAbstractlessIssueEntries(t *testing.T) {
	req := source.Request{Now: testNow, Name: "Ocean Letters"}

	item := &gofeed.Item{
		Title: "Special issue on coastal dynamics",
		GUID:  "issue-guid",
		Link:  "https://example.org/special",
	}
	_, ok := extractArticle(item, req)
	assert.False(t, ok)
}

func TestPublishedAtFallbackChain(t *testing.T) {
	published := time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, published, publishedAt(&gofeed.Item{PublishedParsed: &published, UpdatedParsed: &updated}, testNow))
	assert.Equal(t, updated, publishedAt(&gofeed.Item{UpdatedParsed: &updated}, testNow))
	assert.Equal(t, testNow, publishedAt(&gofeed.Item{}, testNow))
}

func TestUndatedEntriesSurviveWindowCheck(t *testing.T) {
	req := source.Request{Now: testNow, Name: "Ocean Letters", Lookback: 24 * time.Hour}

	item := &gofeed.Item{
		Title:       "Recent but undated",
		GUID:        "undated",
		Link:        "https://example.org/undated",
		Description: "A sufficiently long description that stands in for the abstract text here.",
	}
	article, ok := extractArticle(item, req)
	require.True(t, ok)
	assert.False(t, article.PublishedAt.Before(testNow.Add(-req.Lookback)))
}

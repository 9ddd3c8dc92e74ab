package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"journalwatch/internal/domain"
	"journalwatch/internal/source"
)

const defaultBaseURL = "https://api.crossref.org/works"

// Adapter fetches publications from the CrossRef works API for sources
// identified by ISSN.
type Adapter struct {
	client  *http.Client
	baseURL string
	rows    int
}

var _ source.Adapter = (*Adapter)(nil)

// NewAdapter wires an HTTP client; rows defaults to 100.
func NewAdapter(client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Adapter{client: client, baseURL: defaultBaseURL, rows: 100}
}

// Name identifies the strategy inside the registry.
func (a *Adapter) Name() string {
	return "crossref"
}

type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

type workItem struct {
	DOI       string   `json:"DOI"`
	Title     []string `json:"title"`
	Abstract  string   `json:"abstract"`
	Published struct {
		DateParts [][]int `json:"date-parts"`
	} `json:"published"`
}

// Fetch queries works published within the lookback window and normalizes
// each usable item into an Article.
func (a *Adapter) Fetch(ctx context.Context, req source.Request) ([]domain.Article, error) {
	if req.ISSN == "" {
		return nil, fmt.Errorf("source %s: no ISSN configured", req.Name)
	}

	fromDate := req.Now.Add(-req.Lookback).Format("2006-01-02")
	endpoint, err := a.buildURL(req.ISSN, fromDate)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "journalwatch/1.0 (mailto:ops@journalwatch.local)")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query works: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref returned %s", resp.Status)
	}

	var works worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&works); err != nil {
		return nil, fmt.Errorf("decode works response: %w", err)
	}

	articles := make([]domain.Article, 0, len(works.Message.Items))
	for _, item := range works.Message.Items {
		if article, ok := a.extractArticle(item, req); ok {
			articles = append(articles, article)
		}
	}

	return articles, nil
}

func (a *Adapter) buildURL(issn, fromDate string) (string, error) {
	parsed, err := url.Parse(a.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid crossref base url %s: %w", a.baseURL, err)
	}

	query := parsed.Query()
	query.Set("filter", fmt.Sprintf("issn:%s,from-pub-date:%s,has-abstract:true", issn, fromDate))
	query.Set("select", "DOI,title,abstract,published")
	query.Set("sort", "published")
	query.Set("order", "desc")
	query.Set("rows", fmt.Sprintf("%d", a.rows))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// extractArticle normalizes one API item. Items without a DOI or title are
// dropped silently, as are non-research boilerplate entries.
func (a *Adapter) extractArticle(item workItem, req source.Request) (domain.Article, bool) {
	if item.DOI == "" {
		return domain.Article{}, false
	}

	var title string
	if len(item.Title) > 0 {
		title = strings.TrimSpace(item.Title[0])
	}
	if title == "" || source.NonResearchTitle(title) {
		return domain.Article{}, false
	}

	var parts []int
	if len(item.Published.DateParts) > 0 {
		parts = item.Published.DateParts[0]
	}

	return domain.Article{
		Journal:     req.Name,
		Title:       title,
		Abstract:    strings.TrimSpace(item.Abstract),
		URL:         "https://doi.org/" + item.DOI,
		PublishedAt: dateFromParts(parts, req.Now),
		ExternalID:  "crossref-" + item.DOI,
	}, true
}

// dateFromParts resolves a partial-precision date. Three parts give the
// exact day, two the first of the month, one the first of January. Missing
// or invalid parts fall back to the ingestion time; partial dates are never
// treated as errors.
func dateFromParts(parts []int, fallback time.Time) time.Time {
	switch {
	case len(parts) >= 3:
		return time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC)
	case len(parts) == 2:
		return time.Date(parts[0], time.Month(parts[1]), 1, 0, 0, 0, 0, time.UTC)
	case len(parts) == 1:
		return time.Date(parts[0], time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return fallback
	}
}

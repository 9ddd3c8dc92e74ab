package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"journalwatch/internal/domain"
	"journalwatch/internal/ports"
)

// ErrNotFound is returned when no report artifact exists for a date.
var ErrNotFound = errors.New("report not found")

// Generator aggregates scored articles into dated report artifacts stored
// as one JSON file per date.
type Generator struct {
	path         string
	minRelevance int
	nowFunc      func() time.Time
}

var _ ports.ReportStore = (*Generator)(nil)

// NewGenerator wires the artifact directory and relevance threshold.
func NewGenerator(path string, minRelevance int) *Generator {
	return &Generator{
		path:         path,
		minRelevance: minRelevance,
		nowFunc:      time.Now,
	}
}

// Generate filters the input to the relevance threshold, sorts best-first,
// builds the narrative summary and persists the artifact. A second call for
// the same date fully replaces the prior artifact.
func (g *Generator) Generate(articles []domain.Article, date string) (domain.Report, error) {
	relevant := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		if article.Scored() && article.Score() >= g.minRelevance {
			relevant = append(relevant, article)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Score() > relevant[j].Score()
	})

	report := domain.Report{
		Date:        date,
		GeneratedAt: g.nowFunc().UTC(),
		Summary:     g.buildSummary(relevant, date),
		Articles:    relevant,
	}

	if err := g.save(report); err != nil {
		return domain.Report{}, err
	}
	return report, nil
}

// buildSummary produces the narrative: an overview line followed by a
// numbered per-article breakdown.
func (g *Generator) buildSummary(articles []domain.Article, date string) string {
	if len(articles) == 0 {
		return fmt.Sprintf(
			"No publications with relevance score >= %d found for %s.\n\n"+
				"Consider adjusting the minimum relevance threshold in the configuration if needed.\n",
			g.minRelevance, date)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d publications with relevance score >= %d for %s.\n",
		len(articles), g.minRelevance, date)

	for i, article := range articles {
		fmt.Fprintf(&b, "\n### %d. %s\n", i+1, article.Title)
		fmt.Fprintf(&b, "**Journal:** %s | **Relevance:** %d/10\n", article.Journal, article.Score())
		if article.Summary != nil && *article.Summary != "" {
			analysis := *article.Summary
			if !strings.HasPrefix(analysis, "##") {
				analysis = "#### Analysis\n" + analysis
			}
			b.WriteString("\n" + analysis + "\n")
		}
	}

	return b.String()
}

// save writes the artifact atomically: marshal to a temp file in the same
// directory, then rename over the final path so readers never observe a
// partial report.
func (g *Generator) save(report domain.Report) error {
	if err := os.MkdirAll(g.path, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", report.Date, err)
	}

	final := g.artifactPath(report.Date)
	tmp, err := os.CreateTemp(g.path, "report_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write report %s: %w", report.Date, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close temp report: %w", err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace report %s: %w", report.Date, err)
	}
	return nil
}

// Get loads a previously generated report.
func (g *Generator) Get(date string) (domain.Report, error) {
	raw, err := os.ReadFile(g.artifactPath(date))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Report{}, ErrNotFound
		}
		return domain.Report{}, fmt.Errorf("read report %s: %w", date, err)
	}

	var report domain.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.Report{}, fmt.Errorf("decode report %s: %w", date, err)
	}
	return report, nil
}

// List returns all known report dates, newest first.
func (g *Generator) List() ([]string, error) {
	entries, err := os.ReadDir(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list reports: %w", err)
	}

	var dates []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "report_") && strings.HasSuffix(name, ".json") {
			dates = append(dates, strings.TrimSuffix(strings.TrimPrefix(name, "report_"), ".json"))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// RemoveAll deletes every report artifact; used by the reset operation.
func (g *Generator) RemoveAll() error {
	dates, err := g.List()
	if err != nil {
		return err
	}
	for _, date := range dates {
		if err := os.Remove(g.artifactPath(date)); err != nil {
			return fmt.Errorf("remove report %s: %w", date, err)
		}
	}
	return nil
}

func (g *Generator) artifactPath(date string) string {
	return filepath.Join(g.path, fmt.Sprintf("report_%s.json", date))
}

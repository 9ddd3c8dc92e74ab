package web

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"journalwatch/internal/domain"
	"journalwatch/internal/ports"
)

//go:embed templates
var templateFS embed.FS

// Renderer projects report artifacts into a static, linkable HTML site:
// one index page plus one page per report date. It holds no analysis logic
// and never touches the store.
type Renderer struct {
	outputPath string
	title      string
	templates  *template.Template
}

var _ ports.SiteRenderer = (*Renderer)(nil)

// NewRenderer parses the embedded templates for the given output directory.
func NewRenderer(outputPath, title string) (*Renderer, error) {
	funcs := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	templates, err := template.New("site").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse site templates: %w", err)
	}

	return &Renderer{outputPath: outputPath, title: title, templates: templates}, nil
}

type indexEntry struct {
	Date         string
	DisplayDate  string
	ArticleCount int
}

type indexData struct {
	Title   string
	Reports []indexEntry
}

type reportData struct {
	Title       string
	DisplayDate string
	Report      domain.Report
}

// Render writes the whole site. With no reports the index still renders,
// with a placeholder instead of an empty page.
func (r *Renderer) Render(reports []domain.Report) error {
	if err := os.MkdirAll(filepath.Join(r.outputPath, "assets"), 0o755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}

	if err := r.writeAssets(); err != nil {
		return err
	}

	sorted := make([]domain.Report, len(reports))
	copy(sorted, reports)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	entries := make([]indexEntry, 0, len(sorted))
	for _, report := range sorted {
		entries = append(entries, indexEntry{
			Date:         report.Date,
			DisplayDate:  displayDate(report.Date),
			ArticleCount: len(report.Articles),
		})
	}

	if err := r.writePage("index.html", "index.html", indexData{Title: r.title, Reports: entries}); err != nil {
		return err
	}

	for _, report := range sorted {
		data := reportData{
			Title:       r.title,
			DisplayDate: displayDate(report.Date),
			Report:      report,
		}
		name := fmt.Sprintf("report_%s.html", report.Date)
		if err := r.writePage("report.html", name, data); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) writePage(templateName, fileName string, data any) error {
	file, err := os.Create(filepath.Join(r.outputPath, fileName))
	if err != nil {
		return fmt.Errorf("create %s: %w", fileName, err)
	}

	if err := r.templates.ExecuteTemplate(file, templateName, data); err != nil {
		_ = file.Close()
		return fmt.Errorf("render %s: %w", fileName, err)
	}
	return file.Close()
}

func (r *Renderer) writeAssets() error {
	css, err := templateFS.ReadFile("templates/styles.css")
	if err != nil {
		return fmt.Errorf("read embedded stylesheet: %w", err)
	}
	target := filepath.Join(r.outputPath, "assets", "styles.css")
	if err := os.WriteFile(target, css, 0o644); err != nil {
		return fmt.Errorf("write stylesheet: %w", err)
	}
	return nil
}

func displayDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("January 2, 2006")
}

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

const (
	configPathEnv = "JOURNALWATCH_CONFIG"
	reportsDirEnv = "JOURNALWATCH_REPORTS_DIR"
	siteDirEnv    = "JOURNALWATCH_SITE_DIR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Crossref  CrossrefConfig `yaml:"crossref"`
	Feeds     []SourceConfig `yaml:"feeds"`
	Interests []string       `yaml:"interests"`
	Model     ModelConfig    `yaml:"model"`
	Reports   ReportsConfig  `yaml:"reports"`
	Storage   StorageConfig  `yaml:"storage"`
	Site      SiteConfig     `yaml:"site"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// CrossrefConfig carries defaults shared by all CrossRef sources.
type CrossrefConfig struct {
	LookbackDays int `yaml:"lookback_days"`
}

// SourceConfig describes a single journal source and how to query it.
type SourceConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	ISSN string `yaml:"issn"`
	URL  string `yaml:"url"`
	// LookbackDays overrides the global lookback window for this source.
	LookbackDays int `yaml:"lookback_days"`
}

// ModelConfig describes the LLM backend and its prompt templates. Prompts
// may contain an {interests} placeholder.
type ModelConfig struct {
	Host            string `yaml:"host"`
	Name            string `yaml:"name"`
	RelevancePrompt string `yaml:"relevance_prompt"`
	SummaryPrompt   string `yaml:"summary_prompt"`
}

// ReportsConfig controls report generation.
type ReportsConfig struct {
	Path         string `yaml:"path"`
	MinRelevance int    `yaml:"min_relevance"`
}

// StorageConfig groups all on-disk locations.
type StorageConfig struct {
	Database string `yaml:"database"`
	Reports  string `yaml:"reports"`
	Site     string `yaml:"site"`
}

// SiteConfig customizes the generated static site.
type SiteConfig struct {
	Title string `yaml:"title"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds the effective configuration from the embedded defaults, the
// optional user document and the environment, in that order. It is a pure
// function of those three inputs; the only fatal path is the embedded
// default document itself failing to parse.
func Load() (Config, error) {
	path := os.Getenv(configPathEnv)
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "journalwatch", "config.yaml")
		}
	}
	return load(path)
}

func load(userPath string) (Config, error) {
	base := map[string]any{}
	if err := yaml.Unmarshal(defaultYAML, &base); err != nil {
		return Config{}, fmt.Errorf("parse built-in defaults: %w", err)
	}

	if userPath != "" {
		if raw, err := os.ReadFile(userPath); err == nil {
			user := map[string]any{}
			if err := yaml.Unmarshal(raw, &user); err != nil {
				return Config{}, fmt.Errorf("parse user config %s: %w", userPath, err)
			}
			base = deepMerge(base, user)
		}
	}

	merged, err := yaml.Marshal(base)
	if err != nil {
		return Config{}, fmt.Errorf("remarshal merged config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(merged, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode merged config: %w", err)
	}

	return cfg, nil
}

// deepMerge overlays override onto base: nested maps merge recursively,
// everything else (scalars, lists) replaces the base value wholesale.
func deepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if baseMap, ok := out[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				out[k] = deepMerge(baseMap, overrideMap)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// DatabasePath returns the expanded SQLite database location.
func (c Config) DatabasePath() string {
	return expandPath(c.Storage.Database)
}

// ReportsPath resolves the report artifact directory. Precedence: env
// override, then reports.path, then storage.reports.
func (c Config) ReportsPath() string {
	if v := os.Getenv(reportsDirEnv); v != "" {
		return expandPath(v)
	}
	if c.Reports.Path != "" {
		return expandPath(c.Reports.Path)
	}
	return expandPath(c.Storage.Reports)
}

// SitePath resolves the static site output directory. Precedence: env
// override, then storage.site.
func (c Config) SitePath() string {
	if v := os.Getenv(siteDirEnv); v != "" {
		return expandPath(v)
	}
	return expandPath(c.Storage.Site)
}

// RelevancePrompt returns the relevance prompt with the interest profile
// interpolated.
func (c Config) RelevancePrompt() string {
	return interpolate(c.Model.RelevancePrompt, c.Interests)
}

// SummaryPrompt returns the summary prompt with the interest profile
// interpolated.
func (c Config) SummaryPrompt() string {
	return interpolate(c.Model.SummaryPrompt, c.Interests)
}

// LookbackDays returns the effective lookback window for one source.
func (c Config) LookbackDays(src SourceConfig) int {
	if src.LookbackDays > 0 {
		return src.LookbackDays
	}
	if c.Crossref.LookbackDays > 0 {
		return c.Crossref.LookbackDays
	}
	return 10
}

func interpolate(prompt string, interests []string) string {
	return strings.ReplaceAll(prompt, "{interests}", strings.Join(interests, ", "))
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}

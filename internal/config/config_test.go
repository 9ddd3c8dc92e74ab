package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Crossref.LookbackDays)
	assert.NotEmpty(t, cfg.Feeds)
	assert.NotEmpty(t, cfg.Interests)
	assert.Equal(t, 5, cfg.Reports.MinRelevance)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Contains(t, cfg.Model.RelevancePrompt, "{interests}")
}

func TestLoadMissingUserFileFallsBackToDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Crossref.LookbackDays)
}

func TestLoadUserOverrideMergesNestedMaps(t *testing.T) {
	path := writeConfig(t, `
model:
  name: mistral
logging:
  level: debug
`)

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "mistral", cfg.Model.Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Sibling keys inside overridden maps keep their default values.
	assert.Equal(t, "http://localhost:11434", cfg.Model.Host)
	assert.NotEmpty(t, cfg.Model.RelevancePrompt)
}

func TestLoadUserOverrideReplacesLists(t *testing.T) {
	path := writeConfig(t, `
feeds:
  - name: Example Journal
    type: rss
    url: https://example.org/feed.xml
interests:
  - ocean heat content
`)

	cfg, err := load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Feeds, 1)
	assert.Equal(t, "Example Journal", cfg.Feeds[0].Name)
	assert.Equal(t, "rss", cfg.Feeds[0].Type)
	assert.Equal(t, []string{"ocean heat content"}, cfg.Interests)
}

func TestLoadInvalidUserYAMLFails(t *testing.T) {
	path := writeConfig(t, "feeds: [unclosed")

	_, err := load(path)
	assert.Error(t, err)
}

func TestLookbackDaysPrecedence(t *testing.T) {
	cfg := Config{Crossref: CrossrefConfig{LookbackDays: 14}}

	assert.Equal(t, 3, cfg.LookbackDays(SourceConfig{LookbackDays: 3}))
	assert.Equal(t, 14, cfg.LookbackDays(SourceConfig{}))

	assert.Equal(t, 10, Config{}.LookbackDays(SourceConfig{}))
}

func TestPromptInterpolation(t *testing.T) {
	cfg := Config{
		Interests: []string{"sea level", "ocean modeling"},
		Model: ModelConfig{
			RelevancePrompt: "Rate against: {interests}.",
			SummaryPrompt:   "Summarize for a reader interested in {interests}.",
		},
	}

	assert.Equal(t, "Rate against: sea level, ocean modeling.", cfg.RelevancePrompt())
	assert.Equal(t, "Summarize for a reader interested in sea level, ocean modeling.", cfg.SummaryPrompt())
}

func TestReportsPathPrecedence(t *testing.T) {
	cfg := Config{
		Reports: ReportsConfig{Path: "/configured/reports"},
		Storage: StorageConfig{Reports: "/storage/reports"},
	}

	t.Setenv(reportsDirEnv, "/env/reports")
	assert.Equal(t, "/env/reports", cfg.ReportsPath())

	t.Setenv(reportsDirEnv, "")
	assert.Equal(t, "/configured/reports", cfg.ReportsPath())

	cfg.Reports.Path = ""
	assert.Equal(t, "/storage/reports", cfg.ReportsPath())
}

func TestSitePathEnvOverride(t *testing.T) {
	cfg := Config{Storage: StorageConfig{Site: "/storage/site"}}

	t.Setenv(siteDirEnv, "/env/site")
	assert.Equal(t, "/env/site", cfg.SitePath())

	t.Setenv(siteDirEnv, "")
	assert.Equal(t, "/storage/site", cfg.SitePath())
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data"), expandPath("~/data"))
	assert.Equal(t, "/absolute/path", expandPath("/absolute/path"))
}

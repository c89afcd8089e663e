package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
llm:
  base_url: https://llm.example.com/v1
  model: test-model
search:
  provider: searxng
  searxng:
    base_url: http://localhost:8888
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LLM.Model != "test-model" {
		t.Errorf("LLM.Model = %q", cfg.LLM.Model)
	}
	if cfg.Workflow.MaxAttempts != 3 {
		t.Errorf("Workflow.MaxAttempts = %d, want 3", cfg.Workflow.MaxAttempts)
	}
	if cfg.Workflow.Policy != "continue" {
		t.Errorf("Workflow.Policy = %q, want continue", cfg.Workflow.Policy)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Concurrency.QPS != 1 {
		t.Errorf("Concurrency.QPS = %d, want 1", cfg.Concurrency.QPS)
	}
	if cfg.Workflow.RunTimeoutDuration() != 0 {
		t.Errorf("RunTimeoutDuration() = %v, want 0", cfg.Workflow.RunTimeoutDuration())
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/flow")
	t.Setenv("NEWS_API_KEY", "news-key")

	path := writeConfig(t, `
llm:
  api_key: file-key
workflow:
  max_attempts: 5
  policy: fail_fast
  run_timeout: 90
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Errorf("LLM.APIKey = %q, want env-key", cfg.LLM.APIKey)
	}
	if got := cfg.DB.ConnString(); got != "postgres://u:p@db/flow" {
		t.Errorf("ConnString() = %q", got)
	}
	if !cfg.DB.Enabled() {
		t.Error("DB.Enabled() = false, want true")
	}
	if cfg.News.APIKey != "news-key" {
		t.Errorf("News.APIKey = %q", cfg.News.APIKey)
	}
	if cfg.Workflow.MaxAttempts != 5 || cfg.Workflow.Policy != "fail_fast" {
		t.Errorf("Workflow = %+v", cfg.Workflow)
	}
	if cfg.Workflow.RunTimeoutDuration() != 90*time.Second {
		t.Errorf("RunTimeoutDuration() = %v", cfg.Workflow.RunTimeoutDuration())
	}
}

func TestDBConfig_ConnString(t *testing.T) {
	c := DBConfig{Host: "localhost", Port: 5432, User: "flow", Password: "secret", Name: "content"}
	want := "host=localhost port=5432 user=flow password=secret dbname=content sslmode=disable"
	if got := c.ConnString(); got != want {
		t.Errorf("ConnString() = %q, want %q", got, want)
	}
	if (DBConfig{}).Enabled() {
		t.Error("empty DBConfig should not be enabled")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadConfig() expected error for missing file")
	}
}

func TestLoadProfile(t *testing.T) {
	path := writeConfig(t, `
company_id: acme-1234-5678
company_name: Acme Analytics
industry: B2B SaaS
target_audience:
  name: data team leads
  pain_points: [slow dashboards]
content_themes: [data quality]
posting_frequency_target: 3
`)

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.TargetAudience.PainPoints[0] != "slow dashboards" || p.PostingFrequencyTarget != 3 {
		t.Errorf("profile = %+v", p)
	}
}

func TestLoadProfile_Invalid(t *testing.T) {
	path := writeConfig(t, "company_id: acme\nposting_frequency_target: 0\n")

	if _, err := LoadProfile(path); err == nil {
		t.Fatal("LoadProfile() error = nil, want validation error")
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeBootstrap(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBootstrap(t *testing.T) {
	t.Setenv("CONTENT_FLOW_LLM_MODEL", "qwen-plus")
	path := writeBootstrap(t, `
server:
  http:
    addr: "${HTTP_ADDR:0.0.0.0:8000}"
flow:
  llm:
    model: "${LLM_MODEL:gpt-4o-mini}"
  workflow:
    max_attempts: 2
`)

	bc, err := loadBootstrap(path)
	if err != nil {
		t.Fatalf("loadBootstrap() error = %v", err)
	}
	if bc.Server.Http.Addr != "0.0.0.0:8000" {
		t.Errorf("Addr = %q", bc.Server.Http.Addr)
	}
	if bc.Flow.Llm == nil || bc.Flow.Llm.Model != "qwen-plus" {
		t.Errorf("Llm = %+v, want model from env", bc.Flow.Llm)
	}
	if bc.Flow.Workflow.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d", bc.Flow.Workflow.MaxAttempts)
	}
}

func TestLoadBootstrap_RequiresHTTP(t *testing.T) {
	path := writeBootstrap(t, "flow:\n  log:\n    level: info\n")
	if _, err := loadBootstrap(path); err == nil {
		t.Fatal("loadBootstrap() error = nil, want missing server.http")
	}
}

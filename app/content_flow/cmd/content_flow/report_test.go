package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/engine"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

func TestGenerateHTML(t *testing.T) {
	st := workflow.NewState("run-1", model.CompanyProfile{CompanyID: "acme", CompanyName: "Acme <Analytics>"})
	msg := "Trend Research Failed: timeout"
	st.Error = &msg
	st.Briefs = &model.BriefGenerationOutput{ContentBriefs: []model.ContentBrief{{
		Title:            "Semantic layers explained",
		Platform:         "linkedin",
		ContentStructure: model.ContentStructure{Hook: "Why do dashboards disagree?", MainPoints: []string{"one"}},
	}}}
	res := &engine.Result{RunID: "run-1", WorkflowID: "workflow_x", State: st}

	path := filepath.Join(t.TempDir(), "out", "briefs.html")
	if err := generateHTML(path, res); err != nil {
		t.Fatalf("generateHTML() error = %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	page := string(b)
	for _, want := range []string{"Acme &lt;Analytics&gt;", "Semantic layers explained", msg, "workflow_x"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

package main

import (
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/engine"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
)

// HTMLData 用于模板渲染的数据
type HTMLData struct {
	Date       string
	Company    string
	WorkflowID string
	Error      string
	Trends     []model.TrendingTopic
	Strategy   *model.ContentStrategyOutput
	Briefs     []model.ContentBrief
}

func newHTMLData(res *engine.Result) HTMLData {
	st := res.State
	data := HTMLData{
		Date:       time.Now().Format(time.DateOnly),
		Company:    st.Profile.CompanyName,
		WorkflowID: res.WorkflowID,
		Strategy:   st.Strategy,
	}
	if st.Error != nil {
		data.Error = *st.Error
	}
	if st.Trends != nil {
		data.Trends = st.Trends.TrendingTopics
	}
	if st.Briefs != nil {
		data.Briefs = st.Briefs.ContentBriefs
	}
	return data
}

// generateHTML 渲染模板
func generateHTML(path string, res *engine.Result) error {
	t, err := template.New("briefs").Parse(htmlTpl)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return t.Execute(f, newHTMLData(res))
}

const htmlTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Company}} | Weekly Content Plan</title>
    <style>
        :root { --primary: #2563eb; --bg: #f8fafc; --card: #ffffff; --text: #1e293b; --muted: #64748b; --border: #e2e8f0; }
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; background: var(--bg); color: var(--text); line-height: 1.6; margin: 0; padding: 20px; }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 32px; }
        .muted { color: var(--muted); }
        .error { background: #fef2f2; border-left: 4px solid #ef4444; padding: 12px 16px; border-radius: 8px; margin-bottom: 24px; }
        .card { background: var(--card); border: 1px solid var(--border); border-radius: 12px; padding: 24px; margin-bottom: 24px; }
        .score { background: #dcfce7; color: #166534; padding: 2px 10px; border-radius: 12px; font-weight: bold; }
        .brief-header { display: flex; justify-content: space-between; align-items: center; border-bottom: 1px solid #f1f5f9; padding-bottom: 12px; }
        .tag { background: #eff6ff; color: var(--primary); padding: 2px 8px; border-radius: 6px; font-size: 0.85em; margin-right: 6px; }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{.Company}} Weekly Content Plan</h1>
        <div class="muted">{{.Date}} • {{.WorkflowID}} • {{len .Trends}} trends • {{len .Briefs}} briefs</div>
    </header>

    {{if .Error}}<div class="error">{{.Error}}</div>{{end}}

    {{if .Strategy}}
    <div class="card">
        <h2>{{.Strategy.ContentStrategy.WeeklyTheme.ThemeName}}</h2>
        <p>{{.Strategy.WeeklyFocus}}</p>
        <p class="muted">{{.Strategy.StrategySummary}}</p>
    </div>
    {{end}}

    {{if .Trends}}
    <div class="card">
        <h2>Trending topics</h2>
        <ul>
            {{range .Trends}}<li><span class="score">{{.TrendScore}}</span> {{.Topic}} <span class="muted">({{.UrgencyLevel}})</span></li>{{end}}
        </ul>
    </div>
    {{end}}

    {{range .Briefs}}
    <div class="card">
        <div class="brief-header">
            <h3>{{.Title}}</h3>
            <span><span class="tag">{{.Platform}}</span><span class="tag">{{.ContentType}}</span><span class="tag">{{.PriorityLevel}}</span></span>
        </div>
        <p><strong>Hook:</strong> {{.ContentStructure.Hook}}</p>
        <ol>{{range .ContentStructure.MainPoints}}<li>{{.}}</li>{{end}}</ol>
        <p><strong>CTA:</strong> {{.ContentStructure.CallToAction}}</p>
        <p class="muted"><strong>{{.SEOOptimization.PrimaryKeyword}}</strong> · {{.SEOOptimization.MetaDescription}}</p>
    </div>
    {{end}}
</div>
</body>
</html>
`

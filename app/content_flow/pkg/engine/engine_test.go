package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/llm"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

// routedGenerator 按阶段指令返回对应的 JSON
type routedGenerator struct {
	trends, strategy, briefs string
	trendsErr                error
}

func (g *routedGenerator) Generate(_ context.Context, p llm.Prompt) (string, error) {
	switch {
	case strings.Contains(p.System, "trend research analyst"):
		if g.trendsErr != nil {
			return "", g.trendsErr
		}
		return g.trends, nil
	case strings.Contains(p.System, "content strategist"):
		return g.strategy, nil
	case strings.Contains(p.System, "content briefs"):
		return g.briefs, nil
	}
	return "", errors.New("unexpected prompt")
}

// memStore 记录持久化调用
type memStore struct {
	mu        sync.Mutex
	created   []string
	completed []workflow.State
	failWith  error
}

func (m *memStore) CreateRun(_ context.Context, runID, workflowID, companyID string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, workflowID)
	return m.failWith
}

func (m *memStore) CompleteRun(_ context.Context, st workflow.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, st)
	return m.failWith
}

func profile() model.CompanyProfile {
	return model.CompanyProfile{
		CompanyID:              "acme-1234-5678",
		CompanyName:            "Acme Analytics",
		Industry:               "B2B SaaS",
		TargetAudience:         model.TargetAudience{Name: "data team leads", PainPoints: []string{"slow dashboards"}},
		ContentThemes:          []string{"data quality"},
		BrandVoice:             "practical",
		PostingFrequencyTarget: 3,
	}
}

func topic(name string, score float64) model.TrendingTopic {
	return model.TrendingTopic{
		Topic:                   name,
		TrendScore:              score,
		Source:                  "web",
		BusinessRelevanceScore:  score * 0.4,
		AudienceInterestScore:   score * 0.3,
		ContentOpportunityScore: score * 0.2,
		TrendMomentumScore:      score * 0.1,
		RecommendedPlatforms:    []string{"linkedin"},
		TargetKeywords:          []string{name},
		UrgencyLevel:            "medium",
	}
}

func brief(id string, meta string) model.ContentBrief {
	return model.ContentBrief{
		BriefID:     id,
		Title:       "Brief " + id,
		ContentType: "linkedin_post",
		Platform:    "linkedin",
		ContentStructure: model.ContentStructure{
			Hook: "hook", MainPoints: []string{"a", "b", "c"}, Conclusion: "recap", CallToAction: "comment below",
		},
		SEOOptimization:        model.SEOOptimization{PrimaryKeyword: "bi", MetaDescription: meta},
		PlatformSpecifications: model.PlatformSpecifications{OptimalLengthWords: 200},
		BrandAlignment:         model.BrandAlignment{Tone: "practical"},
		SuccessMetrics:         model.SuccessMetrics{PrimaryKPI: "comments"},
		ExecutionNotes:         model.ExecutionNotes{TimeEstimateHours: 1},
		PriorityLevel:          "high",
	}
}

func encode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func scenario(t *testing.T) *routedGenerator {
	trends := model.TrendResearchOutput{
		TrendingTopics: []model.TrendingTopic{
			topic("ai copilots", 88), topic("crypto", 35), topic("semantic layers", 71),
			topic("no-code", 52), topic("data contracts", 64),
		},
		ResearchSummary: "five signals",
		TopKeywords:     []string{"copilot", "semantic layer"},
	}
	strategy := model.ContentStrategyOutput{
		ContentStrategy: model.ContentStrategy{
			WeeklyTheme: model.WeeklyTheme{ThemeName: "Faster answers"},
			ContentMix: model.ContentMix{
				EducationalPercentage:         40,
				IndustryInsightsPercentage:    30,
				CompanyProductPercentage:      20,
				EngagementCommunityPercentage: 10,
			},
		},
		RecommendedContentPieces: []model.RecommendedContentPiece{{
			Topic: "ai copilots", PriorityScore: 80, BusinessImpactScore: 30, AudienceEngagementScore: 20,
			CompetitiveAdvantageScore: 15, ResourceEfficiencyScore: 15,
		}},
		StrategySummary: "Lead with time saved",
		WeeklyFocus:     "Cutting reporting time",
	}
	briefs := model.BriefGenerationOutput{
		ContentBriefs: []model.ContentBrief{
			brief("1", strings.Repeat("x", 200)), brief("2", "short one"), brief("3", "short two"),
		},
		TotalBriefsGenerated: 3,
	}
	return &routedGenerator{
		trends:   "```json\n" + encode(t, trends) + "\n```",
		strategy: encode(t, strategy),
		briefs:   encode(t, briefs),
	}
}

func TestEngine_EndToEnd(t *testing.T) {
	store := &memStore{}
	now := func() time.Time { return time.Date(2026, 3, 2, 8, 30, 15, 0, time.UTC) }
	e := New(Options{Generator: scenario(t), Store: store, Now: now})

	var steps []int
	res, err := e.Run(context.Background(), RunOptions{
		Profile:          profile(),
		ProgressCallback: func(_ string, p int) { steps = append(steps, p) },
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	st := res.State
	if st.Error != nil {
		t.Fatalf("Error = %q", *st.Error)
	}
	if st.CurrentStep != workflow.StepBriefGenerationDone {
		t.Errorf("CurrentStep = %s", st.CurrentStep)
	}
	if got := len(st.Trends.TrendingTopics); got != 3 {
		t.Errorf("qualifying topics = %d, want 3", got)
	}
	if st.Trends.TotalTopicsFound != 5 {
		t.Errorf("TotalTopicsFound = %d, want 5", st.Trends.TotalTopicsFound)
	}
	if st.Briefs.TotalBriefsGenerated != 3 || len(st.Briefs.ContentBriefs) != 3 {
		t.Errorf("briefs = %d/%d", st.Briefs.TotalBriefsGenerated, len(st.Briefs.ContentBriefs))
	}
	meta := st.Briefs.ContentBriefs[0].SEOOptimization.MetaDescription
	if utf8.RuneCountInString(meta) != model.MetaDescriptionLimit || !strings.HasSuffix(meta, "...") {
		t.Errorf("meta = %q (%d runes)", meta, utf8.RuneCountInString(meta))
	}

	if res.WorkflowID != "workflow_20260302_083015_acme-123" || res.RunID != st.RunID {
		t.Errorf("workflow id = %q run id = %q/%q", res.WorkflowID, res.RunID, st.RunID)
	}
	sum := res.Summary()
	if sum.Status != workflow.StatusCompleted || sum.TrendsFound != 3 || !sum.StrategyCreated || sum.BriefsGenerated != 3 {
		t.Errorf("summary = %+v", sum)
	}
	if len(store.created) != 1 || len(store.completed) != 1 {
		t.Errorf("store calls created=%d completed=%d", len(store.created), len(store.completed))
	}
	if want := []int{0, 33, 67, 100}; len(steps) != len(want) || steps[3] != 100 {
		t.Errorf("progress = %v, want %v", steps, want)
	}
}

func TestEngine_TrendFailureStillProducesStrategy(t *testing.T) {
	gen := scenario(t)
	gen.trendsErr = &llm.TransportError{Err: errors.New("connection reset")}
	e := New(Options{Generator: gen})

	res, err := e.Run(context.Background(), RunOptions{Profile: profile()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	st := res.State
	if st.Trends != nil {
		t.Error("trends should be unset")
	}
	if st.Error == nil || !strings.Contains(*st.Error, "Trend Research") {
		t.Fatalf("Error = %v", st.Error)
	}
	if st.Strategy == nil || st.Briefs == nil {
		t.Error("later stages should still produce output")
	}
	if res.Summary().Status != workflow.StatusFailed {
		t.Errorf("status = %s", res.Summary().Status)
	}
}

func TestEngine_StoreFailureDoesNotFailRun(t *testing.T) {
	store := &memStore{failWith: errors.New("connection refused")}
	e := New(Options{Generator: scenario(t), Store: store})

	res, err := e.Run(context.Background(), RunOptions{Profile: profile()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State.Error != nil {
		t.Errorf("Error = %q", *res.State.Error)
	}
}

func TestEngine_RejectsInvalidProfile(t *testing.T) {
	e := New(Options{Generator: scenario(t)})
	p := profile()
	p.PostingFrequencyTarget = 0

	_, err := e.Run(context.Background(), RunOptions{Profile: p})
	if !model.IsSchemaError(err) {
		t.Fatalf("Run() error = %v, want schema error", err)
	}
}

func TestEngine_FailFast(t *testing.T) {
	gen := scenario(t)
	gen.trendsErr = errors.New("down")
	e := New(Options{Generator: gen, Policy: workflow.PolicyFailFast})

	res, err := e.Run(context.Background(), RunOptions{Profile: profile()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.State.Strategy != nil || res.State.Briefs != nil {
		t.Error("fail_fast should skip later stages")
	}
}

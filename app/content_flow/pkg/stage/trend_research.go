package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/llm"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/research"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

// TrendResearch 趋势研究：先用研究工具收集资料，再让模型按评分规则输出热点话题
type TrendResearch struct {
	base
	llm   *llm.SchemaRetry
	tools []research.Tool
}

// NewTrendResearch 创建趋势研究阶段，tools 可以为空
func NewTrendResearch(r *llm.SchemaRetry, tools []research.Tool, opts ...Option) *TrendResearch {
	return &TrendResearch{base: newBase(opts), llm: r, tools: tools}
}

var _ workflow.Stage = (*TrendResearch)(nil)

// Name 实现 workflow.Stage
func (t *TrendResearch) Name() string { return NameTrendResearch }

// Run 实现 workflow.Stage
func (t *TrendResearch) Run(ctx context.Context, s workflow.State, _ bool) (workflow.Patch, error) {
	profile := &s.Profile
	queries := research.Queries(profile)

	var findings string
	if len(t.tools) > 0 {
		findings = research.Gather(ctx, t.tools, queries)
	}

	out, err := llm.Invoke[model.TrendResearchOutput](ctx, t.llm, trendResearchPrompt(profile, queries, findings))
	if err != nil {
		return workflow.Patch{}, err
	}

	trends := model.Qualify(*out)
	if trends.ResearchDate == "" {
		trends.ResearchDate = t.today()
	}

	logger.Log.WithField("company_id", profile.CompanyID).
		Infof("趋势研究完成: 候选 %d 个，达标 %d 个", trends.TotalTopicsFound, trends.TotalTopicsQualifying)
	return workflow.Patch{Trends: &trends, Step: workflow.StepTrendResearchDone}, nil
}

func trendResearchPrompt(p *model.CompanyProfile, queries []string, findings string) llm.Prompt {
	var sys strings.Builder
	fmt.Fprintf(&sys, "You are the trend research analyst for %s, a company in the %s industry.\n\n", p.CompanyName, p.Industry)
	sys.WriteString("Company context:\n")
	fmt.Fprintf(&sys, "- Target audience: %s\n", p.TargetAudience.Name)
	fmt.Fprintf(&sys, "- Audience pain points: %s\n", joinOr(p.TargetAudience.PainPoints, "not specified"))
	fmt.Fprintf(&sys, "- Content themes: %s\n", joinOr(p.ContentThemes, "not specified"))
	fmt.Fprintf(&sys, "- Business objectives: %s\n", joinOr(p.BusinessObjectives, "not specified"))
	fmt.Fprintf(&sys, "- Main competitors: %s\n\n", joinOr(firstN(p.CompetitorDomains, 3), "not specified"))
	sys.WriteString(`Find trending topics that open real content opportunities for this company.
Look at industry movements, problems the audience is talking about, gaps competitors leave open,
emerging subjects with growth potential, and timely or seasonal hooks.

Score every topic out of 100 with this rubric and report each part separately:
- business_relevance_score (0-40): how directly the topic connects to the company's market and offer
- audience_interest_score (0-30): how much the target audience cares right now
- content_opportunity_score (0-20): whether it can become useful, actionable content
- trend_momentum_score (0-10): whether interest is growing
trend_score must equal the sum of the four parts. Only topics scoring 60 or more will be used.

For each topic give a concrete content angle, the business reason it matters, the best platforms,
SEO keywords, whether competitors already cover it, an urgency level (high, medium or low)
and an estimate of how long the trend will last.

Reply with a single JSON object and nothing else.`)

	var user strings.Builder
	fmt.Fprintf(&user, "Research request: %s\n", queries[0])
	if len(queries) > 1 {
		fmt.Fprintf(&user, "Also consider: %s\n", strings.Join(queries[1:], "; "))
	}
	if findings != "" {
		user.WriteString("\nResearch findings from this week:\n")
		user.WriteString(findings)
		user.WriteString("\n")
	}
	user.WriteString("\nOutput format:\n")
	user.WriteString(trendResearchSchema)
	return llm.Prompt{System: sys.String(), User: user.String()}
}

const trendResearchSchema = `{
  "trending_topics": [
    {
      "topic": "string",
      "trend_score": 0,
      "source": "where the signal came from (web, news, reddit)",
      "relevance_reason": "string",
      "content_angle": "string",
      "business_relevance_score": 0,
      "audience_interest_score": 0,
      "content_opportunity_score": 0,
      "trend_momentum_score": 0,
      "recommended_platforms": ["linkedin"],
      "target_keywords": ["string"],
      "competitor_coverage": false,
      "urgency_level": "high | medium | low",
      "trend_lifespan_estimate": "string"
    }
  ],
  "research_summary": "string",
  "total_topics_found": 0,
  "total_topics_qualifying": 0,
  "research_date": "YYYY-MM-DD",
  "research_timeframe": "7d",
  "top_keywords": ["string"],
  "industry_insights": ["string"],
  "competitive_gaps": ["string"],
  "seasonal_considerations": ["string"]
}`

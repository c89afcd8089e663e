package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/llm"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/logger"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

// ContentStrategy 根据画像与达标话题生成本周内容策略
type ContentStrategy struct {
	base
	llm *llm.SchemaRetry
}

// NewContentStrategy 创建内容策略阶段
func NewContentStrategy(r *llm.SchemaRetry, opts ...Option) *ContentStrategy {
	return &ContentStrategy{base: newBase(opts), llm: r}
}

var _ workflow.Stage = (*ContentStrategy)(nil)

// Name 实现 workflow.Stage
func (c *ContentStrategy) Name() string { return NameContentStrategy }

// Run 实现 workflow.Stage。没有趋势结果时使用占位文本继续
func (c *ContentStrategy) Run(ctx context.Context, s workflow.State, upstreamFailed bool) (workflow.Patch, error) {
	if s.Trends == nil {
		logger.Log.WithField("upstream_failed", upstreamFailed).Warn("缺少趋势结果，按无趋势生成策略")
	}

	out, err := llm.Invoke[model.ContentStrategyOutput](ctx, c.llm, contentStrategyPrompt(&s.Profile, s.Trends))
	if err != nil {
		return workflow.Patch{}, err
	}

	logger.Log.WithField("company_id", s.CompanyID).
		Infof("内容策略完成: 主题 %q，推荐内容 %d 条", out.ContentStrategy.WeeklyTheme.ThemeName, len(out.RecommendedContentPieces))
	return workflow.Patch{Strategy: out, Step: workflow.StepContentStrategyDone}, nil
}

func contentStrategyPrompt(p *model.CompanyProfile, trends *model.TrendResearchOutput) llm.Prompt {
	var sys strings.Builder
	fmt.Fprintf(&sys, "You are the content strategist for %s (%s).\n\n", p.CompanyName, p.Industry)
	sys.WriteString("Company profile:\n")
	fmt.Fprintf(&sys, "- Target audience: %s\n", p.TargetAudience.Name)
	fmt.Fprintf(&sys, "- Audience pain points: %s\n", joinOr(p.TargetAudience.PainPoints, "not specified"))
	fmt.Fprintf(&sys, "- Business objectives: %s\n", joinOr(p.BusinessObjectives, "not specified"))
	fmt.Fprintf(&sys, "- Brand voice: %s\n", joinOr([]string{p.BrandVoice}, "not specified"))
	fmt.Fprintf(&sys, "- Posting goal: %d pieces per week\n", p.PostingFrequencyTarget)
	fmt.Fprintf(&sys, "- Preferred content types: %s\n", joinOr(p.ContentPreferences, "not specified"))
	fmt.Fprintf(&sys, "- Strongest themes: %s\n\n", joinOr(firstN(p.ContentThemes, 3), "not specified"))
	sys.WriteString(`Turn the available trends and the business objectives into one coherent weekly plan.
Every piece must serve a business objective, solve a real audience problem, take an angle
competitors are missing, and stay realistic for a small team.

Content mix target (the four percentages must add up to exactly 100):
- educational_percentage: 40
- industry_insights_percentage: 30
- company_product_percentage: 20
- engagement_community_percentage: 10

Rank every recommended piece out of 100 and report each part separately:
- business_impact_score (0-35)
- audience_engagement_score (0-25)
- competitive_advantage_score (0-20)
- resource_efficiency_score (0-20)
priority_score must equal the sum of the four parts.

Reply with a single JSON object and nothing else.`)

	var user strings.Builder
	fmt.Fprintf(&user, "Company: %s\nIndustry: %s\n", p.CompanyName, p.Industry)
	fmt.Fprintf(&user, "Business objectives: %s\n\n", joinOr(p.BusinessObjectives, "not specified"))
	fmt.Fprintf(&user, "Available trends:\n%s\n\n", joinOr(trends.TopicNames(), placeholderTrends))
	fmt.Fprintf(&user, "Build this week's content strategy around these audience pain points: %s\n\n",
		joinOr(p.TargetAudience.PainPoints, "not specified"))
	user.WriteString("Output format:\n")
	user.WriteString(contentStrategySchema)
	return llm.Prompt{System: sys.String(), User: user.String()}
}

const contentStrategySchema = `{
  "content_strategy": {
    "weekly_theme": {
      "theme_name": "string",
      "focus_area": "string",
      "key_message": "string",
      "target_pain_points": ["string"],
      "supporting_themes": ["string"]
    },
    "content_mix": {
      "educational_percentage": 40,
      "industry_insights_percentage": 30,
      "company_product_percentage": 20,
      "engagement_community_percentage": 10
    },
    "priority_topics": ["string"],
    "target_audience_segments": ["string"],
    "competitive_differentiation": "string",
    "content_calendar_notes": ["string"]
  },
  "recommended_content_pieces": [
    {
      "topic": "string",
      "priority_score": 0,
      "content_type": "blog_post | linkedin_post | twitter_thread | video | newsletter",
      "platform": "string",
      "secondary_platforms": ["string"],
      "business_impact_score": 0,
      "audience_engagement_score": 0,
      "competitive_advantage_score": 0,
      "resource_efficiency_score": 0,
      "estimated_effort_hours": 0,
      "target_keywords": ["string"],
      "related_trends": ["string"],
      "success_probability": 0
    }
  ],
  "strategy_summary": "string",
  "weekly_focus": "string",
  "success_metrics": ["string"],
  "risk_mitigation": ["string"],
  "resource_requirements": ["string"],
  "timeline_considerations": ["string"]
}`

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

// BriefGeneration 为每个发布位生成一份完整简报
type BriefGeneration struct {
	base
	llm *llm.SchemaRetry
}

// NewBriefGeneration 创建简报生成阶段
func NewBriefGeneration(r *llm.SchemaRetry, opts ...Option) *BriefGeneration {
	return &BriefGeneration{base: newBase(opts), llm: r}
}

var _ workflow.Stage = (*BriefGeneration)(nil)

// Name 实现 workflow.Stage
func (b *BriefGeneration) Name() string { return NameBriefGeneration }

// Run 实现 workflow.Stage。meta 描述截断与数量重算在解码之后进行
func (b *BriefGeneration) Run(ctx context.Context, s workflow.State, _ bool) (workflow.Patch, error) {
	profile := &s.Profile

	out, err := llm.Invoke[model.BriefGenerationOutput](ctx, b.llm, briefGenerationPrompt(profile, s.Strategy, s.Trends))
	if err != nil {
		return workflow.Patch{}, err
	}

	briefs := model.TruncateMetaDescriptions(*out)
	if briefs.GenerationDate == "" {
		briefs.GenerationDate = b.today()
	}

	log := logger.Log.WithField("company_id", profile.CompanyID)
	if briefs.TotalBriefsGenerated != profile.PostingFrequencyTarget {
		log.Warnf("简报数量与目标不一致: 生成 %d 份，目标 %d 份", briefs.TotalBriefsGenerated, profile.PostingFrequencyTarget)
	}
	log.Infof("简报生成完成: %d 份", briefs.TotalBriefsGenerated)
	return workflow.Patch{Briefs: &briefs, Step: workflow.StepBriefGenerationDone}, nil
}

func briefGenerationPrompt(p *model.CompanyProfile, strategy *model.ContentStrategyOutput, trends *model.TrendResearchOutput) llm.Prompt {
	var sys strings.Builder
	fmt.Fprintf(&sys, "You write production-ready content briefs for %s (%s).\n\n", p.CompanyName, p.Industry)
	sys.WriteString("Company context:\n")
	fmt.Fprintf(&sys, "- Brand voice: %s\n", joinOr([]string{p.BrandVoice}, "not specified"))
	fmt.Fprintf(&sys, "- Target audience: %s\n", p.TargetAudience.Name)
	fmt.Fprintf(&sys, "- Problems to solve: %s\n", joinOr(firstN(p.TargetAudience.PainPoints, 3), "not specified"))
	fmt.Fprintf(&sys, "- SEO focus: %s\n", joinOr(firstN(p.SEOKeywords, 5), "not specified"))
	fmt.Fprintf(&sys, "- Content restrictions: %s\n\n", joinOr(p.ContentRestrictions, "None specified"))
	sys.WriteString(`A writer must be able to execute each brief without further research.

Every brief contains:
- content_structure: a hook that names an audience pain point, 3-5 main points in order,
  supporting stats or examples, a conclusion and one specific call to action
- seo_optimization: primary keyword in the title, 2-4 secondary keywords, a meta description
  of at most 160 characters, title variations, search intent, internal links, snippet plan
- platform_specifications: length, posting time, hashtags, visuals, engagement tactics
  (LinkedIn professional, Twitter conversational, blog search-led, Instagram visual-first)
- brand_alignment: tone, voice guidelines, key messages, values, messaging restrictions
- success_metrics: primary KPI, targets, timeframe, benchmark
- execution_notes: hours, difficulty (easy, medium or hard), resources, dependencies,
  review checkpoints, quality criteria, likely challenges
- priority_level: high, medium or low

Reply with a single JSON object and nothing else.`)

	focus := placeholderStrategy
	var topics []string
	if strategy != nil {
		if strings.TrimSpace(strategy.WeeklyFocus) != "" {
			focus = strategy.WeeklyFocus
		}
		topics = strategy.PieceTopics()
	}
	var keywords []string
	if trends != nil {
		keywords = firstN(trends.TopKeywords, 5)
	}

	var user strings.Builder
	fmt.Fprintf(&user, "Company: %s\nTarget audience: %s\nBrand voice: %s\n\n",
		p.CompanyName, p.TargetAudience.Name, joinOr([]string{p.BrandVoice}, "not specified"))
	fmt.Fprintf(&user, "Strategy focus: %s\n\n", focus)
	fmt.Fprintf(&user, "Available topics:\n%s\n\n", joinOr(topics, placeholderTopics))
	fmt.Fprintf(&user, "Trending keywords:\n%s\n\n", joinOr(keywords, placeholderKeywords))
	fmt.Fprintf(&user, "Generate exactly %d content briefs for this week.\n\n", p.PostingFrequencyTarget)
	user.WriteString("Output format:\n")
	user.WriteString(briefGenerationSchema)
	return llm.Prompt{System: sys.String(), User: user.String()}
}

const briefGenerationSchema = `{
  "content_briefs": [
    {
      "brief_id": "string",
      "title": "string",
      "final_title_options": ["string"],
      "objective": "string",
      "target_audience_segment": "string",
      "content_type": "string",
      "platform": "string",
      "content_structure": {
        "hook": "string",
        "main_points": ["string"],
        "supporting_details": ["string"],
        "conclusion": "string",
        "call_to_action": "string",
        "content_flow": "string"
      },
      "seo_optimization": {
        "primary_keyword": "string",
        "secondary_keywords": ["string"],
        "meta_description": "string",
        "title_variations": ["string"],
        "target_search_intent": "string",
        "internal_link_opportunities": ["string"],
        "featured_snippet_optimization": "string"
      },
      "platform_specifications": {
        "optimal_length_words": 0,
        "optimal_length_characters": 0,
        "best_posting_time": "string",
        "hashtags": ["string"],
        "visual_requirements": ["string"],
        "engagement_tactics": ["string"],
        "format_specifications": ["string"],
        "cross_promotion_opportunities": ["string"]
      },
      "brand_alignment": {
        "tone": "string",
        "voice_guidelines": ["string"],
        "key_messages": ["string"],
        "brand_values_to_highlight": ["string"],
        "messaging_restrictions": ["string"],
        "brand_personality_elements": ["string"]
      },
      "success_metrics": {
        "primary_kpi": "string",
        "target_engagement_rate": 0,
        "target_reach": 0,
        "target_clicks": 0,
        "target_leads": 0,
        "target_shares": 0,
        "measurement_timeframe": "7d",
        "benchmark_comparison": "string"
      },
      "execution_notes": {
        "time_estimate_hours": 0,
        "difficulty_level": "easy | medium | hard",
        "required_resources": ["string"],
        "dependencies": ["string"],
        "review_checkpoints": ["string"],
        "quality_criteria": ["string"],
        "potential_challenges": ["string"]
      },
      "created_date": "YYYY-MM-DD",
      "priority_level": "high | medium | low",
      "deadline": "YYYY-MM-DD or null",
      "approval_workflow": ["string"]
    }
  ],
  "total_briefs_generated": 0,
  "generation_date": "YYYY-MM-DD",
  "strategy_alignment_score": 0,
  "estimated_total_hours": 0,
  "resource_summary": ["string"],
  "timeline_overview": "string"
}`

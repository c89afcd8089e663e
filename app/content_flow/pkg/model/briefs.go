package model

// MetaDescriptionLimit meta 描述的最大字符数（按 rune 计）
const MetaDescriptionLimit = 160

const ellipsis = "..."

// ContentStructure 内容大纲
type ContentStructure struct {
	Hook              string   `json:"hook" validate:"required"`
	MainPoints        []string `json:"main_points" validate:"required"`
	SupportingDetails []string `json:"supporting_details"`
	Conclusion        string   `json:"conclusion" validate:"required"`
	CallToAction      string   `json:"call_to_action" validate:"required"`
	ContentFlow       string   `json:"content_flow"`
}

// SEOOptimization SEO 要求，MetaDescription 的长度在解码后统一截断
type SEOOptimization struct {
	PrimaryKeyword              string   `json:"primary_keyword" validate:"required"`
	SecondaryKeywords           []string `json:"secondary_keywords"`
	MetaDescription             string   `json:"meta_description"`
	TitleVariations             []string `json:"title_variations"`
	TargetSearchIntent          string   `json:"target_search_intent"`
	InternalLinkOpportunities   []string `json:"internal_link_opportunities"`
	FeaturedSnippetOptimization string   `json:"featured_snippet_optimization"`
}

// PlatformSpecifications 平台发布要求
type PlatformSpecifications struct {
	OptimalLengthWords          int      `json:"optimal_length_words" validate:"gte=0"`
	OptimalLengthCharacters     *int     `json:"optimal_length_characters,omitempty" validate:"omitempty,gte=0"`
	BestPostingTime             string   `json:"best_posting_time"`
	Hashtags                    []string `json:"hashtags"`
	VisualRequirements          []string `json:"visual_requirements"`
	EngagementTactics           []string `json:"engagement_tactics"`
	FormatSpecifications        []string `json:"format_specifications"`
	CrossPromotionOpportunities []string `json:"cross_promotion_opportunities"`
}

// BrandAlignment 品牌一致性要求
type BrandAlignment struct {
	Tone                     string   `json:"tone"`
	VoiceGuidelines          []string `json:"voice_guidelines"`
	KeyMessages              []string `json:"key_messages"`
	BrandValuesToHighlight   []string `json:"brand_values_to_highlight"`
	MessagingRestrictions    []string `json:"messaging_restrictions"`
	BrandPersonalityElements []string `json:"brand_personality_elements"`
}

// SuccessMetrics 成功指标，目标值均可缺省
type SuccessMetrics struct {
	PrimaryKPI           string   `json:"primary_kpi"`
	TargetEngagementRate *float64 `json:"target_engagement_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	TargetReach          *int     `json:"target_reach,omitempty" validate:"omitempty,gte=0"`
	TargetClicks         *int     `json:"target_clicks,omitempty" validate:"omitempty,gte=0"`
	TargetLeads          *int     `json:"target_leads,omitempty" validate:"omitempty,gte=0"`
	TargetShares         *int     `json:"target_shares,omitempty" validate:"omitempty,gte=0"`
	MeasurementTimeframe string   `json:"measurement_timeframe"`
	BenchmarkComparison  string   `json:"benchmark_comparison"`
}

// ExecutionNotes 执行说明
type ExecutionNotes struct {
	TimeEstimateHours   float64  `json:"time_estimate_hours" validate:"gte=0"`
	DifficultyLevel     string   `json:"difficulty_level"`
	RequiredResources   []string `json:"required_resources"`
	Dependencies        []string `json:"dependencies"`
	ReviewCheckpoints   []string `json:"review_checkpoints"`
	QualityCriteria     []string `json:"quality_criteria"`
	PotentialChallenges []string `json:"potential_challenges"`
}

// ContentBrief 一份可直接执行的内容简报
type ContentBrief struct {
	BriefID               string   `json:"brief_id" validate:"required"`
	Title                 string   `json:"title" validate:"required"`
	FinalTitleOptions     []string `json:"final_title_options"`
	Objective             string   `json:"objective"`
	TargetAudienceSegment string   `json:"target_audience_segment"`
	ContentType           string   `json:"content_type" validate:"required"`
	Platform              string   `json:"platform" validate:"required"`

	ContentStructure       ContentStructure       `json:"content_structure" validate:"required"`
	SEOOptimization        SEOOptimization        `json:"seo_optimization" validate:"required"`
	PlatformSpecifications PlatformSpecifications `json:"platform_specifications" validate:"required"`
	BrandAlignment         BrandAlignment         `json:"brand_alignment" validate:"required"`
	SuccessMetrics         SuccessMetrics         `json:"success_metrics" validate:"required"`
	ExecutionNotes         ExecutionNotes         `json:"execution_notes" validate:"required"`

	CreatedDate      string   `json:"created_date"`
	PriorityLevel    string   `json:"priority_level" validate:"oneof=high medium low"`
	Deadline         *string  `json:"deadline,omitempty"`
	ApprovalWorkflow []string `json:"approval_workflow"`
}

// BriefGenerationOutput 简报生成阶段的输出
type BriefGenerationOutput struct {
	ContentBriefs          []ContentBrief `json:"content_briefs" validate:"required,dive"`
	TotalBriefsGenerated   int            `json:"total_briefs_generated" validate:"gte=0"`
	GenerationDate         string         `json:"generation_date"`
	StrategyAlignmentScore float64        `json:"strategy_alignment_score" validate:"gte=0,lte=100"`
	EstimatedTotalHours    float64        `json:"estimated_total_hours" validate:"gte=0"`
	ResourceSummary        []string       `json:"resource_summary"`
	TimelineOverview       string         `json:"timeline_overview"`
}

// TruncateMeta 超过 MetaDescriptionLimit 的描述截为前 157 个字符并追加省略号
func TruncateMeta(s string) string {
	r := []rune(s)
	if len(r) <= MetaDescriptionLimit {
		return s
	}
	keep := MetaDescriptionLimit - len([]rune(ellipsis))
	return string(r[:keep]) + ellipsis
}

// TruncateMetaDescriptions 对所有简报做 meta 描述截断并重算简报数量。
// 返回新值，不修改入参。
func TruncateMetaDescriptions(in BriefGenerationOutput) BriefGenerationOutput {
	out := in
	out.ContentBriefs = make([]ContentBrief, len(in.ContentBriefs))
	for i, b := range in.ContentBriefs {
		b.SEOOptimization.MetaDescription = TruncateMeta(b.SEOOptimization.MetaDescription)
		out.ContentBriefs[i] = b
	}
	out.TotalBriefsGenerated = len(out.ContentBriefs)
	return out
}

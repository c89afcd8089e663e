package model

// WeeklyTheme 本周主题
type WeeklyTheme struct {
	ThemeName        string   `json:"theme_name" validate:"required"`
	FocusArea        string   `json:"focus_area"`
	KeyMessage       string   `json:"key_message"`
	TargetPainPoints []string `json:"target_pain_points"`
	SupportingThemes []string `json:"supporting_themes"`
}

// ContentMix 内容类型占比，四项之和为 100
type ContentMix struct {
	EducationalPercentage         float64 `json:"educational_percentage" validate:"gte=0,lte=100"`
	IndustryInsightsPercentage    float64 `json:"industry_insights_percentage" validate:"gte=0,lte=100"`
	CompanyProductPercentage      float64 `json:"company_product_percentage" validate:"gte=0,lte=100"`
	EngagementCommunityPercentage float64 `json:"engagement_community_percentage" validate:"gte=0,lte=100"`
}

// Total 四项占比之和
func (m ContentMix) Total() float64 {
	return m.EducationalPercentage + m.IndustryInsightsPercentage + m.CompanyProductPercentage + m.EngagementCommunityPercentage
}

// RecommendedContentPiece 推荐内容
type RecommendedContentPiece struct {
	Topic              string   `json:"topic" validate:"required"`
	PriorityScore      float64  `json:"priority_score" validate:"gte=0,lte=100"`
	ContentType        string   `json:"content_type"`
	Platform           string   `json:"platform"`
	SecondaryPlatforms []string `json:"secondary_platforms"`

	// 评分明细，四项之和等于 PriorityScore
	BusinessImpactScore       float64 `json:"business_impact_score" validate:"gte=0,lte=35"`
	AudienceEngagementScore   float64 `json:"audience_engagement_score" validate:"gte=0,lte=25"`
	CompetitiveAdvantageScore float64 `json:"competitive_advantage_score" validate:"gte=0,lte=20"`
	ResourceEfficiencyScore   float64 `json:"resource_efficiency_score" validate:"gte=0,lte=20"`

	EstimatedEffortHours float64  `json:"estimated_effort_hours" validate:"gte=0"`
	TargetKeywords       []string `json:"target_keywords"`
	RelatedTrends        []string `json:"related_trends"`
	SuccessProbability   float64  `json:"success_probability" validate:"gte=0,lte=100"`
}

// SubScoreTotal 四项评分之和
func (p RecommendedContentPiece) SubScoreTotal() float64 {
	return p.BusinessImpactScore + p.AudienceEngagementScore + p.CompetitiveAdvantageScore + p.ResourceEfficiencyScore
}

// ContentStrategy 策略主体
type ContentStrategy struct {
	WeeklyTheme                WeeklyTheme `json:"weekly_theme" validate:"required"`
	ContentMix                 ContentMix  `json:"content_mix" validate:"required"`
	PriorityTopics             []string    `json:"priority_topics"`
	TargetAudienceSegments     []string    `json:"target_audience_segments"`
	CompetitiveDifferentiation string      `json:"competitive_differentiation"`
	ContentCalendarNotes       []string    `json:"content_calendar_notes"`
}

// ContentStrategyOutput 内容策略阶段的输出
type ContentStrategyOutput struct {
	ContentStrategy          ContentStrategy           `json:"content_strategy" validate:"required"`
	RecommendedContentPieces []RecommendedContentPiece `json:"recommended_content_pieces" validate:"required,dive"`
	StrategySummary          string                    `json:"strategy_summary" validate:"required"`
	WeeklyFocus              string                    `json:"weekly_focus" validate:"required"`
	SuccessMetrics           []string                  `json:"success_metrics"`
	RiskMitigation           []string                  `json:"risk_mitigation"`
	ResourceRequirements     []string                  `json:"resource_requirements"`
	TimelineConsiderations   []string                  `json:"timeline_considerations"`
}

// PieceTopics 推荐内容的话题列表
func (o *ContentStrategyOutput) PieceTopics() []string {
	if o == nil {
		return nil
	}
	topics := make([]string, 0, len(o.RecommendedContentPieces))
	for _, p := range o.RecommendedContentPieces {
		topics = append(topics, p.Topic)
	}
	return topics
}

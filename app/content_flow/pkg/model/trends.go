package model

import "sort"

// QualifyingScore 进入下游阶段的最低综合评分
const QualifyingScore = 60.0

// TrendingTopic 一个候选热点话题
type TrendingTopic struct {
	Topic           string  `json:"topic" validate:"required"`
	TrendScore      float64 `json:"trend_score" validate:"gte=0,lte=100"`
	Source          string  `json:"source" validate:"required"`
	RelevanceReason string  `json:"relevance_reason"`
	ContentAngle    string  `json:"content_angle"`

	// 评分明细，四项之和等于 TrendScore
	BusinessRelevanceScore  float64 `json:"business_relevance_score" validate:"gte=0,lte=40"`
	AudienceInterestScore   float64 `json:"audience_interest_score" validate:"gte=0,lte=30"`
	ContentOpportunityScore float64 `json:"content_opportunity_score" validate:"gte=0,lte=20"`
	TrendMomentumScore      float64 `json:"trend_momentum_score" validate:"gte=0,lte=10"`

	RecommendedPlatforms  []string `json:"recommended_platforms" validate:"required"`
	TargetKeywords        []string `json:"target_keywords" validate:"required"`
	CompetitorCoverage    bool     `json:"competitor_coverage"`
	UrgencyLevel          string   `json:"urgency_level" validate:"oneof=high medium low"`
	TrendLifespanEstimate string   `json:"trend_lifespan_estimate"`
}

// SubScoreTotal 四项评分之和
func (t TrendingTopic) SubScoreTotal() float64 {
	return t.BusinessRelevanceScore + t.AudienceInterestScore + t.ContentOpportunityScore + t.TrendMomentumScore
}

// Qualifies 是否达到下游准入分数
func (t TrendingTopic) Qualifies() bool {
	return t.TrendScore >= QualifyingScore
}

// TrendResearchOutput 趋势研究阶段的输出
type TrendResearchOutput struct {
	TrendingTopics         []TrendingTopic `json:"trending_topics" validate:"required,dive"`
	ResearchSummary        string          `json:"research_summary" validate:"required"`
	TotalTopicsFound       int             `json:"total_topics_found" validate:"gte=0"`
	TotalTopicsQualifying  int             `json:"total_topics_qualifying" validate:"gte=0"`
	ResearchDate           string          `json:"research_date"`
	ResearchTimeframe      string          `json:"research_timeframe"`
	TopKeywords            []string        `json:"top_keywords"`
	IndustryInsights       []string        `json:"industry_insights"`
	CompetitiveGaps        []string        `json:"competitive_gaps"`
	SeasonalConsiderations []string        `json:"seasonal_considerations"`
}

// Qualify 仅保留达标话题（按分数降序，稳定排序）并重新计算统计字段。
// 纯函数，不修改入参。
func Qualify(in TrendResearchOutput) TrendResearchOutput {
	out := in
	kept := make([]TrendingTopic, 0, len(in.TrendingTopics))
	for _, t := range in.TrendingTopics {
		if t.Qualifies() {
			kept = append(kept, t)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].TrendScore > kept[j].TrendScore
	})

	out.TrendingTopics = kept
	out.TotalTopicsFound = max(in.TotalTopicsFound, len(in.TrendingTopics))
	out.TotalTopicsQualifying = len(kept)
	if out.ResearchTimeframe == "" {
		out.ResearchTimeframe = "7d"
	}
	return out
}

// TopicNames 返回话题名称列表
func (o *TrendResearchOutput) TopicNames() []string {
	if o == nil {
		return nil
	}
	names := make([]string, 0, len(o.TrendingTopics))
	for _, t := range o.TrendingTopics {
		names = append(names, t.Topic)
	}
	return names
}

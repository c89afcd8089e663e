package model

import "fmt"

// TargetAudience 目标受众画像
type TargetAudience struct {
	Name               string   `json:"name" yaml:"name" validate:"required"`
	PainPoints         []string `json:"pain_points" yaml:"pain_points"`
	Demographics       []string `json:"demographics" yaml:"demographics"`
	PreferredPlatforms []string `json:"preferred_platforms" yaml:"preferred_platforms"`
	ContentPreferences []string `json:"content_preferences" yaml:"content_preferences"`
	EngagementPatterns []string `json:"engagement_patterns" yaml:"engagement_patterns"`
}

// CompanyProfile 一次运行的输入上下文，运行期间只读
type CompanyProfile struct {
	CompanyID              string         `json:"company_id" yaml:"company_id" validate:"required"`
	CompanyName            string         `json:"company_name" yaml:"company_name" validate:"required"`
	Industry               string         `json:"industry" yaml:"industry" validate:"required"`
	TargetAudience         TargetAudience `json:"target_audience" yaml:"target_audience"`
	ContentThemes          []string       `json:"content_themes" yaml:"content_themes"`
	CompetitorDomains      []string       `json:"competitor_domains" yaml:"competitor_domains"`
	BusinessObjectives     []string       `json:"business_objectives" yaml:"business_objectives"`
	BrandVoice             string         `json:"brand_voice" yaml:"brand_voice"`
	ContentPreferences     []string       `json:"content_preferences" yaml:"content_preferences"`
	PostingFrequencyTarget int            `json:"posting_frequency_target" yaml:"posting_frequency_target" validate:"gte=1,lte=50"`
	SEOKeywords            []string       `json:"seo_keywords" yaml:"seo_keywords"`
	BudgetConstraints      *string        `json:"budget_constraints,omitempty" yaml:"budget_constraints"`
	ContentRestrictions    []string       `json:"content_restrictions" yaml:"content_restrictions"`
}

// Validate 校验画像字段
func (p *CompanyProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("company profile is nil")
	}
	if err := validate.Struct(p); err != nil {
		return &SchemaError{Schema: "CompanyProfile", Err: err}
	}
	return nil
}

// ResearchQuery 趋势研究的主查询
func (p *CompanyProfile) ResearchQuery() string {
	return fmt.Sprintf("%s trends for %s", p.Industry, p.TargetAudience.Name)
}

// Clone 深拷贝画像，保证运行期间调用方的修改不会影响工作流
func (p CompanyProfile) Clone() CompanyProfile {
	out := p
	out.TargetAudience.PainPoints = cloneStrings(p.TargetAudience.PainPoints)
	out.TargetAudience.Demographics = cloneStrings(p.TargetAudience.Demographics)
	out.TargetAudience.PreferredPlatforms = cloneStrings(p.TargetAudience.PreferredPlatforms)
	out.TargetAudience.ContentPreferences = cloneStrings(p.TargetAudience.ContentPreferences)
	out.TargetAudience.EngagementPatterns = cloneStrings(p.TargetAudience.EngagementPatterns)
	out.ContentThemes = cloneStrings(p.ContentThemes)
	out.CompetitorDomains = cloneStrings(p.CompetitorDomains)
	out.BusinessObjectives = cloneStrings(p.BusinessObjectives)
	out.ContentPreferences = cloneStrings(p.ContentPreferences)
	out.SEOKeywords = cloneStrings(p.SEOKeywords)
	out.ContentRestrictions = cloneStrings(p.ContentRestrictions)
	if p.BudgetConstraints != nil {
		b := *p.BudgetConstraints
		out.BudgetConstraints = &b
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

package domain

import "time"

// Session scopes one planning workflow. Stage outputs accumulate under
// well-known keys so later stages can build on earlier ones; nothing is kept
// across sessions.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionEntry struct {
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Well-known session entry keys.
const (
	KeyStrategicTension     = "strategic_tension"
	KeySecondaryResearch    = "secondary_research"
	KeyQuantitativeAnalysis = "quantitative_analysis"
	KeyQualitativeGuide     = "qualitative_guide"
	KeyStrategicInsights    = "strategic_insights"
	KeyStrategyOptions      = "strategy_options"
)

// AnalysisType names a single-shot workflow stage (no retrieval step).
type AnalysisType string

const (
	AnalysisSecondaryResearch    AnalysisType = "secondary_research"
	AnalysisQuantitative         AnalysisType = "quantitative_analysis"
	AnalysisQualitativeGuide     AnalysisType = "qualitative_guide"
	AnalysisStrategicInsights    AnalysisType = "strategic_insights"
	AnalysisStrategyOptions      AnalysisType = "strategy_options"
	AnalysisStrategicBrief       AnalysisType = "strategic_brief"
	AnalysisFrameworkGetToBy     AnalysisType = "framework_get_to_by"
	AnalysisFrameworkSMP         AnalysisType = "framework_smp"
	AnalysisFrameworkTensionIdea AnalysisType = "framework_tension_insight_idea"
	AnalysisBrandAudit           AnalysisType = "brand_audit"
	AnalysisBenefitLadder        AnalysisType = "benefit_ladder"
	AnalysisBrandPrism           AnalysisType = "brand_prism"
	AnalysisCommunicationPlan    AnalysisType = "communication_plan"
	AnalysisKPIRecommendations   AnalysisType = "kpi_recommendations"
	AnalysisESOV                 AnalysisType = "esov_analysis"
	AnalysisEntryPoints          AnalysisType = "entry_points"
	AnalysisTeamStructure        AnalysisType = "team_structure"
	AnalysisSWOT                 AnalysisType = "swot"
	AnalysisPESTLE               AnalysisType = "pestle"
	AnalysisOpportunities        AnalysisType = "opportunities_threats"
)

type AnalysisRequest struct {
	Type   AnalysisType      `json:"type"`
	Inputs map[string]string `json:"inputs"`
}

type AnalysisResult struct {
	Type       AnalysisType `json:"type"`
	SessionKey string       `json:"session_key,omitempty"`
	Content    string       `json:"content"`
}

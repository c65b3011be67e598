package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/stratlab/strategic-agent/internal/core/domain"
	"github.com/stratlab/strategic-agent/internal/core/ports"
	"github.com/stratlab/strategic-agent/internal/core/prompt"
)

const noResearchDataMarker = "No additional research data provided."

// analysisSpec describes how one single-shot stage is assembled: which
// template it renders, which placeholders come from the request, which come
// from earlier session stages, and where the output lands in the session.
type analysisSpec struct {
	template prompt.TemplateID

	// requestInputs: placeholder names bound from request inputs.
	requestInputs []string
	// sessionInputs: placeholder name -> session key that must exist.
	sessionInputs map[string]string
	// sessionKey: where the output is stored ("" = not chained).
	sessionKey string
}

var analysisSpecs = map[domain.AnalysisType]analysisSpec{
	domain.AnalysisSecondaryResearch: {
		template:      prompt.TemplateSecondaryResearch,
		requestInputs: []string{"research_topics"},
		sessionInputs: map[string]string{"strategic_tension": domain.KeyStrategicTension},
		sessionKey:    domain.KeySecondaryResearch,
	},
	domain.AnalysisQuantitative: {
		template:      prompt.TemplateQuantitative,
		requestInputs: []string{"data_questions", "dataset_profile"},
		sessionInputs: map[string]string{"strategic_tension": domain.KeyStrategicTension},
		sessionKey:    domain.KeyQuantitativeAnalysis,
	},
	domain.AnalysisQualitativeGuide: {
		template:      prompt.TemplateQualitativeGuide,
		requestInputs: []string{"interview_goals", "participant_profile"},
		sessionInputs: map[string]string{"strategic_tension": domain.KeyStrategicTension},
		sessionKey:    domain.KeyQualitativeGuide,
	},
	domain.AnalysisStrategicInsights: {
		template:      prompt.TemplateStrategicInsights,
		sessionInputs: map[string]string{"strategic_tension": domain.KeyStrategicTension},
		sessionKey:    domain.KeyStrategicInsights,
	},
	domain.AnalysisStrategyOptions: {
		template:      prompt.TemplateStrategyOptions,
		sessionInputs: map[string]string{"strategic_insights": domain.KeyStrategicInsights},
		sessionKey:    domain.KeyStrategyOptions,
	},
	domain.AnalysisStrategicBrief: {
		template:      prompt.TemplateStrategicBrief,
		requestInputs: []string{"brief_type"},
		sessionInputs: map[string]string{
			"strategic_tension":  domain.KeyStrategicTension,
			"strategic_insights": domain.KeyStrategicInsights,
		},
	},
	domain.AnalysisFrameworkGetToBy: {
		template: prompt.TemplateFrameworkGetToBy,
		sessionInputs: map[string]string{
			"strategic_tension":  domain.KeyStrategicTension,
			"strategic_insights": domain.KeyStrategicInsights,
		},
	},
	domain.AnalysisFrameworkSMP: {
		template: prompt.TemplateFrameworkSMP,
		sessionInputs: map[string]string{
			"strategic_tension":  domain.KeyStrategicTension,
			"strategic_insights": domain.KeyStrategicInsights,
		},
	},
	domain.AnalysisFrameworkTensionIdea: {
		template: prompt.TemplateFrameworkTensionIdea,
		sessionInputs: map[string]string{
			"strategic_tension":  domain.KeyStrategicTension,
			"strategic_insights": domain.KeyStrategicInsights,
		},
	},
	domain.AnalysisBrandAudit: {
		template:      prompt.TemplateBrandAudit,
		requestInputs: []string{"brand_name", "brand_category"},
	},
	domain.AnalysisBenefitLadder: {
		template:      prompt.TemplateBenefitLadder,
		requestInputs: []string{"brand_name", "brand_category"},
	},
	domain.AnalysisBrandPrism: {
		template:      prompt.TemplateBrandPrism,
		requestInputs: []string{"brand_name", "brand_category"},
	},
	domain.AnalysisCommunicationPlan: {
		template:      prompt.TemplateCommunicationPlan,
		requestInputs: []string{"campaign_goal", "budget_range"},
	},
	domain.AnalysisKPIRecommendations: {
		template:      prompt.TemplateKPIRecommendations,
		requestInputs: []string{"business_goal"},
	},
	domain.AnalysisESOV: {
		template:      prompt.TemplateESOV,
		requestInputs: []string{"market_position"},
	},
	domain.AnalysisEntryPoints: {
		template:      prompt.TemplateEntryPoints,
		requestInputs: []string{"product_category"},
	},
	domain.AnalysisTeamStructure: {
		template:      prompt.TemplateTeamStructure,
		requestInputs: []string{"org_size", "project_scope"},
	},
	domain.AnalysisSWOT: {
		template:      prompt.TemplateSWOT,
		requestInputs: []string{"company_overview"},
	},
	domain.AnalysisPESTLE: {
		template:      prompt.TemplatePESTLE,
		requestInputs: []string{"industry"},
	},
	domain.AnalysisOpportunities: {
		template:      prompt.TemplateOpportunities,
		requestInputs: []string{"market_trends"},
	},
}

var briefFocus = map[string]string{
	"client":   "[Business data and metrics]",
	"creative": "[Creative inspiration and references]",
	"tactical": "[Channels, timeline and resources]",
}

// AnalysisUseCase executes the single-shot workflow stages and chains their
// outputs through the session store.
type AnalysisUseCase struct {
	completer ports.Completer
	sessions  ports.SessionStore
	templates *prompt.Registry
	retry     RetryPolicy
}

func NewAnalysisUseCase(
	completer ports.Completer,
	sessions ports.SessionStore,
	templates *prompt.Registry,
	retry RetryPolicy,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		completer: completer,
		sessions:  sessions,
		templates: templates,
		retry:     retry.normalize(),
	}
}

func (uc *AnalysisUseCase) Generate(
	ctx context.Context,
	sessionID string,
	req domain.AnalysisRequest,
) (*domain.AnalysisResult, error) {
	spec, ok := analysisSpecs[req.Type]
	if !ok {
		return nil, domain.WrapError(domain.ErrMalformed, "analysis", fmt.Errorf("unknown analysis type %q", req.Type))
	}

	if _, err := uc.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	values, err := uc.collectValues(ctx, sessionID, spec, req)
	if err != nil {
		return nil, err
	}

	sessionKey := spec.sessionKey
	if req.Type == domain.AnalysisStrategicBrief {
		focus, briefErr := resolveBrief(values)
		if briefErr != nil {
			return nil, briefErr
		}
		values["brief_focus"] = focus
		sessionKey = values["brief_type"] + "_brief"
		values["brief_type"] = values["brief_type"] + " brief"
	}

	rendered, err := uc.templates.Render(spec.template, values)
	if err != nil {
		return nil, err
	}

	var result domain.CompletionResult
	err = withRetry(ctx, uc.retry, func(ctx context.Context) error {
		var callErr error
		result, callErr = uc.completer.Complete(ctx, rendered, domain.CompletionOptions{})
		return callErr
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Text) == "" {
		return nil, domain.WrapError(domain.ErrProviderUnavailable, string(req.Type), fmt.Errorf("empty completion"))
	}

	if sessionKey != "" {
		if err := uc.sessions.SaveEntry(ctx, sessionID, sessionKey, result.Text); err != nil {
			return nil, fmt.Errorf("save %s: %w", sessionKey, err)
		}
	}

	return &domain.AnalysisResult{
		Type:       req.Type,
		SessionKey: sessionKey,
		Content:    result.Text,
	}, nil
}

func (uc *AnalysisUseCase) collectValues(
	ctx context.Context,
	sessionID string,
	spec analysisSpec,
	req domain.AnalysisRequest,
) (map[string]string, error) {
	values := make(map[string]string)

	for _, name := range spec.requestInputs {
		v := strings.TrimSpace(req.Inputs[name])
		if v == "" {
			return nil, domain.WrapError(domain.ErrMalformed, "analysis",
				fmt.Errorf("%s: input %q is required", req.Type, name))
		}
		values[name] = v
	}

	for placeholder, key := range spec.sessionInputs {
		content, err := uc.sessions.GetEntry(ctx, sessionID, key)
		if err != nil {
			if domain.IsKind(err, domain.ErrNotFound) {
				return nil, domain.WrapError(domain.ErrMalformed, "analysis",
					fmt.Errorf("%s: run the %s stage first", req.Type, key))
			}
			return nil, err
		}
		values[placeholder] = content
	}

	if req.Type == domain.AnalysisStrategicInsights {
		values["research_data"] = uc.collectResearch(ctx, sessionID)
	}

	return values, nil
}

// collectResearch gathers whichever research stages have run. All of them
// are optional for insight generation.
func (uc *AnalysisUseCase) collectResearch(ctx context.Context, sessionID string) string {
	sections := []struct {
		label string
		key   string
	}{
		{"Secondary research", domain.KeySecondaryResearch},
		{"Quantitative analysis", domain.KeyQuantitativeAnalysis},
		{"Qualitative research", domain.KeyQualitativeGuide},
	}

	var b strings.Builder
	for _, s := range sections {
		content, err := uc.sessions.GetEntry(ctx, sessionID, s.key)
		if err != nil || strings.TrimSpace(content) == "" {
			continue
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", s.label, content)
	}
	if b.Len() == 0 {
		return noResearchDataMarker
	}
	return strings.TrimSpace(b.String())
}

func resolveBrief(values map[string]string) (string, error) {
	briefType := strings.ToLower(strings.TrimSpace(values["brief_type"]))
	focus, ok := briefFocus[briefType]
	if !ok {
		return "", domain.WrapError(domain.ErrMalformed, "analysis",
			fmt.Errorf("brief_type must be one of client, creative, tactical; got %q", values["brief_type"]))
	}
	values["brief_type"] = briefType
	return focus, nil
}

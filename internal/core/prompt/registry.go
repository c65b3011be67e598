// Package prompt holds the workflow prompt templates and the registry that
// renders them. Templates are pure data: an identifier, the placeholders
// they reference, and a body with {{name}} markers. Keeping prompt content
// out of the pipeline control flow lets the pipeline be tested with stub
// templates.
package prompt

import (
	"fmt"
	"strings"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

type TemplateID string

const (
	TemplateStrategicTension TemplateID = "strategic_tension"
	TemplateSearchQuery      TemplateID = "search_query"
	TemplateTensionRefine    TemplateID = "tension_refine"

	TemplateSecondaryResearch    TemplateID = "secondary_research"
	TemplateQuantitative         TemplateID = "quantitative_analysis"
	TemplateQualitativeGuide     TemplateID = "qualitative_guide"
	TemplateStrategicInsights    TemplateID = "strategic_insights"
	TemplateStrategyOptions      TemplateID = "strategy_options"
	TemplateStrategicBrief       TemplateID = "strategic_brief"
	TemplateFrameworkGetToBy     TemplateID = "framework_get_to_by"
	TemplateFrameworkSMP         TemplateID = "framework_smp"
	TemplateFrameworkTensionIdea TemplateID = "framework_tension_insight_idea"
	TemplateBrandAudit           TemplateID = "brand_audit"
	TemplateBenefitLadder        TemplateID = "benefit_ladder"
	TemplateBrandPrism           TemplateID = "brand_prism"
	TemplateCommunicationPlan    TemplateID = "communication_plan"
	TemplateKPIRecommendations   TemplateID = "kpi_recommendations"
	TemplateESOV                 TemplateID = "esov_analysis"
	TemplateEntryPoints          TemplateID = "entry_points"
	TemplateTeamStructure        TemplateID = "team_structure"
	TemplateSWOT                 TemplateID = "swot"
	TemplatePESTLE               TemplateID = "pestle"
	TemplateOpportunities        TemplateID = "opportunities_threats"
)

type Template struct {
	ID           TemplateID
	Placeholders []string
	Body         string
}

type Registry struct {
	templates map[TemplateID]Template
}

func NewRegistry() *Registry {
	r := &Registry{templates: make(map[TemplateID]Template, len(builtinTemplates))}
	for _, t := range builtinTemplates {
		r.register(t)
	}
	return r
}

func (r *Registry) register(t Template) {
	if _, exists := r.templates[t.ID]; exists {
		panic(fmt.Sprintf("prompt: duplicate template %q", t.ID))
	}
	r.templates[t.ID] = t
}

// Render materializes a template. Every placeholder the template declares
// must be bound, otherwise the request is malformed.
func (r *Registry) Render(id TemplateID, values map[string]string) (string, error) {
	t, ok := r.templates[id]
	if !ok {
		return "", domain.WrapError(domain.ErrMalformed, "render template", fmt.Errorf("unknown template %q", id))
	}

	pairs := make([]string, 0, len(t.Placeholders)*2)
	for _, name := range t.Placeholders {
		v, bound := values[name]
		if !bound {
			return "", domain.WrapError(domain.ErrMalformed, "render template",
				fmt.Errorf("template %q: placeholder %q is not bound", id, name))
		}
		pairs = append(pairs, "{{"+name+"}}", v)
	}

	out := strings.NewReplacer(pairs...).Replace(t.Body)
	if idx := strings.Index(out, "{{"); idx >= 0 {
		return "", domain.WrapError(domain.ErrMalformed, "render template",
			fmt.Errorf("template %q references an undeclared placeholder near %q", id, snippet(out[idx:])))
	}
	return out, nil
}

func (r *Registry) Has(id TemplateID) bool {
	_, ok := r.templates[id]
	return ok
}

func snippet(s string) string {
	if len(s) > 24 {
		return s[:24]
	}
	return s
}

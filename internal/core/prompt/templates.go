package prompt

// NoRetrievalMarker replaces retrieved context in the refinement prompt when
// the pipeline degraded or the search came back empty. The refinement
// instructions tell the model to leave the draft materially unchanged in
// that case.
const NoRetrievalMarker = "No additional information was retrieved."

var builtinTemplates = []Template{
	{
		ID:           TemplateStrategicTension,
		Placeholders: []string{"business_context", "business_challenge"},
		Body: `Based on the following information:

**Context:** {{business_context}}
**Challenge:** {{business_challenge}}

Formulate the problem as a strategic tension (an apparent paradox) using the format:
"[Group] wants [goal], but [barrier]"

Include:
1. The core tension (1-2 sentences)
2. A short explanation of the conflict (about 50 words)
3. 3 key questions that need answering

Output clean markdown with clear formatting.`,
	},
	{
		ID:           TemplateSearchQuery,
		Placeholders: []string{"draft"},
		Body: `From the strategic tension below, produce one short, focused search
query (at most 12 words) for retrieving supporting market research and
strategy references. Return only the query text, with no quotes and no
explanation.

{{draft}}`,
	},
	{
		ID:           TemplateTensionRefine,
		Placeholders: []string{"draft", "context"},
		Body: `Below is a draft formulation of a strategic tension, followed by
reference material retrieved from a knowledge base.

Draft:
{{draft}}

Reference material:
{{context}}

Revise the draft, keeping its structure and format. Incorporate only
findings that are clearly relevant to the tension. If the reference material
adds nothing, return the draft materially unchanged. Do not invent sources
or facts that are not present above.`,
	},
	{
		ID:           TemplateSecondaryResearch,
		Placeholders: []string{"strategic_tension", "research_topics"},
		Body: `Based on the strategic tension:
{{strategic_tension}}

Run a secondary research analysis covering:
{{research_topics}}

Include:
1. 3-5 relevant, credible source types
2. Main findings (bullet points)
3. How these findings relate to the problem
4. 2-3 preliminary hypotheses

Format: markdown with clear sections.`,
	},
	{
		ID:           TemplateQuantitative,
		Placeholders: []string{"strategic_tension", "data_questions", "dataset_profile"},
		Body: `Based on the strategic tension:
{{strategic_tension}}

Dataset summary:
{{dataset_profile}}

Suggest an approach for analyzing quantitative data that answers:
{{data_questions}}

Include:
1. Recommended statistical methods
2. Suggested visualizations
3. Possible pitfalls
4. How to interpret the results

Format: markdown with examples.`,
	},
	{
		ID:           TemplateQualitativeGuide,
		Placeholders: []string{"strategic_tension", "interview_goals", "participant_profile"},
		Body: `Based on the strategic tension:
{{strategic_tension}}

Create a qualitative interview guide for:
**Goal:** {{interview_goals}}
**Participants:** {{participant_profile}}

Include:
1. 5-7 main open-ended questions
2. Probing techniques (e.g. "Can you tell me more about...")
3. Projective exercises (e.g. "If it were a car, which one would it be?")
4. How to analyze the answers

Format: markdown with logical sections.`,
	},
	{
		ID:           TemplateStrategicInsights,
		Placeholders: []string{"strategic_tension", "research_data"},
		Body: `Based on the following information:
**Strategic tension:** {{strategic_tension}}
**Research data:** {{research_data}}

Generate 3-5 deep strategic insights that:
1. Reveal behavioral or cultural patterns
2. Explain the root of the problem
3. Are surprising or counter-intuitive
4. Lead to strategic opportunities

Format for each insight:
### [Insight title]
**What it is:** [clear description]
**Why it matters:** [business impact]
**How to use it:** [practical application]

Use rich markdown formatting.`,
	},
	{
		ID:           TemplateStrategyOptions,
		Placeholders: []string{"strategic_insights"},
		Body: `Based on these insights:
{{strategic_insights}}

Develop 3 distinct strategic options, each with:
### [Strategy name]
**Core idea:** [1-2 sentences]
**Pros:** [3-5 strengths]
**Cons:** [2-3 limitations]
**Best for:** [when to use this approach]
**Implementation example:** [concrete case]

The strategies must represent fundamentally different approaches.`,
	},
	{
		ID:           TemplateStrategicBrief,
		Placeholders: []string{"brief_type", "strategic_tension", "strategic_insights", "brief_focus"},
		Body: `Write a professional {{brief_type}} based on:
**Strategic tension:** {{strategic_tension}}
**Insights:** {{strategic_insights}}

Use this structure:
### Context
- Background
- Objective
- Target audience

### Challenge
- Core problem
- Barriers
- Opportunities

### Direction
- Tone
- Key message
- Call to action

### Specifics
{{brief_focus}}

Format: professional markdown.`,
	},
	{
		ID:           TemplateFrameworkGetToBy,
		Placeholders: []string{"strategic_tension", "strategic_insights"},
		Body: `Apply the GET/TO/BY framework to this scenario:
**Tension:** {{strategic_tension}}
**Insights:** {{strategic_insights}}

Fill in:
### GET/TO/BY
**GET** [audience]:
**TO** [desired change]:
**BY** [means/mechanism]:

Format: markdown with concrete examples.`,
	},
	{
		ID:           TemplateFrameworkSMP,
		Placeholders: []string{"strategic_tension", "strategic_insights"},
		Body: `Apply the Single Minded Proposition framework to this scenario:
**Tension:** {{strategic_tension}}
**Insights:** {{strategic_insights}}

Define:
### Single Minded Proposition
**Proposition:** [one impactful sentence]
**Reasons to believe:** [3 points]

Format: markdown with concrete examples.`,
	},
	{
		ID:           TemplateFrameworkTensionIdea,
		Placeholders: []string{"strategic_tension", "strategic_insights"},
		Body: `Develop the Tension -> Insight -> Idea narrative for this scenario:
**Tension:** {{strategic_tension}}
**Insights:** {{strategic_insights}}

### Tension -> Insight -> Idea
**Tension:** [recap]
**Key insight:** [from the research]
**Core idea:** [creative solution]

Format: markdown with concrete examples.`,
	},
	{
		ID:           TemplateBrandAudit,
		Placeholders: []string{"brand_name", "brand_category"},
		Body: `Run a complete brand audit for {{brand_name}} ({{brand_category}}) answering 14 critical questions:

1. **Purpose**: Why does the brand exist beyond profit?
2. **Positioning**: How is it unique in consumers' minds?
3. **Architecture**: Masterbrand, House of Brands or hybrid?
4. **Values**: Which 3-5 core values?
5. **Personality**: If it were a person, what would it be like?
6. **Visual identity**: Distinctive elements?
7. **Voice and tone**: How does it communicate?
8. **Experience**: Is the promise consistent at every touchpoint?
9. **Culture**: How is it internalized in the organization?
10. **Differentiation**: Real competitive advantages?
11. **Consistency**: Coherence over time?
12. **Relevance**: Importance to the target audience?
13. **Flexibility**: Ability to evolve?
14. **Resilience**: How does it handle crises?

Format: a list with concise answers for each.`,
	},
	{
		ID:           TemplateBenefitLadder,
		Placeholders: []string{"brand_name", "brand_category"},
		Body: `Build a benefit ladder for {{brand_name}} ({{brand_category}}) with 4 levels:

1. **Attributes**: Physical/functional characteristics
2. **Functional benefits**: What it does for the consumer
3. **Emotional benefits**: How it makes them feel
4. **Purpose**: Larger impact on the world

Example:
| Level | Content |
|-------|---------|
| Attribute | Carbonated drink with cola extract |
| Functional | Refreshes and revitalizes |
| Emotional | Creates moments of happiness |
| Purpose | Inspires optimism and human connection |`,
	},
	{
		ID:           TemplateBrandPrism,
		Placeholders: []string{"brand_name", "brand_category"},
		Body: `Define the Brand Identity Prism for {{brand_name}} ({{brand_category}}) across 6 dimensions:

1. **Physique**: Tangible characteristics
2. **Personality**: Human character
3. **Culture**: Values and origins
4. **Relationship**: Connection with consumers
5. **Self-image**: How users see themselves using it
6. **Reflection**: How it mirrors its consumers

Format: markdown table with examples.`,
	},
	{
		ID:           TemplateCommunicationPlan,
		Placeholders: []string{"campaign_goal", "budget_range"},
		Body: `Create a complete communication plan for:
**Goal:** {{campaign_goal}}
**Budget:** {{budget_range}}

Include:

### 1. Content strategy
- Central theme
- Priority formats
- Tone of voice

### 2. Recommended channels
- Distribution by phase (awareness -> consideration -> conversion)
- Ideal mix for the budget
- Emerging channels to consider

### 3. Calendar
- Campaign phases (teaser -> launch -> sustain)
- Publishing frequency
- Key moments

### 4. Metrics per channel
- Primary KPIs
- Expected benchmarks
- Measurement tools

Format: markdown with tables where useful.`,
	},
	{
		ID:           TemplateKPIRecommendations,
		Placeholders: []string{"business_goal"},
		Body: `For the goal of {{business_goal}}, recommend:

### Primary metrics
- 3-5 main KPIs
- Industry benchmarks
- How to measure (tools)

### Secondary metrics
- Complementary indicators
- Early signals
- Quality metrics

### Common pitfalls
- Vanity metrics to avoid
- Attribution problems
- Common biases

Format: markdown with comparison tables.`,
	},
	{
		ID:           TemplateESOV,
		Placeholders: []string{"market_position"},
		Body: `For a brand in the {{market_position}} market position, analyze:

### Ideal ESOV situation
- Recommended share of voice percentage
- How to allocate by channel
- Strategies to increase SOV

### Current diagnosis
- How to calculate current SOV
- Data sources
- Industry benchmarks

### Strategies
- Tactics for leaders
- Tactics for challengers
- Tactics for niche players

Format: markdown with examples.`,
	},
	{
		ID:           TemplateEntryPoints,
		Placeholders: []string{"product_category"},
		Body: `For the {{product_category}} category, identify:

### 5-7 main category entry points
- Situations
- Needs
- Mental triggers

### Strategies per entry point
- How to be present
- Key messages
- Priority channels

### Mapping example
| Entry point | Strategy | Example |
|------------|----------|---------|
| [Moment]   | [Tactic] | [Case]  |

Format: complete markdown.`,
	},
	{
		ID:           TemplateTeamStructure,
		Placeholders: []string{"org_size", "project_scope"},
		Body: `For a {{org_size}} organization working on {{project_scope}}, recommend:

### Core team
- Critical roles
- Allocation (% of time)
- Key skills

### Operating model
- Structure (centralized vs decentralized)
- Approval processes
- Collaboration tools

### Workload
- Required FTE
- Expected peaks
- Partner needs

### Recommended culture
- Team values
- Rhythms (sprints, reviews)
- Internal metrics

Format: markdown with a suggested org chart.`,
	},
	{
		ID:           TemplateSWOT,
		Placeholders: []string{"company_overview"},
		Body: `Create a detailed SWOT analysis for:
{{company_overview}}

**Strengths:**
- 3-5 internal advantages
- How to sustain them

**Weaknesses:**
- 3-5 internal limitations
- How to mitigate them

**Opportunities:**
- 3-5 positive external factors
- How to capitalize on them

**Threats:**
- 3-5 external risks
- How to prepare

**Prioritization matrix:**
| Item | Impact | Likelihood | Priority |
|------|--------|------------|----------|
| [Item] | [High/Medium/Low] | [High/Medium/Low] | [1-5] |

Format: complete markdown.`,
	},
	{
		ID:           TemplatePESTLE,
		Placeholders: []string{"industry"},
		Body: `Run a PESTLE analysis for the {{industry}} industry:

**Political:**
- 3-5 factors and potential impact

**Economic:**
- 3-5 factors and potential impact

**Social:**
- 3-5 factors and potential impact

**Technological:**
- 3-5 factors and potential impact

**Legal:**
- 3-5 factors and potential impact

**Environmental:**
- 3-5 factors and potential impact

**Recommendations:**
- How to prepare
- Signals of change

Format: markdown with a summary table.`,
	},
	{
		ID:           TemplateOpportunities,
		Placeholders: []string{"market_trends"},
		Body: `Based on these trends:
{{market_trends}}

Identify:

### 3-5 strategic opportunities
- Description
- Time window
- Required resources
- Analogous cases

### 3-5 potential threats
- Nature of the risk
- Likelihood
- Warning signals
- Contingency plans

**Prioritization matrix:**
| Item | Impact | Readiness | Recommended action |
|------|--------|-----------|--------------------|
| [O/T] | [1-5] | [1-5] | [Directive] |

Format: complete markdown.`,
	},
}

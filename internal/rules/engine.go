// Package rules evaluates a categorized request against static insurer
// eligibility criteria and produces a pre-assessment for the prompt.
package rules

import (
	"strings"

	"github.com/caldermed/priorauth/internal/model"
)

// Engine evaluates requests against the static rule table. The table is
// read-only, so a single Engine is safe for concurrent use.
type Engine struct{}

// NewEngine creates a rule engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate produces a RuleAssessment for a (category, insurer) pair. It is
// total: an unrecognized insurer degrades to the category-level defaults,
// and a category with no rules yields an empty assessment, never an error.
func (e *Engine) Evaluate(category model.TreatmentCategory, insuranceType string, req model.Request) model.RuleAssessment {
	r, ok := lookupRule(model.NormalizeInsurer(insuranceType), category)
	if !ok {
		return model.RuleAssessment{
			SupportingFactors:     []string{},
			BlockingFactors:       []string{},
			RequiredDocumentation: []string{},
		}
	}

	text := strings.ToLower(req.History + " " + req.ProviderNotes)

	assessment := model.RuleAssessment{
		SupportingFactors:     []string{},
		BlockingFactors:       []string{},
		RequiredDocumentation: append([]string{}, r.documentation...),
	}

	unknown := 0
	for _, cond := range r.supporting {
		if matchesAny(text, cond.patterns) {
			assessment.SupportingFactors = append(assessment.SupportingFactors, cond.signal)
			continue
		}
		// Unknown: no signal either way, ask for the paperwork instead.
		unknown++
		if cond.doc != "" {
			assessment.RequiredDocumentation = appendUnique(assessment.RequiredDocumentation, cond.doc)
		}
	}

	for _, cond := range r.blocking {
		if matchesAny(text, cond.patterns) {
			assessment.BlockingFactors = append(assessment.BlockingFactors, cond.signal)
		} else if cond.doc != "" {
			assessment.RequiredDocumentation = appendUnique(assessment.RequiredDocumentation, cond.doc)
		}
	}

	assessment.RuleConfidenceHint = confidenceHint(r.confidenceHint,
		len(assessment.SupportingFactors), len(assessment.BlockingFactors), unknown)

	return assessment
}

// lookupRule resolves (insurer, category) with fallback to the
// category-level defaults.
func lookupRule(insurer model.InsuranceType, category model.TreatmentCategory) (rule, bool) {
	if byCategory, ok := ruleTable[insurer]; ok {
		if r, ok := byCategory[category]; ok {
			return r, true
		}
	}
	r, ok := defaultRules[category]
	return r, ok
}

// confidenceHint derives the advisory hint from the rule baseline and the
// observed signals: +8 per supporting factor, -12 per blocking factor,
// -5 per unknown condition, clamped to [0, 100].
func confidenceHint(base, supporting, blocking, unknown int) int {
	hint := base + supporting*8 - blocking*12 - unknown*5
	if hint < 0 {
		return 0
	}
	if hint > 100 {
		return 100
	}
	return hint
}

func matchesAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}

// Package prompt renders a request, its category, and the rule engine's
// pre-assessment into a bounded, deterministic instruction for the model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/caldermed/priorauth/internal/model"
)

// Prompt is a finished model instruction together with the generation
// constraints communicated to the invocation layer.
type Prompt struct {
	Text         string
	MaxTokens    int
	StopSequence string
}

// Builder renders prompts under a fixed free-text budget.
type Builder struct {
	textBudget int
	maxTokens  int
}

const (
	defaultTextBudget = 4000
	defaultMaxTokens  = 512

	// stopSequence ends generation after the JSON object: the model is
	// instructed to emit nothing past the closing brace, so the first
	// blank line after it is a safe cut point.
	stopSequence = "\n\n"
)

// NewBuilder creates a prompt builder. Zero values select defaults.
func NewBuilder(textBudget, maxTokens int) *Builder {
	if textBudget <= 0 {
		textBudget = defaultTextBudget
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Builder{textBudget: textBudget, maxTokens: maxTokens}
}

// Build renders the instruction. Free-text fields share a character
// budget enforced by truncating the longest field first; the instruction
// and output-format sections are never truncated.
func (b *Builder) Build(req model.Request, category model.TreatmentCategory, assessment model.RuleAssessment) Prompt {
	fields := []struct {
		label string
		value string
	}{
		{"Treatment", req.TreatmentDescription},
		{"Patient", req.PatientInfo},
		{"History", req.History},
		{"Provider notes", req.ProviderNotes},
	}

	values := make([]string, len(fields))
	for i := range fields {
		values[i] = fields[i].value
	}
	truncateToBudget(values, b.textBudget)

	var sb strings.Builder
	sb.WriteString("You are a medical prior-authorization adjudicator. ")
	sb.WriteString("Analyze this request against the insurer criteria and respond with a single JSON object, nothing else.\n\n")

	sb.WriteString("AUTHORIZATION REQUEST:\n")
	for i, f := range fields {
		value := values[i]
		if value == "" {
			value = "Not provided"
		}
		fmt.Fprintf(&sb, "%s: %s\n", f.label, value)
	}
	fmt.Fprintf(&sb, "Category: %s\n", category)
	fmt.Fprintf(&sb, "Insurer: %s\n", model.NormalizeInsurer(req.InsuranceType))
	fmt.Fprintf(&sb, "Urgency: %s\n", orDefault(req.Urgency, "standard"))

	sb.WriteString("\nRULE PRE-ASSESSMENT:\n")
	writeList(&sb, "Supporting factors", assessment.SupportingFactors)
	writeList(&sb, "Blocking factors", assessment.BlockingFactors)
	writeList(&sb, "Required documentation", assessment.RequiredDocumentation)
	fmt.Fprintf(&sb, "Rule confidence hint: %d/100 (advisory only)\n", assessment.RuleConfidenceHint)

	sb.WriteString(`
Respond with exactly this JSON format, with no text before or after the object:
{
  "decision": "APPROVED",
  "reason": "One sentence justification",
  "confidence_score": 85,
  "missing_documentation": [],
  "alternative_treatments": [],
  "appeal_guidance": ""
}

"decision" must be one of APPROVED, DENIED, PENDING.
"confidence_score" must be an integer from 0 to 100.
List concrete items in "missing_documentation" when documentation gaps block approval.

JSON:
`)

	return Prompt{
		Text:         sb.String(),
		MaxTokens:    b.maxTokens,
		StopSequence: stopSequence,
	}
}

// truncateToBudget trims values in place until their combined length fits
// the budget, always cutting the longest field first.
func truncateToBudget(values []string, budget int) {
	for {
		total := 0
		longest := 0
		for i, v := range values {
			total += len(v)
			if len(v) > len(values[longest]) {
				longest = i
			}
		}
		if total <= budget || len(values[longest]) == 0 {
			return
		}

		secondLen := 0
		for i, v := range values {
			if i != longest && len(v) > secondLen {
				secondLen = len(v)
			}
		}

		excess := total - budget
		cut := len(values[longest]) - secondLen
		if cut <= 0 || cut > excess {
			cut = excess
		}
		if cut > len(values[longest]) {
			cut = len(values[longest])
		}
		values[longest] = strings.TrimSpace(values[longest][:len(values[longest])-cut])
	}
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s: none identified\n", label)
		return
	}
	fmt.Fprintf(sb, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

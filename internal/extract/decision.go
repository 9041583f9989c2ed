// Package extract turns raw model output into a validated decision draft,
// falling back to a conservative PENDING decision whenever the model
// fails or returns something unusable.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/caldermed/priorauth/internal/llm"
	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/prompt"
	"github.com/sirupsen/logrus"
)

// FallbackReason is the fixed reason prefix of every synthesized decision.
const FallbackReason = "automated analysis incomplete, manual review required"

// defaultConfidence is assumed when the model reply omits the score.
const defaultConfidence = 75

// Extractor invokes the model and parses its output. At most one model
// call happens per Extract; retries are the caller's concern.
type Extractor struct {
	provider llm.Provider
	log      *logrus.Logger
}

// NewExtractor creates an extractor. A nil provider routes every request
// straight to the fallback decision.
func NewExtractor(provider llm.Provider, log *logrus.Logger) *Extractor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Extractor{provider: provider, log: log}
}

// Extract runs the invoke -> locate -> parse -> validate chain and always
// returns a well-formed draft; every failure path ends in Fallback.
func (e *Extractor) Extract(ctx context.Context, p prompt.Prompt) *model.DecisionDraft {
	if e.provider == nil {
		return Fallback("no model provider configured")
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:       p.Text,
		MaxTokens:    p.MaxTokens,
		StopSequence: p.StopSequence,
	})
	if err != nil {
		e.log.WithError(err).Warn("model invocation failed")
		return Fallback("model invocation failed")
	}

	draft, err := ParseDecision(resp.Text)
	if err != nil {
		e.log.WithError(err).WithField("model", resp.Model).Warn("model output rejected")
		return Fallback(err.Error())
	}

	return draft
}

// rawDecision mirrors the JSON contract given to the model. Confidence is
// a float pointer so "absent" and "zero" stay distinguishable and so
// non-integer replies still parse.
type rawDecision struct {
	Decision              string   `json:"decision"`
	Reason                string   `json:"reason"`
	ConfidenceScore       *float64 `json:"confidence_score"`
	MissingDocumentation  []string `json:"missing_documentation"`
	AlternativeTreatments []string `json:"alternative_treatments"`
	AppealGuidance        string   `json:"appeal_guidance"`
}

// ParseDecision locates and validates the first usable JSON object in the
// raw model text.
func ParseDecision(text string) (*model.DecisionDraft, error) {
	candidates := jsonObjects(text)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var lastErr error
	for _, candidate := range candidates {
		var raw rawDecision
		if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
			lastErr = fmt.Errorf("malformed JSON in model response")
			continue
		}

		draft, err := validateDecision(raw)
		if err != nil {
			lastErr = err
			continue
		}
		return draft, nil
	}

	return nil, lastErr
}

// validateDecision enforces the decision contract: a known decision value
// and a non-empty reason are required; everything else has a default.
func validateDecision(raw rawDecision) (*model.DecisionDraft, error) {
	decision := model.Decision(strings.ToUpper(strings.TrimSpace(raw.Decision)))
	if !model.ValidDecision(decision) {
		if raw.Decision == "" {
			return nil, fmt.Errorf("decision field missing from model response")
		}
		return nil, fmt.Errorf("invalid decision value %q", raw.Decision)
	}

	reason := strings.TrimSpace(raw.Reason)
	if reason == "" {
		return nil, fmt.Errorf("reason field missing from model response")
	}

	confidence := defaultConfidence
	if raw.ConfidenceScore != nil {
		confidence = clampConfidence(*raw.ConfidenceScore)
	}

	return &model.DecisionDraft{
		Decision:              decision,
		Reason:                reason,
		ConfidenceScore:       confidence,
		MissingDocumentation:  emptyIfNil(raw.MissingDocumentation),
		AlternativeTreatments: emptyIfNil(raw.AlternativeTreatments),
		AppealGuidance:        strings.TrimSpace(raw.AppealGuidance),
	}, nil
}

// Fallback synthesizes the conservative PENDING decision used whenever
// automated analysis cannot be trusted.
func Fallback(cause string) *model.DecisionDraft {
	reason := FallbackReason
	if cause != "" {
		reason = fmt.Sprintf("%s (%s)", FallbackReason, cause)
	}
	return &model.DecisionDraft{
		Decision:              model.DecisionPending,
		Reason:                reason,
		ConfidenceScore:       0,
		MissingDocumentation:  []string{},
		AlternativeTreatments: []string{},
		AppealGuidance:        "",
	}
}

func clampConfidence(v float64) int {
	score := int(math.Round(v))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

package model

// Decision is the adjudication outcome of a prior-authorization request.
type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionDenied   Decision = "DENIED"
	DecisionPending  Decision = "PENDING"
)

// ValidDecision reports whether d is one of the three allowed outcomes.
func ValidDecision(d Decision) bool {
	switch d {
	case DecisionApproved, DecisionDenied, DecisionPending:
		return true
	}
	return false
}

// RuleAssessment is the rule engine's pre-screening of a request.
// It is recomputed on every evaluation and never persisted on its own.
type RuleAssessment struct {
	SupportingFactors     []string `json:"supporting_factors"`
	BlockingFactors       []string `json:"blocking_factors"`
	RequiredDocumentation []string `json:"required_documentation"`

	// RuleConfidenceHint is advisory only (0-100). It is shown to the
	// model but never blended into the final confidence score.
	RuleConfidenceHint int `json:"rule_confidence_hint"`
}

// DecisionDraft is the model-derived portion of a decision, before the
// orchestrator stamps request identity, category, and timing.
type DecisionDraft struct {
	Decision              Decision `json:"decision"`
	Reason                string   `json:"reason"`
	ConfidenceScore       int      `json:"confidence_score"`
	MissingDocumentation  []string `json:"missing_documentation"`
	AlternativeTreatments []string `json:"alternative_treatments"`
	AppealGuidance        string   `json:"appeal_guidance"`
}

// DecisionRecord is the authoritative output of one pipeline run.
// A record is terminal: it is never edited, only superseded by a new run
// for the same request_id.
type DecisionRecord struct {
	Decision              Decision `json:"decision"`
	Reason                string   `json:"reason"`
	ConfidenceScore       int      `json:"confidence_score"`
	MissingDocumentation  []string `json:"missing_documentation"`
	AlternativeTreatments []string `json:"alternative_treatments"`
	AppealGuidance        string   `json:"appeal_guidance"`

	RequestID             string            `json:"request_id"`
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
	TreatmentCategory     TreatmentCategory `json:"treatment_category"`
}

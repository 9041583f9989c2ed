// Package pipeline sequences the decision stages for one request:
// categorize, evaluate rules, build the prompt, extract the decision,
// stamp identity and timing, and dispatch persistence.
package pipeline

import (
	"context"
	"time"

	"github.com/caldermed/priorauth/internal/categorize"
	"github.com/caldermed/priorauth/internal/extract"
	"github.com/caldermed/priorauth/internal/intake"
	"github.com/caldermed/priorauth/internal/llm"
	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/prompt"
	"github.com/caldermed/priorauth/internal/rules"
	"github.com/caldermed/priorauth/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Pipeline orchestrates the complete adjudication process. It holds no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	engine    *rules.Engine
	builder   *prompt.Builder
	extractor *extract.Extractor
	writer    *store.Writer // optional, nil disables persistence
	log       *logrus.Logger
}

// New creates a pipeline. A nil provider makes every request resolve to
// the PENDING fallback; a nil writer disables persistence.
func New(cfg *model.Config, provider llm.Provider, writer *store.Writer, log *logrus.Logger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		engine:    rules.NewEngine(),
		builder:   prompt.NewBuilder(cfg.Prompt.TextBudget, cfg.LLM.MaxTokens),
		extractor: extract.NewExtractor(provider, log),
		writer:    writer,
		log:       log,
	}
}

// Process adjudicates a single request. It fails fast with a
// ValidationError on malformed input; otherwise it always returns a
// well-formed record, conservative PENDING included.
func (p *Pipeline) Process(ctx context.Context, req model.Request) (*model.DecisionRecord, error) {
	start := time.Now()

	req = intake.CleanRequest(req)
	if req.TreatmentDescription == "" {
		return nil, model.NewValidationError("treatment_description", "must not be empty")
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	category := categorize.Categorize(req.TreatmentDescription)
	assessment := p.engine.Evaluate(category, req.InsuranceType, req)
	instruction := p.builder.Build(req, category, assessment)
	draft := p.extractor.Extract(ctx, instruction)

	record := &model.DecisionRecord{
		Decision:              draft.Decision,
		Reason:                draft.Reason,
		ConfidenceScore:       draft.ConfidenceScore,
		MissingDocumentation:  draft.MissingDocumentation,
		AlternativeTreatments: draft.AlternativeTreatments,
		AppealGuidance:        draft.AppealGuidance,
		RequestID:             req.RequestID,
		TreatmentCategory:     category,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
	}

	// Persistence is a best-effort side effect; the caller gets the
	// record regardless of what happens to the audit trail.
	if p.writer != nil {
		p.writer.Enqueue(record)
	}

	p.log.WithFields(logrus.Fields{
		"request_id": record.RequestID,
		"category":   record.TreatmentCategory,
		"decision":   record.Decision,
		"confidence": record.ConfidenceScore,
		"seconds":    record.ProcessingTimeSeconds,
	}).Info("request adjudicated")

	return record, nil
}

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/caldermed/priorauth/internal/llm"
	"github.com/caldermed/priorauth/internal/model"
	"github.com/caldermed/priorauth/internal/store"
	"github.com/sirupsen/logrus"
)

type stubProvider struct {
	text    string
	err     error
	prompts []string
}

func (s *stubProvider) Name() string                       { return "stub" }
func (s *stubProvider) IsAvailable(_ context.Context) bool { return true }
func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.prompts = append(s.prompts, req.Prompt)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Text: s.text, Model: "stub-model"}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func mriRequest() model.Request {
	return model.Request{
		TreatmentDescription: "MRI of lumbar spine",
		InsuranceType:        "bcbs",
		History:              "Six weeks of conservative treatments failed",
	}
}

func TestProcess_EndToEnd(t *testing.T) {
	provider := &stubProvider{
		text: `{"decision": "APPROVED", "reason": "Conservative treatment failure documented", "confidence_score": 85}`,
	}
	p := New(model.DefaultConfig(), provider, nil, quietLogger())

	record, err := p.Process(context.Background(), mriRequest())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if record.Decision != model.DecisionApproved {
		t.Errorf("Expected APPROVED, got %s", record.Decision)
	}
	if record.TreatmentCategory != model.CategoryMRI {
		t.Errorf("Expected mri category, got %s", record.TreatmentCategory)
	}
	if record.RequestID == "" {
		t.Error("Expected a generated request id")
	}
	if record.ProcessingTimeSeconds < 0 {
		t.Errorf("Expected non-negative processing time, got %f", record.ProcessingTimeSeconds)
	}

	// The prompt carried both the request and the rule pre-assessment.
	if len(provider.prompts) != 1 {
		t.Fatalf("Expected one model call, got %d", len(provider.prompts))
	}
	prompt := provider.prompts[0]
	for _, want := range []string{
		"MRI of lumbar spine",
		"documented failure of conservative treatment",
		"Insurer: bcbs",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestProcess_EmptyTreatmentDescription(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil, quietLogger())

	_, err := p.Process(context.Background(), model.Request{InsuranceType: "bcbs"})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}
	if verr.Field != "treatment_description" {
		t.Errorf("Unexpected field: %s", verr.Field)
	}
}

func TestProcess_MarkupOnlyDescriptionRejected(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil, quietLogger())

	req := model.Request{TreatmentDescription: "<p>   </p>"}
	if _, err := p.Process(context.Background(), req); err == nil {
		t.Fatal("Expected validation error for markup-only description")
	}
}

func TestProcess_NoProviderFallsBackToPending(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil, quietLogger())

	record, err := p.Process(context.Background(), mriRequest())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if record.Decision != model.DecisionPending {
		t.Errorf("Expected PENDING fallback, got %s", record.Decision)
	}
	if record.ConfidenceScore != 0 {
		t.Errorf("Expected confidence 0, got %d", record.ConfidenceScore)
	}
	if record.TreatmentCategory != model.CategoryMRI {
		t.Errorf("Category must still be derived, got %s", record.TreatmentCategory)
	}
}

func TestProcess_ProviderErrorFallsBackToPending(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	p := New(model.DefaultConfig(), provider, nil, quietLogger())

	record, err := p.Process(context.Background(), mriRequest())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if record.Decision != model.DecisionPending {
		t.Errorf("Expected PENDING fallback, got %s", record.Decision)
	}
	if !strings.Contains(record.Reason, "manual review required") {
		t.Errorf("Expected fallback reason, got %q", record.Reason)
	}
}

func TestProcess_KeepsCallerRequestID(t *testing.T) {
	p := New(model.DefaultConfig(), nil, nil, quietLogger())

	req := mriRequest()
	req.RequestID = "caller-id-7"

	record, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if record.RequestID != "caller-id-7" {
		t.Errorf("Expected caller id preserved, got %s", record.RequestID)
	}
}

func TestProcess_PersistsRecord(t *testing.T) {
	s := store.NewMemoryStore()
	writer := store.NewWriter(s, 16, quietLogger())

	provider := &stubProvider{
		text: `{"decision": "DENIED", "reason": "Missing documentation", "confidence_score": 70}`,
	}
	p := New(model.DefaultConfig(), provider, writer, quietLogger())

	req := mriRequest()
	req.RequestID = "persisted-1"

	if _, err := p.Process(context.Background(), req); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	writer.Close()

	got, err := s.Get(context.Background(), "persisted-1")
	if err != nil {
		t.Fatalf("Record not persisted: %v", err)
	}
	if got.Decision != model.DecisionDenied {
		t.Errorf("Expected DENIED, got %s", got.Decision)
	}
}

func TestProcess_Idempotent(t *testing.T) {
	provider := &stubProvider{
		text: `{"decision": "APPROVED", "reason": "ok", "confidence_score": 85}`,
	}
	p := New(model.DefaultConfig(), provider, nil, quietLogger())

	req := mriRequest()
	req.RequestID = "same-id"

	first, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	second, err := p.Process(context.Background(), req)
	if err != nil {
		t.Fatalf("Second process failed: %v", err)
	}

	if first.Decision != second.Decision ||
		first.ConfidenceScore != second.ConfidenceScore ||
		first.TreatmentCategory != second.TreatmentCategory ||
		first.RequestID != second.RequestID {
		t.Error("Re-processing the same request must yield the same decision")
	}

	// Both model calls saw an identical prompt.
	if provider.prompts[0] != provider.prompts[1] {
		t.Error("Prompts for identical requests must be identical")
	}
}

package rules

import (
	"testing"

	"github.com/caldermed/priorauth/internal/model"
)

func TestEvaluate_BCBSMRISupporting(t *testing.T) {
	engine := NewEngine()

	req := model.Request{
		History: "Six weeks of conservative treatments failed, persistent pain rated 8/10",
	}

	assessment := engine.Evaluate(model.CategoryMRI, "bcbs", req)

	if !containsString(assessment.SupportingFactors, "documented failure of conservative treatment") {
		t.Errorf("Expected conservative treatment failure in supporting factors, got %v", assessment.SupportingFactors)
	}
	if !containsString(assessment.SupportingFactors, "persistent pain documented") {
		t.Errorf("Expected persistent pain in supporting factors, got %v", assessment.SupportingFactors)
	}
	if len(assessment.BlockingFactors) != 0 {
		t.Errorf("Expected no blocking factors, got %v", assessment.BlockingFactors)
	}
	if !containsString(assessment.RequiredDocumentation, "Six weeks of conservative treatment records") {
		t.Errorf("Expected baseline documentation, got %v", assessment.RequiredDocumentation)
	}
}

func TestEvaluate_BlockingFactor(t *testing.T) {
	engine := NewEngine()

	req := model.Request{
		History: "Treatment naive, no prior medication attempted",
	}

	assessment := engine.Evaluate(model.CategoryDiabetesMed, "bcbs", req)

	if !containsString(assessment.BlockingFactors, "no prior first-line therapy attempted") {
		t.Errorf("Expected blocking factor, got %v", assessment.BlockingFactors)
	}
}

func TestEvaluate_UnknownConditionRequestsDocumentation(t *testing.T) {
	engine := NewEngine()

	// History says nothing about HbA1c or prior medications, so both
	// supporting conditions are unknown and their documentation is added.
	req := model.Request{History: "Patient requests new medication"}

	assessment := engine.Evaluate(model.CategoryDiabetesMed, "bcbs", req)

	if len(assessment.SupportingFactors) != 0 {
		t.Errorf("Expected no supporting factors, got %v", assessment.SupportingFactors)
	}
	if !containsString(assessment.RequiredDocumentation, "Recent HbA1c lab result") {
		t.Errorf("Expected HbA1c documentation request, got %v", assessment.RequiredDocumentation)
	}
	if !containsString(assessment.RequiredDocumentation, "Records of two prior medication trials (metformin, sulfonylurea)") {
		t.Errorf("Expected medication trial documentation request, got %v", assessment.RequiredDocumentation)
	}
}

func TestEvaluate_UnknownInsurerUsesDefaults(t *testing.T) {
	engine := NewEngine()

	req := model.Request{History: "failed conservative treatment for 8 weeks"}

	assessment := engine.Evaluate(model.CategoryMRI, "acme health", req)

	if !containsString(assessment.SupportingFactors, "documented failure of conservative treatment") {
		t.Errorf("Expected default MRI rule to apply, got %v", assessment.SupportingFactors)
	}
	if !containsString(assessment.RequiredDocumentation, "Conservative treatment records") {
		t.Errorf("Expected default documentation, got %v", assessment.RequiredDocumentation)
	}
}

func TestEvaluate_InsurerWithoutCategoryFallsBack(t *testing.T) {
	engine := NewEngine()

	// Humana has no oncology entry, the category default applies.
	req := model.Request{History: "biopsy confirmed diagnosis"}

	assessment := engine.Evaluate(model.CategoryOncology, "humana", req)

	if !containsString(assessment.SupportingFactors, "diagnosis confirmation documented") {
		t.Errorf("Expected default oncology rule, got %v", assessment.SupportingFactors)
	}
}

func TestEvaluate_CategoryOtherNeverEmpty(t *testing.T) {
	engine := NewEngine()

	assessment := engine.Evaluate(model.CategoryOther, "bcbs", model.Request{})

	if assessment.SupportingFactors == nil || assessment.BlockingFactors == nil || assessment.RequiredDocumentation == nil {
		t.Fatal("Expected non-nil slices in assessment")
	}
	if !containsString(assessment.RequiredDocumentation, "Clinical documentation supporting medical necessity") {
		t.Errorf("Expected generic documentation, got %v", assessment.RequiredDocumentation)
	}
	if assessment.RuleConfidenceHint < 0 || assessment.RuleConfidenceHint > 100 {
		t.Errorf("Hint out of range: %d", assessment.RuleConfidenceHint)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	engine := NewEngine()
	req := model.Request{
		History:       "conservative treatments failed, persistent pain",
		ProviderNotes: "MRI recommended by orthopedist",
	}

	first := engine.Evaluate(model.CategoryMRI, "bcbs", req)
	for i := 0; i < 5; i++ {
		again := engine.Evaluate(model.CategoryMRI, "bcbs", req)
		if len(again.SupportingFactors) != len(first.SupportingFactors) ||
			again.RuleConfidenceHint != first.RuleConfidenceHint {
			t.Fatal("Evaluate is not deterministic")
		}
	}
}

func TestConfidenceHint_Clamped(t *testing.T) {
	if got := confidenceHint(10, 0, 5, 5); got != 0 {
		t.Errorf("Expected hint clamped to 0, got %d", got)
	}
	if got := confidenceHint(95, 10, 0, 0); got != 100 {
		t.Errorf("Expected hint clamped to 100, got %d", got)
	}
	if got := confidenceHint(60, 2, 1, 1); got != 59 {
		t.Errorf("Expected 60+16-12-5=59, got %d", got)
	}
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

package intake

import (
	"strings"
	"testing"

	"github.com/caldermed/priorauth/internal/model"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "MRI of lumbar spine", "MRI of lumbar spine"},
		{"trims whitespace", "  MRI of lumbar spine  ", "MRI of lumbar spine"},
		{"collapses whitespace", "MRI  of\n\tlumbar   spine", "MRI of lumbar spine"},
		{"strips tags", "<p>MRI of <b>lumbar</b> spine</p>", "MRI of lumbar spine"},
		{"drops script content", "<p>MRI</p><script>alert('x')</script>", "MRI"},
		{"drops style content", "<style>p{color:red}</style>MRI", "MRI"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanText(tt.in)
			if got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanRequest(t *testing.T) {
	req := model.Request{
		RequestID:            "  req-123  ",
		TreatmentDescription: "<div>MRI of lumbar spine</div>",
		InsuranceType:        " bcbs ",
		PatientInfo:          "<b>45-year-old</b> male",
		History:              "conservative   treatments failed",
	}

	cleaned := CleanRequest(req)

	if cleaned.RequestID != "req-123" {
		t.Errorf("Unexpected request id: %q", cleaned.RequestID)
	}
	if cleaned.TreatmentDescription != "MRI of lumbar spine" {
		t.Errorf("Unexpected treatment: %q", cleaned.TreatmentDescription)
	}
	if cleaned.InsuranceType != "bcbs" {
		t.Errorf("Unexpected insurance type: %q", cleaned.InsuranceType)
	}
	if cleaned.PatientInfo != "45-year-old male" {
		t.Errorf("Unexpected patient info: %q", cleaned.PatientInfo)
	}
	if cleaned.History != "conservative treatments failed" {
		t.Errorf("Unexpected history: %q", cleaned.History)
	}

	// Original untouched
	if !strings.Contains(req.TreatmentDescription, "<div>") {
		t.Error("CleanRequest must not mutate its argument")
	}
}

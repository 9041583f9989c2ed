// Package categorize maps a free-text treatment description to a closed
// set of treatment categories via keyword matching.
package categorize

import (
	"strings"

	"github.com/caldermed/priorauth/internal/model"
)

// categoryKeywords pairs a category with the keywords that select it.
type categoryKeywords struct {
	category model.TreatmentCategory
	keywords []string
}

// categoryTable is scanned in order; the first category with a matching
// keyword wins, so more specific categories come first (oncology before
// generic medication, mri before generic imaging). Read-only after init.
var categoryTable = []categoryKeywords{
	{model.CategoryOncology, []string{
		"chemotherapy", "chemo", "radiation therapy", "radiotherapy",
		"oncology", "cancer", "tumor", "tumour", "immunotherapy", "biopsy",
	}},
	{model.CategoryCardiology, []string{
		"cardiology", "cardiac", "heart", "ecg", "ekg", "echocardiogram",
		"stent", "angioplasty", "arrhythmia",
	}},
	{model.CategoryMentalHealth, []string{
		"psychiatry", "psychiatric", "psychology", "psychotherapy",
		"depression", "anxiety", "mental health", "behavioral health",
		"counseling",
	}},
	{model.CategoryDiabetesMed, []string{
		"diabetes", "diabetic", "metformin", "insulin", "hba1c", "a1c",
		"glucose", "glycemic", "ozempic", "glp-1", "semaglutide",
	}},
	{model.CategoryMRI, []string{
		"mri", "magnetic resonance",
	}},
	{model.CategoryImaging, []string{
		"ct scan", "cat scan", "scanner", "ultrasound", "x-ray", "xray",
		"radiograph", "pet scan", "imaging", "mammogram",
	}},
	{model.CategoryPhysicalTherapy, []string{
		"physical therapy", "physiotherapy", "rehabilitation", "rehab",
		"occupational therapy",
	}},
	{model.CategoryOrthopedic, []string{
		"orthopedic", "orthopaedic", "joint replacement", "knee replacement",
		"hip replacement", "fracture", "arthroscopy", "spinal fusion",
	}},
	{model.CategorySurgery, []string{
		"surgery", "surgical", "operation", "resection", "transplant",
	}},
	{model.CategoryMedicalEquipment, []string{
		"wheelchair", "cpap", "prosthetic", "prosthesis", "medical equipment",
		"insulin pump", "hospital bed", "oxygen concentrator",
	}},
}

// Categorize maps a treatment description to its category. It is pure and
// total: empty or unmatched text returns CategoryOther, never an error.
func Categorize(text string) model.TreatmentCategory {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return model.CategoryOther
	}

	for _, entry := range categoryTable {
		for _, keyword := range entry.keywords {
			if strings.Contains(normalized, keyword) {
				return entry.category
			}
		}
	}

	return model.CategoryOther
}

// Categories returns the closed category set in priority order, ending
// with CategoryOther.
func Categories() []model.TreatmentCategory {
	out := make([]model.TreatmentCategory, 0, len(categoryTable)+1)
	for _, entry := range categoryTable {
		out = append(out, entry.category)
	}
	return append(out, model.CategoryOther)
}

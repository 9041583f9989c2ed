package model

import "strings"

// Request is a prior-authorization request as received at intake.
// It is immutable once created; the pipeline never mutates it.
type Request struct {
	RequestID            string `json:"request_id,omitempty"`   // Caller-supplied or generated at intake
	TreatmentDescription string `json:"treatment_description"`  // Required, free text
	InsuranceType        string `json:"insurance_type"`         // One of the InsuranceType set (normalized)
	PatientInfo          string `json:"patient_info,omitempty"` // Optional free text
	Urgency              string `json:"urgency,omitempty"`
	History              string `json:"history,omitempty"`
	ProviderNotes        string `json:"provider_notes,omitempty"`
}

// InsuranceType identifies a supported insurer.
type InsuranceType string

const (
	InsurerBCBS             InsuranceType = "bcbs"
	InsurerAetna            InsuranceType = "aetna"
	InsurerUnitedHealthcare InsuranceType = "unitedhealthcare"
	InsurerCigna            InsuranceType = "cigna"
	InsurerHumana           InsuranceType = "humana"
	InsurerOther            InsuranceType = "other"
)

// insurerAliases maps common spellings to the canonical insurer value.
var insurerAliases = map[string]InsuranceType{
	"bcbs":             InsurerBCBS,
	"bluecross":        InsurerBCBS,
	"blue cross":       InsurerBCBS,
	"blue_cross":       InsurerBCBS,
	"aetna":            InsurerAetna,
	"unitedhealthcare": InsurerUnitedHealthcare,
	"unitedhealth":     InsurerUnitedHealthcare,
	"united":           InsurerUnitedHealthcare,
	"uhc":              InsurerUnitedHealthcare,
	"cigna":            InsurerCigna,
	"humana":           InsurerHumana,
}

// NormalizeInsurer maps a raw insurance_type value to the canonical set.
// Unrecognized insurers degrade to InsurerOther, never an error.
func NormalizeInsurer(raw string) InsuranceType {
	key := strings.ToLower(strings.TrimSpace(raw))
	if insurer, ok := insurerAliases[key]; ok {
		return insurer
	}
	return InsurerOther
}

// TreatmentCategory is a coarse classification bucket used to select
// applicable insurer rules.
type TreatmentCategory string

const (
	CategoryOncology         TreatmentCategory = "oncology"
	CategoryCardiology       TreatmentCategory = "cardiology"
	CategoryMentalHealth     TreatmentCategory = "mental_health"
	CategoryDiabetesMed      TreatmentCategory = "diabetes_medication"
	CategoryMRI              TreatmentCategory = "mri"
	CategoryImaging          TreatmentCategory = "imaging"
	CategoryPhysicalTherapy  TreatmentCategory = "physical_therapy"
	CategoryOrthopedic       TreatmentCategory = "orthopedic"
	CategorySurgery          TreatmentCategory = "surgery"
	CategoryMedicalEquipment TreatmentCategory = "durable_medical_equipment"
	CategoryOther            TreatmentCategory = "other"
)

package rules

import "github.com/caldermed/priorauth/internal/model"

// condition is a textual check run against the request's history and
// provider notes. A condition that matches no pattern is "unknown": it
// contributes no signal but asks for documentation instead.
type condition struct {
	signal   string   // factor text emitted when the condition matches
	patterns []string // lowercase substrings searched in the request text
	doc      string   // documentation requested when the condition is unknown
}

// rule is the eligibility criteria for one (insurer, category) pair.
type rule struct {
	supporting     []condition
	blocking       []condition
	documentation  []string // baseline checklist, always required
	confidenceHint int      // starting point for the advisory hint
}

// failedConservative is shared by several insurers' imaging/surgery rules.
var failedConservative = condition{
	signal:   "documented failure of conservative treatment",
	patterns: []string{"conservative treatment", "conservative therapy", "failed conservative", "treatments failed", "treatment failed", "failed physical therapy"},
	doc:      "Conservative treatment records",
}

// ruleTable holds insurer-specific criteria. defaultRules covers categories
// for insurers without a specific entry. Both are read-only after init.
var ruleTable = map[model.InsuranceType]map[model.TreatmentCategory]rule{
	model.InsurerBCBS: {
		model.CategoryDiabetesMed: {
			supporting: []condition{
				{
					signal:   "HbA1c above threshold documented",
					patterns: []string{"hba1c", "a1c"},
					doc:      "Recent HbA1c lab result",
				},
				{
					signal:   "prior medication failure documented",
					patterns: []string{"metformin", "sulfonylurea", "failed", "inadequate response"},
					doc:      "Records of two prior medication trials (metformin, sulfonylurea)",
				},
			},
			blocking: []condition{
				{
					signal:   "no prior first-line therapy attempted",
					patterns: []string{"no prior medication", "treatment naive", "treatment-naive"},
				},
			},
			documentation:  []string{"HbA1c > 8% lab report", "Prior medication history"},
			confidenceHint: 60,
		},
		model.CategoryMRI: {
			supporting: []condition{
				failedConservative,
				{
					signal:   "persistent pain documented",
					patterns: []string{"persistent pain", "chronic pain", "pain for"},
					doc:      "Pain assessment with score > 7/10",
				},
			},
			blocking: []condition{
				{
					signal:   "no conservative treatment attempted",
					patterns: []string{"no prior treatment", "no conservative"},
				},
			},
			documentation:  []string{"Six weeks of conservative treatment records"},
			confidenceHint: 55,
		},
	},
	model.InsurerAetna: {
		model.CategoryPhysicalTherapy: {
			supporting: []condition{
				{
					signal:   "documented therapy progression",
					patterns: []string{"progress note", "progression", "weeks of therapy", "weeks of physical therapy"},
					doc:      "Six weeks of therapy progress notes",
				},
			},
			documentation:  []string{"Therapy progress notes"},
			confidenceHint: 65,
		},
		model.CategorySurgery: {
			supporting: []condition{
				failedConservative,
				{
					signal:   "second opinion obtained",
					patterns: []string{"second opinion"},
					doc:      "Second medical opinion",
				},
			},
			documentation:  []string{"Twelve weeks of conservative treatment records", "Second medical opinion"},
			confidenceHint: 45,
		},
		model.CategoryImaging: {
			supporting: []condition{
				{
					signal:   "standard diagnostics exhausted",
					patterns: []string{"inconclusive", "standard imaging", "x-ray negative", "failed diagnosis"},
					doc:      "Results of standard diagnostic workup",
				},
			},
			documentation:  []string{"Standard diagnostic results"},
			confidenceHint: 55,
		},
	},
	model.InsurerUnitedHealthcare: {
		model.CategoryOncology: {
			supporting: []condition{
				{
					signal:   "histological confirmation documented",
					patterns: []string{"biopsy", "histolog", "patholog"},
					doc:      "Histological confirmation report",
				},
				{
					signal:   "staging completed",
					patterns: []string{"stage", "staging"},
					doc:      "Complete staging workup",
				},
			},
			documentation:  []string{"Pathology report", "Staging summary"},
			confidenceHint: 70,
		},
		model.CategoryMentalHealth: {
			supporting: []condition{
				{
					signal:   "psychiatric evaluation on file",
					patterns: []string{"psychiatric evaluation", "psych eval"},
					doc:      "Psychiatric evaluation",
				},
				{
					signal:   "standard therapy failure documented",
					patterns: []string{"failed therapy", "therapy failed", "inadequate response"},
					doc:      "Records of standard therapy course",
				},
			},
			documentation:  []string{"Psychiatric evaluation", "Standard therapy records"},
			confidenceHint: 50,
		},
		model.CategoryMedicalEquipment: {
			supporting: []condition{
				{
					signal:   "detailed prescription on file",
					patterns: []string{"prescription", "prescribed"},
					doc:      "Detailed equipment prescription",
				},
				{
					signal:   "functional justification documented",
					patterns: []string{"mobility", "functional", "activities of daily living"},
					doc:      "Functional needs assessment",
				},
			},
			documentation:  []string{"Equipment prescription", "Functional justification"},
			confidenceHint: 60,
		},
	},
	model.InsurerCigna: {
		model.CategoryCardiology: {
			supporting: []condition{
				{
					signal:   "recent cardiac diagnostics on file",
					patterns: []string{"echo", "ecg", "ekg", "stress test"},
					doc:      "Recent echocardiogram and ECG",
				},
				{
					signal:   "risk factors documented",
					patterns: []string{"hypertension", "risk factor", "family history", "hyperlipidemia"},
					doc:      "Documented cardiac risk factors",
				},
			},
			documentation:  []string{"Recent echocardiogram", "Recent ECG"},
			confidenceHint: 60,
		},
		model.CategoryOrthopedic: {
			supporting: []condition{
				failedConservative,
				{
					signal:   "recent imaging on file",
					patterns: []string{"mri", "x-ray", "imaging", "radiograph"},
					doc:      "Recent joint imaging",
				},
			},
			documentation:  []string{"Recent imaging", "Non-invasive treatment records"},
			confidenceHint: 55,
		},
	},
	model.InsurerHumana: {
		model.CategoryMedicalEquipment: {
			supporting: []condition{
				{
					signal:   "comorbidities reviewed",
					patterns: []string{"comorbid", "copd", "chf", "chronic"},
					doc:      "Comorbidity summary",
				},
				{
					signal:   "detailed prescription on file",
					patterns: []string{"prescription", "prescribed"},
					doc:      "Detailed equipment prescription",
				},
			},
			documentation:  []string{"Equipment prescription", "Comorbidity and medication review"},
			confidenceHint: 55,
		},
	},
}

// defaultRules applies when the insurer is unrecognized or has no entry
// for the category.
var defaultRules = map[model.TreatmentCategory]rule{
	model.CategoryOncology: {
		supporting: []condition{
			{
				signal:   "diagnosis confirmation documented",
				patterns: []string{"biopsy", "patholog", "diagnosis confirmed"},
				doc:      "Diagnosis confirmation",
			},
		},
		documentation:  []string{"Oncology treatment plan"},
		confidenceHint: 60,
	},
	model.CategoryMRI: {
		supporting: []condition{
			failedConservative,
		},
		documentation:  []string{"Conservative treatment records"},
		confidenceHint: 50,
	},
	model.CategoryImaging: {
		supporting: []condition{
			{
				signal:   "prior diagnostic workup documented",
				patterns: []string{"x-ray", "inconclusive", "workup"},
				doc:      "Prior diagnostic results",
			},
		},
		documentation:  []string{"Referring provider's clinical indication"},
		confidenceHint: 50,
	},
	model.CategoryPhysicalTherapy: {
		supporting: []condition{
			{
				signal:   "functional limitation documented",
				patterns: []string{"limited range", "mobility", "functional"},
				doc:      "Functional assessment",
			},
		},
		documentation:  []string{"Referral with treatment goals"},
		confidenceHint: 55,
	},
	model.CategorySurgery: {
		supporting: []condition{
			failedConservative,
		},
		blocking: []condition{
			{
				signal:   "elective cosmetic indication",
				patterns: []string{"cosmetic"},
			},
		},
		documentation:  []string{"Surgical plan", "Conservative treatment records"},
		confidenceHint: 45,
	},
	model.CategoryDiabetesMed: {
		supporting: []condition{
			{
				signal:   "glycemic control history documented",
				patterns: []string{"hba1c", "a1c", "glucose log"},
				doc:      "Recent glycemic labs",
			},
		},
		documentation:  []string{"Medication history"},
		confidenceHint: 55,
	},
	model.CategoryMentalHealth: {
		supporting: []condition{
			{
				signal:   "clinical evaluation documented",
				patterns: []string{"evaluation", "assessment", "diagnosis"},
				doc:      "Clinical evaluation",
			},
		},
		documentation:  []string{"Treatment plan"},
		confidenceHint: 50,
	},
	model.CategoryCardiology: {
		supporting: []condition{
			{
				signal:   "cardiac diagnostics documented",
				patterns: []string{"ecg", "echo", "stress test"},
				doc:      "Recent cardiac diagnostics",
			},
		},
		documentation:  []string{"Cardiology consult note"},
		confidenceHint: 55,
	},
	model.CategoryOrthopedic: {
		supporting: []condition{
			failedConservative,
		},
		documentation:  []string{"Recent imaging"},
		confidenceHint: 50,
	},
	model.CategoryMedicalEquipment: {
		supporting: []condition{
			{
				signal:   "medical necessity documented",
				patterns: []string{"prescription", "necessity", "prescribed"},
				doc:      "Equipment prescription",
			},
		},
		documentation:  []string{"Medical necessity statement"},
		confidenceHint: 55,
	},
	model.CategoryOther: {
		documentation:  []string{"Clinical documentation supporting medical necessity"},
		confidenceHint: 40,
	},
}

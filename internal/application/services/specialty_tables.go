package services

// Built-in specialty tables. Variant keys are matched case-insensitively;
// canonical display names map to themselves automatically.
var defaultSynonyms = map[string]string{
	// Cardiology
	"cardiologist":     "Cardiology",
	"cardiologists":    "Cardiology",
	"heart doctor":     "Cardiology",
	"heart specialist": "Cardiology",
	"heart surgeon":    "Cardiothoracic Surgery",

	// Eye care
	"ophthalmologist":        "Ophthalmology",
	"ophthalmologists":       "Ophthalmology",
	"eye doctor":             "Ophthalmology",
	"eye surgeon":            "Ophthalmology",
	"eye specialist":         "Ophthalmology",
	"retina surgeon":         "Retina Surgery",
	"retina surgeons":        "Retina Surgery",
	"retinal surgeon":        "Retina Surgery",
	"retina specialist":      "Retina Surgery",
	"vitreoretinal surgeon":  "Retina Surgery",
	"vitreoretinal surgery":  "Retina Surgery",
	"optometrist":            "Optometry",
	"optometrists":           "Optometry",

	// Skin
	"dermatologist":   "Dermatology",
	"dermatologists":  "Dermatology",
	"skin doctor":     "Dermatology",
	"skin specialist": "Dermatology",

	// Primary care
	"family doctor":        "Family Medicine",
	"family physician":     "Family Medicine",
	"general practitioner": "Family Medicine",
	"primary care":         "Family Medicine",
	"pcp":                  "Family Medicine",
	"internist":            "Internal Medicine",
	"internists":           "Internal Medicine",

	// Children
	"pediatrician":  "Pediatrics",
	"pediatricians": "Pediatrics",
	"kids doctor":   "Pediatrics",
	"child doctor":  "Pediatrics",

	// Bones and joints
	"orthopedist":        "Orthopedic Surgery",
	"orthopedic surgeon": "Orthopedic Surgery",
	"orthopedics":        "Orthopedic Surgery",
	"orthopaedic":        "Orthopedic Surgery",
	"bone doctor":        "Orthopedic Surgery",
	"sports medicine":    "Sports Medicine",

	// Nervous system
	"neurologist":  "Neurology",
	"neurologists": "Neurology",
	"neurosurgeon": "Neurological Surgery",
	"brain surgeon": "Neurological Surgery",

	// Cancer
	"oncologist":    "Oncology",
	"oncologists":   "Oncology",
	"cancer doctor": "Oncology",

	// Mental health
	"psychiatrist":  "Psychiatry",
	"psychiatrists": "Psychiatry",
	"psychologist":  "Psychology",

	// Women's health
	"obgyn":        "Obstetrics & Gynecology",
	"ob gyn":       "Obstetrics & Gynecology",
	"ob/gyn":       "Obstetrics & Gynecology",
	"gynecologist": "Obstetrics & Gynecology",
	"obstetrician": "Obstetrics & Gynecology",

	// Organ systems
	"urologist":          "Urology",
	"urologists":         "Urology",
	"gastroenterologist": "Gastroenterology",
	"gi doctor":          "Gastroenterology",
	"stomach doctor":     "Gastroenterology",
	"endocrinologist":    "Endocrinology",
	"diabetes doctor":    "Endocrinology",
	"pulmonologist":      "Pulmonology",
	"lung doctor":        "Pulmonology",
	"nephrologist":       "Nephrology",
	"kidney doctor":      "Nephrology",
	"rheumatologist":     "Rheumatology",
	"allergist":          "Allergy & Immunology",
	"immunologist":       "Allergy & Immunology",

	// Head and neck
	"ent":             "Otolaryngology",
	"ent doctor":      "Otolaryngology",
	"ear nose throat": "Otolaryngology",

	// Surgery
	"surgeon":           "General Surgery",
	"surgeons":          "General Surgery",
	"plastic surgeon":   "Plastic Surgery",
	"cosmetic surgeon":  "Plastic Surgery",
	"vascular surgeon":  "Vascular Surgery",
	"cardiac surgeon":   "Cardiothoracic Surgery",
	"thoracic surgeon":  "Cardiothoracic Surgery",

	// Other
	"anesthesiologist": "Anesthesiology",
	"radiologist":      "Radiology",
	"pathologist":      "Pathology",
	"er doctor":        "Emergency Medicine",
	"emergency doctor": "Emergency Medicine",
	"podiatrist":       "Podiatry",
	"foot doctor":      "Podiatry",
	"chiropractor":     "Chiropractic",
	"dentist":          "Dentistry",
	"dentists":         "Dentistry",
	"pain doctor":      "Pain Management",
	"pain specialist":  "Pain Management",
	"physical therapist": "Physical Therapy",
}

// One-level-up categories for subspecialties.
var defaultBroader = map[string]string{
	"Retina Surgery":         "Ophthalmology",
	"Cardiothoracic Surgery": "General Surgery",
	"Neurological Surgery":   "General Surgery",
	"Plastic Surgery":        "General Surgery",
	"Vascular Surgery":       "General Surgery",
	"Sports Medicine":        "Orthopedic Surgery",
	"Pain Management":        "Anesthesiology",
	"Cardiology":             "Internal Medicine",
	"Gastroenterology":       "Internal Medicine",
	"Endocrinology":          "Internal Medicine",
	"Pulmonology":            "Internal Medicine",
	"Nephrology":             "Internal Medicine",
	"Rheumatology":           "Internal Medicine",
	"Oncology":               "Internal Medicine",
}

// Sibling specialties tried after the broader category.
var defaultRelated = map[string][]string{
	"Retina Surgery":     {"Ophthalmology", "Optometry"},
	"Ophthalmology":      {"Optometry", "Retina Surgery"},
	"Optometry":          {"Ophthalmology"},
	"Cardiology":         {"Cardiothoracic Surgery", "Internal Medicine"},
	"Orthopedic Surgery": {"Sports Medicine", "Physical Therapy"},
	"Sports Medicine":    {"Orthopedic Surgery", "Physical Therapy"},
	"Neurology":          {"Neurological Surgery", "Psychiatry"},
	"Psychiatry":         {"Psychology", "Neurology"},
	"Family Medicine":    {"Internal Medicine", "Pediatrics"},
	"Internal Medicine":  {"Family Medicine"},
	"Dermatology":        {"Plastic Surgery", "Allergy & Immunology"},
	"Otolaryngology":     {"Allergy & Immunology", "Plastic Surgery"},
	"Pain Management":    {"Anesthesiology", "Physical Therapy"},
}

// Older registry wordings still attached to long-lived records.
var defaultLegacy = map[string][]string{
	"Obstetrics & Gynecology": {"Obstetrics", "Gynecology"},
	"Cardiology":              {"Cardiovascular Disease"},
	"Otolaryngology":          {"Ear, Nose & Throat"},
	"Family Medicine":         {"General Practice"},
	"Orthopedic Surgery":      {"Orthopaedic Surgery"},
	"Pulmonology":             {"Pulmonary Disease"},
	"Oncology":                {"Hematology & Oncology"},
}

// NPPES taxonomy codes for canonical specialties with an unambiguous mapping.
var defaultTaxonomyCodes = map[string]string{
	"Cardiology":              "207RC0000X",
	"Dermatology":             "207N00000X",
	"Ophthalmology":           "207W00000X",
	"Retina Surgery":          "207WX0107X",
	"Optometry":               "152W00000X",
	"Family Medicine":         "207Q00000X",
	"Internal Medicine":       "207R00000X",
	"Pediatrics":              "208000000X",
	"Orthopedic Surgery":      "207X00000X",
	"Neurology":               "2084N0400X",
	"Neurological Surgery":    "207T00000X",
	"Psychiatry":              "2084P0800X",
	"Obstetrics & Gynecology": "207V00000X",
	"Urology":                 "208800000X",
	"Gastroenterology":        "207RG0100X",
	"Endocrinology":           "207RE0101X",
	"Pulmonology":             "207RP1001X",
	"Nephrology":              "207RN0300X",
	"Rheumatology":            "207RR0500X",
	"Allergy & Immunology":    "207K00000X",
	"Otolaryngology":          "207Y00000X",
	"General Surgery":         "208600000X",
	"Plastic Surgery":         "208200000X",
	"Vascular Surgery":        "2086S0129X",
	"Cardiothoracic Surgery":  "208G00000X",
	"Anesthesiology":          "207L00000X",
	"Radiology":               "2085R0202X",
	"Pathology":               "207ZP0105X",
	"Emergency Medicine":      "207P00000X",
	"Podiatry":                "213E00000X",
	"Chiropractic":            "111N00000X",
	"Dentistry":               "122300000X",
	"Pain Management":         "208VP0014X",
	"Physical Therapy":        "225100000X",
	"Oncology":                "207RX0202X",
	"Sports Medicine":         "207XX0005X",
	"Psychology":              "103T00000X",
}

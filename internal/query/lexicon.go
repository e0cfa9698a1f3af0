// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "regexp"

// lexiconEntry maps a free-text phrase to its canonical concept name.
// Entries are matched by substring against the normalized query; slice
// order defines priority when several entries could claim the same span.
type lexiconEntry struct {
	Phrase  string
	Concept string
}

// conceptLexicon is loaded once and never mutated. Per prd001-query-understanding R1.2.
var conceptLexicon = []lexiconEntry{
	{"heart attack", "Myocardial Infarction"},
	{"heart disease", "Heart Diseases"},
	{"high blood pressure", "Hypertension"},
	{"stroke", "Stroke"},
	{"cardiac", "Heart Diseases"},

	{"diabetes", "Diabetes Mellitus"},
	{"sugar diabetes", "Diabetes Mellitus"},
	{"thyroid", "Thyroid Diseases"},

	{"asthma", "Asthma"},
	{"lung disease", "Lung Diseases"},
	{"pneumonia", "Pneumonia"},
	{"copd", "Pulmonary Disease, Chronic Obstructive"},

	{"cancer", "Neoplasms"},
	{"tumor", "Neoplasms"},
	{"breast cancer", "Breast Neoplasms"},
	{"lung cancer", "Lung Neoplasms"},
	{"skin cancer", "Skin Neoplasms"},

	{"alzheimer", "Alzheimer Disease"},
	{"dementia", "Dementia"},
	{"parkinson", "Parkinson Disease"},
	{"epilepsy", "Epilepsy"},
	{"seizure", "Seizures"},

	{"depression", "Depression"},
	{"anxiety", "Anxiety Disorders"},
	{"ptsd", "Stress Disorders, Post-Traumatic"},
	{"bipolar", "Bipolar Disorder"},

	{"covid", "COVID-19"},
	{"coronavirus", "COVID-19"},
	{"hiv", "HIV Infections"},
	{"aids", "Acquired Immunodeficiency Syndrome"},
	{"tuberculosis", "Tuberculosis"},
	{"malaria", "Malaria"},

	{"arthritis", "Arthritis"},
	{"osteoporosis", "Osteoporosis"},
	{"joint pain", "Arthralgia"},

	{"machine learning", "Machine Learning"},
	{"artificial intelligence", "Artificial Intelligence"},
	{"deep learning", "Deep Learning"},
	{"neural network", "Neural Networks, Computer"},
	{"gene therapy", "Genetic Therapy"},
	{"immunotherapy", "Immunotherapy"},
	{"telemedicine", "Telemedicine"},
}

// abbreviationEntry maps a clinical abbreviation to its expansion. The
// pattern is compiled once at init; matching is case-insensitive with
// word boundaries. Per prd001-query-understanding R1.3.
type abbreviationEntry struct {
	Abbrev    string
	Expansion string
	pattern   *regexp.Regexp
}

var abbreviations = buildAbbreviations([]abbreviationEntry{
	{Abbrev: "MI", Expansion: "Myocardial Infarction"},
	{Abbrev: "CVD", Expansion: "Cardiovascular Diseases"},
	{Abbrev: "CHF", Expansion: "Heart Failure"},
	{Abbrev: "COPD", Expansion: "Pulmonary Disease, Chronic Obstructive"},
	{Abbrev: "DM", Expansion: "Diabetes Mellitus"},
	{Abbrev: "HTN", Expansion: "Hypertension"},
	{Abbrev: "CAD", Expansion: "Coronary Artery Disease"},
	{Abbrev: "CKD", Expansion: "Renal Insufficiency, Chronic"},
	{Abbrev: "PTSD", Expansion: "Stress Disorders, Post-Traumatic"},
	{Abbrev: "IBD", Expansion: "Inflammatory Bowel Diseases"},
	{Abbrev: "RA", Expansion: "Arthritis, Rheumatoid"},
	{Abbrev: "MS", Expansion: "Multiple Sclerosis"},
	{Abbrev: "ALS", Expansion: "Amyotrophic Lateral Sclerosis"},
	{Abbrev: "AD", Expansion: "Alzheimer Disease"},
	{Abbrev: "PD", Expansion: "Parkinson Disease"},
	{Abbrev: "AIDS", Expansion: "Acquired Immunodeficiency Syndrome"},
	{Abbrev: "HIV", Expansion: "HIV Infections"},
	{Abbrev: "TB", Expansion: "Tuberculosis"},
	{Abbrev: "UTI", Expansion: "Urinary Tract Infections"},
	{Abbrev: "ICU", Expansion: "Intensive Care Units"},
	{Abbrev: "ER", Expansion: "Emergency Service, Hospital"},
})

func buildAbbreviations(entries []abbreviationEntry) []abbreviationEntry {
	for i := range entries {
		entries[i].pattern = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(entries[i].Abbrev) + `\b`)
	}
	return entries
}

// synonymEntry lists Title/Abstract expansions for a common search term.
type synonymEntry struct {
	Term     string
	Synonyms []string
}

var synonymTable = []synonymEntry{
	{"treatment", []string{"therapy", "intervention", "management"}},
	{"prevention", []string{"prophylaxis", "preventive", "preventative"}},
	{"diagnosis", []string{"diagnostic", "screening", "detection"}},
	{"symptoms", []string{"signs", "manifestations", "clinical features"}},
	{"causes", []string{"etiology", "pathogenesis", "risk factors"}},
	{"elderly", []string{"aged", "geriatric", "older adults"}},
	{"children", []string{"pediatric", "kids", "youth"}},
	{"women", []string{"female", "maternal"}},
	{"men", []string{"male", "paternal"}},
	{"medication", []string{"drug", "pharmaceutical", "medicine"}},
	{"surgery", []string{"surgical", "operation", "procedure"}},
	{"study", []string{"research", "investigation", "analysis"}},
	{"effectiveness", []string{"efficacy", "outcome", "results"}},
}

// conceptRelations is the canonical-concept adjacency table used for
// related-concept hints. Keyed lookups only, never iterated.
var conceptRelations = map[string][]string{
	"Diabetes Mellitus": {"Insulin", "Glucose", "Diabetic Complications", "Metabolic Syndrome"},
	"Hypertension":      {"Blood Pressure", "Cardiovascular Diseases", "Antihypertensive Agents"},
	"Heart Diseases":    {"Myocardial Infarction", "Heart Failure", "Coronary Artery Disease"},
	"Neoplasms":         {"Oncology", "Chemotherapy", "Radiotherapy", "Carcinogenesis"},
	"Depression":        {"Antidepressive Agents", "Mental Health", "Anxiety Disorders"},
	"COVID-19":          {"SARS-CoV-2", "Pandemic", "Vaccines", "Respiratory Tract Infections"},
}

// patternEntry pairs a classification label with its compiled pattern.
type patternEntry struct {
	Label   string
	pattern *regexp.Regexp
}

// demographicPatterns recognize age, gender, and population markers.
// Per prd001-query-understanding R1.4.
var demographicPatterns = []patternEntry{
	{"age", regexp.MustCompile(`(?i)\b(infant|child|adolescent|adult|elderly|aged|geriatric)\b`)},
	{"gender", regexp.MustCompile(`(?i)\b(male|female|men|women|man|woman)\b`)},
	{"population", regexp.MustCompile(`(?i)\b(pregnant|pregnancy|postmenopausal|pediatric)\b`)},
}

// studyTypePatterns recognize study-design markers. Per prd001-query-understanding R1.5.
var studyTypePatterns = []patternEntry{
	{"randomized controlled trial", regexp.MustCompile(`(?i)\b(rct|randomized controlled trial|clinical trial)\b`)},
	{"meta-analysis", regexp.MustCompile(`(?i)\b(meta-analysis|systematic review)\b`)},
	{"case study", regexp.MustCompile(`(?i)\b(case study|case report)\b`)},
	{"cohort study", regexp.MustCompile(`(?i)\b(cohort study|longitudinal)\b`)},
}

// intentPatterns classify what the searcher wants. Alternatives are
// stems anchored at a leading word boundary so inflected forms match
// ("treatment", "diagnostic", "prophylaxis"). Per prd001-query-understanding R2.1.
var intentPatterns = []patternEntry{
	{"treatment", regexp.MustCompile(`(?i)\b(treat|therapy|intervention|cure|medication|drug)`)},
	{"diagnosis", regexp.MustCompile(`(?i)\b(diagnos|detect|screen|test|identify)`)},
	{"prevention", regexp.MustCompile(`(?i)\b(prevent|avoid|prophylax|vaccination|immuniz)`)},
	{"symptoms", regexp.MustCompile(`(?i)\b(symptom|sign|manifest|present)`)},
	{"causes", regexp.MustCompile(`(?i)\b(cause|etiology|pathogen|risk factor)`)},
	{"prognosis", regexp.MustCompile(`(?i)\b(prognosis|outcome|survival|mortality)`)},
	{"epidemiology", regexp.MustCompile(`(?i)\b(prevalence|incidence|epidemiol|population)`)},
	{"mechanism", regexp.MustCompile(`(?i)\b(mechanism|pathway|molecular|cellular)`)},
}

// Sentiment probes are binary: present or absent, mapped to fixed scores.
// Per prd001-query-understanding R2.2.
var (
	urgencyPattern     = regexp.MustCompile(`(?i)\b(urgent|emergency|acute|severe|critical|immediate)\b`)
	uncertaintyPattern = regexp.MustCompile(`(?i)\b(possible|potential|may|might|could|uncertain)\b`)
	specificityPattern = regexp.MustCompile(`(?i)\b(specific|particular|exact|precise)\b`)
	booleanPattern     = regexp.MustCompile(`(?i)\b(and|or|not)\b`)
)

package knowledge

// BuiltinSources are the reference passages indexed at startup so the
// assistant can ground answers without any external corpus.
var BuiltinSources = []string{
	"Hemoglobin (Hb) normal range: 13.5-17.5 g/dL for men, 12.0-15.5 g/dL for women. Low hemoglobin indicates anemia, which can cause fatigue and weakness.",
	"Blood glucose fasting normal range: 70-100 mg/dL. Values 100-125 mg/dL indicate prediabetes. Above 126 mg/dL indicates diabetes.",
	"Total cholesterol normal: below 200 mg/dL. 200-239 mg/dL is borderline high. Above 240 mg/dL is high and increases heart disease risk.",
	"Blood pressure normal: systolic below 120 mmHg and diastolic below 80 mmHg. Hypertension is diagnosed at 130/80 mmHg or higher.",
	"Creatinine normal range: 0.7-1.3 mg/dL for men, 0.6-1.1 mg/dL for women. Elevated creatinine may indicate kidney dysfunction.",
	"White blood cell count normal: 4,000-11,000 cells/mcL. Elevated WBC may indicate infection or inflammation.",
	"Thyroid TSH normal range: 0.4-4.0 mIU/L. High TSH indicates hypothyroidism, low TSH indicates hyperthyroidism.",
	"Liver enzyme ALT normal: 7-56 units/L. Elevated ALT indicates liver damage or inflammation.",
	"HbA1c normal: below 5.7%. 5.7-6.4% indicates prediabetes. 6.5% or higher indicates diabetes.",
	"Vitamin D sufficient: above 30 ng/mL. 20-30 ng/mL is insufficient. Below 20 ng/mL is deficient.",
}

package extract

import (
	"reflect"
	"testing"

	"github.com/healthdesk/medassist/schema"
)

func TestPatient_AllFieldsFromOneSentence(t *testing.T) {
	got := Patient("I'm 45 years old with diabetes taking metformin")

	if got.Age != 45 {
		t.Errorf("age: expected 45, got %d", got.Age)
	}
	if !reflect.DeepEqual(got.Conditions, []string{"diabetes"}) {
		t.Errorf("conditions: expected [diabetes], got %v", got.Conditions)
	}
	if !reflect.DeepEqual(got.Medications, []string{"metformin"}) {
		t.Errorf("medications: expected [metformin], got %v", got.Medications)
	}
}

func TestPatient_AgeVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		age  int
	}{
		{"years", "I am 62 years old", 62},
		{"yrs", "patient is 30 yrs", 30},
		{"yo", "33 yo male", 33},
		{"year singular", "my son is 1 year old", 1},
		{"no age", "I have a headache", 0},
		{"number without unit", "I take 45 pills", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Patient(tt.text)
			if got.Age != tt.age {
				t.Errorf("expected age %d, got %d", tt.age, got.Age)
			}
		})
	}
}

func TestPatient_MedicationRequiresCue(t *testing.T) {
	// A bare drug mention without taking/medication/medicine is ignored.
	got := Patient("is aspirin dangerous?")
	if len(got.Medications) != 0 {
		t.Fatalf("expected no medications, got %v", got.Medications)
	}

	got = Patient("I am taking aspirin daily")
	if !reflect.DeepEqual(got.Medications, []string{"aspirin"}) {
		t.Fatalf("expected [aspirin], got %v", got.Medications)
	}
}

func TestPatient_Idempotent(t *testing.T) {
	text := "I'm 45 years old with diabetes and hypertension, taking metformin"
	first := Patient(text)
	second := Patient(text)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not idempotent: %+v vs %+v", first, second)
	}
}

func TestSymptoms(t *testing.T) {
	got := Symptoms("I have chest pain and a fever, felt dizzy yesterday")

	want := []string{"pain", "fever", "dizzy", "chest"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if s := Symptoms("hello there"); s != nil {
		t.Fatalf("expected no symptoms, got %v", s)
	}
}

func TestMergeContext_Monotonic(t *testing.T) {
	var acc schema.PatientContext

	changed := MergeContext(&acc, Patient("I'm 45 years old with diabetes"))
	if !changed {
		t.Fatal("expected first merge to change the context")
	}

	// A later turn that mentions nothing must not drop anything.
	changed = MergeContext(&acc, Patient("what should I eat?"))
	if changed {
		t.Fatal("expected empty extraction to leave context unchanged")
	}
	if acc.Age != 45 || len(acc.Conditions) != 1 {
		t.Fatalf("context lost data: %+v", acc)
	}

	// New mentions accumulate without duplicating.
	MergeContext(&acc, Patient("I also have asthma and diabetes"))
	want := []string{"diabetes", "asthma"}
	if !reflect.DeepEqual(acc.Conditions, want) {
		t.Fatalf("expected conditions %v, got %v", want, acc.Conditions)
	}
}

func TestMergeContext_AgeLatestWins(t *testing.T) {
	var acc schema.PatientContext
	MergeContext(&acc, Patient("I'm 45 years old"))
	MergeContext(&acc, Patient("actually I am 46 years old"))

	if acc.Age != 46 {
		t.Fatalf("expected latest age 46, got %d", acc.Age)
	}
}

func TestMergeSymptoms(t *testing.T) {
	have := MergeSymptoms(nil, []string{"pain", "fever"})
	have = MergeSymptoms(have, []string{"fever", "cough"})

	want := []string{"pain", "fever", "cough"}
	if !reflect.DeepEqual(have, want) {
		t.Fatalf("expected %v, got %v", want, have)
	}
}

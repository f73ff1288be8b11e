package command

import (
	"testing"

	"github.com/stellaroneai/swara/pkg/language"
)

func TestInterpretEnglish(t *testing.T) {
	in := NewInterpreter()
	cases := []struct {
		text   string
		kind   Kind
		target string
	}{
		{"this is an emergency, call now", KindEmergency, TargetEmergency},
		{"book an appointment with the doctor", KindNavigate, TargetAppointments},
		{"Call the doctor, it's URGENT!", KindEmergency, TargetEmergency},
		{"please send an ambulance", KindEmergency, TargetAmbulance},
		{"I can't breathe", KindEmergency, TargetEmergency},
		{"show my lab report", KindNavigate, TargetHealthRecords},
		{"open my ABHA card", KindNavigate, TargetABHA},
		{"I want to consult someone", KindNavigate, TargetConsultation},
		{"refill my prescription", KindNavigate, TargetMedications},
		{"check my insurance claim", KindNavigate, TargetInsurance},
		{"go home", KindNavigate, TargetDashboard},
		{"change language please", KindNavigate, TargetSettings},
	}
	for _, tc := range cases {
		got := in.Interpret(tc.text, "english")
		if got.Kind != tc.kind || got.Target != tc.target {
			t.Fatalf("%q: expected %s/%s, got %s/%s", tc.text, tc.kind, tc.target, got.Kind, got.Target)
		}
		if got.Text != tc.text {
			t.Fatalf("%q: expected original text preserved, got %q", tc.text, got.Text)
		}
	}
}

func TestInterpretUnmatchedIsQuery(t *testing.T) {
	in := NewInterpreter()
	text := "What are the symptoms of dengue?"
	got := in.Interpret(text, "english")
	if got.Kind != KindQuery || got.Text != text {
		t.Fatalf("expected query with original text, got %+v", got)
	}
	if got := in.Interpret("   ", "hindi"); got.Kind != KindQuery {
		t.Fatalf("expected blank transcript to be a query, got %s", got.Kind)
	}
}

func TestInterpretIndicScripts(t *testing.T) {
	in := NewInterpreter()
	cases := []struct {
		text   string
		tag    language.Tag
		kind   Kind
		target string
	}{
		{"मुझे एम्बुलेंस चाहिए।", "hindi", KindEmergency, TargetAmbulance},
		{"डॉक्टर से बात करनी है", "hindi", KindNavigate, TargetConsultation},
		{"mujhe dawai ke baare mein batao", "hindi", KindNavigate, TargetMedications},
		{"அவசரம் உதவி", "tamil", KindEmergency, TargetEmergency},
		{"আমার ওষুধ দেখাও", "bengali", KindNavigate, TargetMedications},
		{"ڈاکٹر سے بات", "urdu", KindNavigate, TargetConsultation},
	}
	for _, tc := range cases {
		got := in.Interpret(tc.text, tc.tag)
		if got.Kind != tc.kind || got.Target != tc.target {
			t.Fatalf("%q: expected %s/%s, got %s/%s", tc.text, tc.kind, tc.target, got.Kind, got.Target)
		}
	}
}

func TestInterpretEmergencyBeatsNavigationAcrossLanguages(t *testing.T) {
	in := NewInterpreter()
	// Navigation keyword in the active language, emergency keyword in another.
	got := in.Interpret("डॉक्टर emergency", "hindi")
	if got.Kind != KindEmergency {
		t.Fatalf("expected emergency to win, got %s/%s", got.Kind, got.Target)
	}
}

func TestInterpretFallsBackAcrossLanguages(t *testing.T) {
	in := NewInterpreter()
	got := in.Interpret("मुझे बीमा देखना है", "tamil")
	if got.Kind != KindNavigate || got.Target != TargetInsurance {
		t.Fatalf("expected hindi rule to match under tamil, got %s/%s", got.Kind, got.Target)
	}
	got = in.Interpret("need an appointment", "klingon")
	if got.Target != TargetAppointments {
		t.Fatalf("expected default table for unknown tag, got %s", got.Target)
	}
}

func TestInterpretActiveLanguageFirst(t *testing.T) {
	in := NewInterpreter().
		WithRules("tamil", Table{{Kind: KindNavigate, Target: TargetSettings, Keywords: []string{"doctor"}}})
	if got := in.Interpret("doctor", "tamil"); got.Target != TargetSettings {
		t.Fatalf("expected active tamil rule before english, got %s", got.Target)
	}
	if got := in.Interpret("doctor", "english"); got.Target != TargetConsultation {
		t.Fatalf("expected english rule under english, got %s", got.Target)
	}
}

func TestWithRulesDoesNotMutate(t *testing.T) {
	base := NewInterpreter()
	before := len(base.Rules("odia"))
	ext := base.WithRules("ODIA", Table{{Kind: KindNavigate, Target: TargetDashboard, Keywords: []string{"ମୂଳ ପୃଷ୍ଠା"}}})
	if len(base.Rules("odia")) != before {
		t.Fatalf("base interpreter mutated")
	}
	if len(ext.Rules("odia")) != before+1 {
		t.Fatalf("expected extended table")
	}
	custom := base.WithRules("sanskrit", Table{{Kind: KindEmergency, Target: TargetEmergency, Keywords: []string{"रक्षा"}}})
	if got := custom.Interpret("रक्षा", "english"); got.Kind != KindEmergency {
		t.Fatalf("expected new language table to be walked, got %s", got.Kind)
	}
}

func TestWithReplacementsRewritesMishearings(t *testing.T) {
	base := NewInterpreter()
	in := base.WithReplacements(map[string]string{
		"set things":  "settings",
		"set":         "unused",
		"Mother Card": "medical",
	})
	if got := in.Interpret("open set things please", "english"); got.Target != TargetSettings {
		t.Fatalf("expected settings after replacement, got %+v", got)
	}
	if got := in.Interpret("sunset", "english"); got.Kind != KindQuery {
		t.Fatalf("replacement must only match whole words, got %+v", got)
	}
	if got := base.Interpret("open set things please", "english"); got.Target == TargetSettings {
		t.Fatalf("base interpreter mutated")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Hello,   WORLD!! ": "hello world",
		"STRASSE":             "strasse",
		"मदद   करो।":           "मदद करो",
		"can't":               "can t",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

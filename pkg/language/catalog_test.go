package language

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestDefaultCatalogLocales(t *testing.T) {
	c := DefaultCatalog()
	cases := map[Tag]string{
		"english":   "en-IN",
		"hindi":     "hi-IN",
		"bengali":   "bn-IN",
		"telugu":    "te-IN",
		"marathi":   "mr-IN",
		"tamil":     "ta-IN",
		"gujarati":  "gu-IN",
		"kannada":   "kn-IN",
		"malayalam": "ml-IN",
		"punjabi":   "pa-IN",
		"odia":      "or-IN",
		"assamese":  "as-IN",
		"urdu":      "ur-IN",
	}
	if got := len(c.Tags()); got != len(cases) {
		t.Fatalf("expected %d languages, got %d", len(cases), got)
	}
	for tag, want := range cases {
		if got := c.Locale(tag); got != want {
			t.Fatalf("locale for %s: expected %s, got %s", tag, want, got)
		}
		if got := c.Profile(tag).Locale; got != want {
			t.Fatalf("profile locale for %s: expected %s, got %s", tag, want, got)
		}
	}
}

func TestNormalizeUnknownFallsBackToDefault(t *testing.T) {
	c := DefaultCatalog()
	if got := c.Normalize("  Hindi "); got != "hindi" {
		t.Fatalf("expected hindi, got %s", got)
	}
	if got := c.Normalize("klingon"); got != DefaultTag {
		t.Fatalf("expected default tag, got %s", got)
	}
	if got := c.Locale("klingon"); got != "en-IN" {
		t.Fatalf("expected en-IN for unknown tag, got %s", got)
	}
}

func TestPhraseFallsBackToDefaultLanguage(t *testing.T) {
	c := DefaultCatalog().WithLanguage(Entry{Tag: "sanskrit", Locale: "sa-IN", Phrases: map[string]string{}})
	if got := c.Phrase("sanskrit", PhraseNotUnderstood); got != c.Phrase("english", PhraseNotUnderstood) {
		t.Fatalf("expected english fallback, got %q", got)
	}
	if got := c.Phrase("hindi", "missing_key"); got != "" {
		t.Fatalf("expected empty phrase, got %q", got)
	}
	got := c.Phrasef("english", PhraseConfirmNavigate, map[string]string{"target": "health records"})
	if got != "Opening health records." {
		t.Fatalf("unexpected confirmation %q", got)
	}
}

func TestGreetingByTimeOfDay(t *testing.T) {
	c := DefaultCatalog()
	day := func(h int) time.Time { return time.Date(2024, 1, 1, h, 0, 0, 0, time.UTC) }
	if got := c.Greeting("english", day(8)); got != c.Phrase("english", PhraseGreetingMorning) {
		t.Fatalf("expected morning greeting, got %q", got)
	}
	if got := c.Greeting("english", day(12)); got != c.Phrase("english", PhraseGreetingAfternoon) {
		t.Fatalf("expected afternoon greeting at noon, got %q", got)
	}
	if got := c.Greeting("english", day(17)); got != c.Phrase("english", PhraseGreetingEvening) {
		t.Fatalf("expected evening greeting at 17:00, got %q", got)
	}
}

func TestWithPhrasesDoesNotMutateOriginal(t *testing.T) {
	c := DefaultCatalog()
	before := c.Phrase("english", PhraseNotUnderstood)
	next := c.WithPhrases(map[Tag]map[string]string{
		"english": {PhraseNotUnderstood: "Say again?"},
		"klingon": {PhraseNotUnderstood: "ignored"},
	})
	if got := next.Phrase("english", PhraseNotUnderstood); got != "Say again?" {
		t.Fatalf("expected override, got %q", got)
	}
	if got := c.Phrase("english", PhraseNotUnderstood); got != before {
		t.Fatalf("original catalog mutated: %q", got)
	}
	if next.Known("klingon") {
		t.Fatalf("override must not add languages")
	}
}

func TestWithLanguageClampsProfile(t *testing.T) {
	c := DefaultCatalog().WithLanguage(Entry{
		Tag:     "Sanskrit",
		Locale:  "sa-IN",
		Profile: Profile{Rate: 9, Pitch: 0.1, Volume: math.NaN()},
	})
	p := c.Profile("sanskrit")
	if p.Rate != MaxRate || p.Pitch != MinPitch || p.Volume != 1.0 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.Locale != "sa-IN" {
		t.Fatalf("expected profile locale sa-IN, got %s", p.Locale)
	}
}

func TestProfileScaled(t *testing.T) {
	p := Profile{Rate: 0.9, Pitch: 1.0, Volume: 1.0}
	s := p.Scaled(0.8, 0.95)
	if math.Abs(s.Rate-0.72) > 1e-9 || math.Abs(s.Pitch-0.95) > 1e-9 {
		t.Fatalf("unexpected scaled profile %+v", s)
	}
	low := Profile{Rate: 0.5, Pitch: 0.5, Volume: 0.5}.Scaled(0.8, 0.95)
	if low.Rate != MinRate || low.Pitch != MinPitch {
		t.Fatalf("expected clamp to minimum, got %+v", low)
	}
}

func TestBuiltinLanguagesCarryEveryPhrase(t *testing.T) {
	c := DefaultCatalog()
	keys := []string{
		PhraseGreetingMorning,
		PhraseGreetingAfternoon,
		PhraseGreetingEvening,
		PhraseConfirmNavigate,
		PhraseConfirmEmergency,
		PhraseAnswerUnavailable,
		PhraseNotUnderstood,
	}
	for _, tag := range c.Tags() {
		phrases := c.Entry(tag).Phrases
		for _, key := range keys {
			if phrases[key] == "" {
				t.Fatalf("%s has no %s phrase of its own", tag, key)
			}
		}
		if !strings.Contains(phrases[PhraseConfirmNavigate], "{target}") {
			t.Fatalf("%s navigation phrase lacks {target}", tag)
		}
	}
}

func TestTargetLabelsAreLocalized(t *testing.T) {
	c := DefaultCatalog()
	targets := []string{"appointments", "consultation", "health_records", "medications", "insurance", "abha", "dashboard", "settings"}
	for _, tag := range c.Tags() {
		if tag == DefaultTag {
			continue
		}
		for _, target := range targets {
			if got := c.Target(tag, target); got == TargetLabel(target) {
				t.Fatalf("%s label for %s fell back to %q", tag, target, got)
			}
		}
	}
	if got := c.Target("english", "health_records"); got != "health records" {
		t.Fatalf("expected humanized english label, got %q", got)
	}
	if got := c.Target("hindi", "lab_reports"); got != "lab reports" {
		t.Fatalf("expected humanized fallback for unknown target, got %q", got)
	}
	got := c.Phrasef("hindi", PhraseConfirmNavigate, map[string]string{"target": c.Target("hindi", "medications")})
	if got != "दवाइयाँ खोल रहा हूँ।" {
		t.Fatalf("unexpected hindi confirmation %q", got)
	}
}

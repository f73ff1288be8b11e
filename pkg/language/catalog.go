// Package language maps logical language tags to locales, synthesis
// profiles and the short phrases the engine speaks on its own.
package language

import (
	"sort"
	"strings"
	"time"
)

// Tag is a logical language identifier such as "hindi" or "tamil".
type Tag string

// String implements fmt.Stringer.
func (t Tag) String() string { return string(t) }

// Phrase keys understood by the catalog.
const (
	PhraseGreetingMorning   = "greeting_morning"
	PhraseGreetingAfternoon = "greeting_afternoon"
	PhraseGreetingEvening   = "greeting_evening"
	PhraseConfirmNavigate   = "confirm_navigate"
	PhraseConfirmEmergency  = "confirm_emergency"
	PhraseAnswerUnavailable = "answer_unavailable"
	PhraseNotUnderstood     = "not_understood"
)

// PhraseTargetPrefix keys a spoken label for a navigation target, e.g.
// "target.health_records".
const PhraseTargetPrefix = "target."

// Entry describes one language in the catalog.
type Entry struct {
	Tag     Tag
	Locale  string
	Profile Profile
	Phrases map[string]string
}

// Catalog is a read-only language table. Mutators return a new Catalog.
type Catalog struct {
	entries    map[Tag]Entry
	defaultTag Tag
}

// NewCatalog builds a catalog from entries. defaultTag must be one of them;
// otherwise the first entry in tag order becomes the default.
func NewCatalog(defaultTag Tag, entries ...Entry) *Catalog {
	c := &Catalog{entries: make(map[Tag]Entry, len(entries))}
	for _, e := range entries {
		e.Tag = normalizeTag(e.Tag)
		if e.Profile.Locale == "" {
			e.Profile.Locale = e.Locale
		}
		e.Profile = e.Profile.Clamped()
		e.Phrases = copyPhrases(e.Phrases)
		c.entries[e.Tag] = e
	}
	defaultTag = normalizeTag(defaultTag)
	if _, ok := c.entries[defaultTag]; !ok {
		tags := c.Tags()
		if len(tags) > 0 {
			defaultTag = tags[0]
		}
	}
	c.defaultTag = defaultTag
	return c
}

// Default returns the fallback language tag.
func (c *Catalog) Default() Tag { return c.defaultTag }

// Tags returns every known tag in sorted order.
func (c *Catalog) Tags() []Tag {
	out := make([]Tag, 0, len(c.entries))
	for t := range c.entries {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Known reports whether the tag is in the catalog.
func (c *Catalog) Known(tag Tag) bool {
	_, ok := c.entries[normalizeTag(tag)]
	return ok
}

// Normalize trims and lower-cases a tag, falling back to the default tag
// when the language is unknown.
func (c *Catalog) Normalize(tag Tag) Tag {
	t := normalizeTag(tag)
	if _, ok := c.entries[t]; ok {
		return t
	}
	return c.defaultTag
}

// Entry returns the catalog entry for tag (or the default language).
func (c *Catalog) Entry(tag Tag) Entry {
	return c.entries[c.Normalize(tag)]
}

// Locale returns the locale string for tag.
func (c *Catalog) Locale(tag Tag) string {
	return c.Entry(tag).Locale
}

// Profile returns the synthesis profile for tag.
func (c *Catalog) Profile(tag Tag) Profile {
	return c.Entry(tag).Profile
}

// Phrase returns the localized phrase for key, falling back to the default
// language and finally to the empty string.
func (c *Catalog) Phrase(tag Tag, key string) string {
	if p := c.Entry(tag).Phrases[key]; p != "" {
		return p
	}
	return c.entries[c.defaultTag].Phrases[key]
}

// Phrasef is Phrase with {placeholder} substitution.
func (c *Catalog) Phrasef(tag Tag, key string, vars map[string]string) string {
	p := c.Phrase(tag, key)
	for k, v := range vars {
		p = strings.ReplaceAll(p, "{"+k+"}", v)
	}
	return p
}

// Greeting returns the time-of-day greeting for tag.
func (c *Catalog) Greeting(tag Tag, now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return c.Phrase(tag, PhraseGreetingMorning)
	case h < 17:
		return c.Phrase(tag, PhraseGreetingAfternoon)
	default:
		return c.Phrase(tag, PhraseGreetingEvening)
	}
}

// WithLanguage returns a copy of the catalog with entry added or replaced.
func (c *Catalog) WithLanguage(entry Entry) *Catalog {
	entries := make([]Entry, 0, len(c.entries)+1)
	for _, e := range c.entries {
		if e.Tag != normalizeTag(entry.Tag) {
			entries = append(entries, e)
		}
	}
	entries = append(entries, entry)
	return NewCatalog(c.defaultTag, entries...)
}

// WithPhrases returns a copy with phrase overrides merged per language.
// Overrides for unknown languages are ignored.
func (c *Catalog) WithPhrases(overrides map[Tag]map[string]string) *Catalog {
	entries := make([]Entry, 0, len(c.entries))
	for tag, e := range c.entries {
		phrases := copyPhrases(e.Phrases)
		for k, v := range overrides[tag] {
			if strings.TrimSpace(v) != "" {
				phrases[k] = v
			}
		}
		e.Phrases = phrases
		entries = append(entries, e)
	}
	return NewCatalog(c.defaultTag, entries...)
}

// WithDefault returns a copy using tag as the fallback language.
func (c *Catalog) WithDefault(tag Tag) *Catalog {
	entries := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	return NewCatalog(tag, entries...)
}

// Target returns the spoken label for a navigation target in tag. Targets
// without a label in that language are humanized from their id.
func (c *Catalog) Target(tag Tag, target string) string {
	if p := c.Entry(tag).Phrases[PhraseTargetPrefix+strings.TrimSpace(target)]; p != "" {
		return p
	}
	return TargetLabel(target)
}

// TargetLabel turns a command target id into something speakable.
func TargetLabel(target string) string {
	return strings.ReplaceAll(strings.TrimSpace(target), "_", " ")
}

func normalizeTag(t Tag) Tag {
	return Tag(strings.ToLower(strings.TrimSpace(string(t))))
}

func copyPhrases(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Package voice picks a synthesis voice for a language from the candidates a
// backend exposes.
package voice

import (
	"strings"

	"github.com/stellaroneai/swara/pkg/language"
)

// DefaultLowQualityMarkers flag voices whose EngineQualityHint marks a
// low-fidelity engine.
var DefaultLowQualityMarkers = []string{"low", "compact"}

// Candidate is a voice offered by a synthesis backend.
type Candidate struct {
	ID                string
	Name              string
	Locale            string
	IsLocal           bool
	EngineQualityHint string
}

// Resolver selects the best candidate for a language. It holds no state
// beyond its configuration and is safe for concurrent use.
type Resolver struct {
	catalog *language.Catalog
	markers []string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLowQualityMarkers replaces the default low-quality markers.
func WithLowQualityMarkers(markers ...string) Option {
	return func(r *Resolver) {
		r.markers = normalizeMarkers(markers)
	}
}

// NewResolver creates a resolver backed by catalog (the built-in catalog when nil).
func NewResolver(catalog *language.Catalog, opts ...Option) *Resolver {
	if catalog == nil {
		catalog = language.DefaultCatalog()
	}
	r := &Resolver{catalog: catalog, markers: normalizeMarkers(DefaultLowQualityMarkers)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps tag to its locale and returns ResolveLocale for it.
func (r *Resolver) Resolve(tag language.Tag, candidates []Candidate) *Candidate {
	return r.ResolveLocale(r.catalog.Locale(tag), candidates)
}

// ResolveLocale walks the fallback ladder and returns the first match, or nil
// when candidates is empty.
func (r *Resolver) ResolveLocale(locale string, candidates []Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}
	want := canonicalLocale(locale)
	family := primarySubtag(want)

	exact := func(c Candidate) bool { return canonicalLocale(c.Locale) == want }
	sameFamily := func(c Candidate) bool { return primarySubtag(canonicalLocale(c.Locale)) == family }
	preferredEnglish := func(c Candidate) bool {
		l := canonicalLocale(c.Locale)
		return l == "en-in" || l == "en-us"
	}
	english := func(c Candidate) bool { return primarySubtag(canonicalLocale(c.Locale)) == "en" }

	steps := []struct {
		match     func(Candidate) bool
		localOnly bool
	}{
		{exact, true},
		{exact, false},
		{sameFamily, true},
		{sameFamily, false},
		{preferredEnglish, true},
		{english, false},
	}
	for _, step := range steps {
		for i := range candidates {
			c := candidates[i]
			if r.IsLowQuality(c) {
				continue
			}
			if step.localOnly && !c.IsLocal {
				continue
			}
			if step.match(c) {
				return &candidates[i]
			}
		}
	}
	return &candidates[0]
}

// IsLowQuality reports whether the candidate's quality hint contains any
// configured marker.
func (r *Resolver) IsLowQuality(c Candidate) bool {
	hint := strings.ToLower(c.EngineQualityHint)
	if hint == "" {
		return false
	}
	for _, m := range r.markers {
		if strings.Contains(hint, m) {
			return true
		}
	}
	return false
}

func canonicalLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}

func primarySubtag(locale string) string {
	if i := strings.IndexByte(locale, '-'); i >= 0 {
		return locale[:i]
	}
	return locale
}

func normalizeMarkers(markers []string) []string {
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" {
			out = append(out, m)
		}
	}
	return out
}

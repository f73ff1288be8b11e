// Package redact masks personal identifiers in transcripts before they are
// logged or written to timelines.
package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var enabled atomic.Bool

type rule struct {
	re   *regexp.Regexp
	with string
}

// Order matters: longer digit groups go first so a 14-digit ABHA number is
// not half-eaten by the Aadhaar or phone patterns.
var rules = []rule{
	// ABHA number, 14 digits grouped 2-4-4-4.
	{regexp.MustCompile(`\b\d{2}[\s\-]?\d{4}[\s\-]?\d{4}[\s\-]?\d{4}\b`), "[REDACTED_ABHA]"},
	// ABHA address.
	{regexp.MustCompile(`(?i)\b[a-z0-9._]{3,}@(abdm|sbx)\b`), "[REDACTED_ABHA]"},
	{regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`), "[REDACTED_EMAIL]"},
	// Aadhaar, 12 digits grouped 4-4-4; never starts with 0 or 1.
	{regexp.MustCompile(`\b[2-9]\d{3}[\s\-]?\d{4}[\s\-]?\d{4}\b`), "[REDACTED_AADHAAR]"},
	// PAN, e.g. ABCDE1234F.
	{regexp.MustCompile(`(?i)\b[a-z]{5}\d{4}[a-z]\b`), "[REDACTED_PAN]"},
	{regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`), "[REDACTED_PHONE]"},
}

func SetEnabled(v bool) { enabled.Store(v) }

func Enabled() bool { return enabled.Load() }

// Text masks health ids, national ids, emails and phone numbers when
// redaction is enabled.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := in
	for _, r := range rules {
		out = r.re.ReplaceAllString(out, r.with)
	}
	return out
}

// Number keeps only the last four digits of a phone number. It applies
// whether or not Text redaction is enabled.
func Number(n string) string {
	digits := make([]byte, 0, len(n))
	for i := 0; i < len(n); i++ {
		if n[i] >= '0' && n[i] <= '9' {
			digits = append(digits, n[i])
		}
	}
	if len(digits) <= 4 {
		return "****"
	}
	return "****" + string(digits[len(digits)-4:])
}

package textutil

import (
	"strings"
)

// prefix graphy prepends to learner emails enrolled through the
// institutional tenant.
const InstitutionEmailPrefix = "vigyanshaalainternational1617-"

// StripEmailPrefix removes the institutional tenant prefix from an
// email if present. Every occurrence is removed, so stripping is
// idempotent even on emails the tenant prefixed twice.
func StripEmailPrefix(email string) string {
	if !strings.HasPrefix(email, InstitutionEmailPrefix) {
		return email
	}
	return strings.ReplaceAll(email, InstitutionEmailPrefix, "")
}

// CollapseNewlines replaces each newline with a space and trims
// surrounding whitespace, for feedback text destined for single-line
// CSV cells.
func CollapseNewlines(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}

package utils

import "strings"

// FoldName normalizes a name for tolerant matching: lowercase, with
// underscores and hyphens mapped to spaces and surrounding space trimmed. A
// stored "urgent-review" and a query "urgent_review" fold to the same form.
func FoldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}

// StripNonAlnum lowercases and keeps only letters and digits. Used as the
// normalization before edit-distance comparison, where spacing and
// punctuation should not count as differences.
func StripNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

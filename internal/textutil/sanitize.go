package textutil

import (
	"strings"
	"unicode"
)

// reservedFileRunes are rejected by at least one filesystem logos end up on.
const reservedFileRunes = `<>:"/\|?*`

// SanitizeFileName makes a catalog file stem safe to write into the logo
// directory. Reserved and control characters become dashes, dash runs
// collapse, and leading or trailing dots, dashes and spaces are trimmed.
func SanitizeFileName(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsControl(r) || strings.ContainsRune(reservedFileRunes, r) {
			r = '-'
		}
		if r == '-' && lastDash {
			continue
		}
		lastDash = r == '-'
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), " .-")
}

// SanitizeToken turns a normalized key into a dash-joined file stem,
// falling back to "logo" when the key has no tokens.
func SanitizeToken(key string) string {
	fields := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return "logo"
	}
	return strings.ToLower(strings.Join(fields, "-"))
}

package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// qualifierTokens are trailing broadcast qualifiers that never distinguish one
// channel from another.
var qualifierTokens = map[string]struct{}{
	// quality
	"hd": {}, "fhd": {}, "uhd": {}, "sd": {}, "4k": {}, "8k": {}, "hdr": {},
	"hevc": {}, "h264": {}, "h265": {}, "1080p": {}, "1080i": {}, "720p": {},
	"2160p": {}, "50fps": {}, "60fps": {},
	// region and feed
	"us": {}, "usa": {}, "uk": {}, "ca": {}, "au": {}, "nz": {}, "ie": {},
	"de": {}, "at": {}, "ch": {}, "fr": {}, "es": {}, "it": {}, "nl": {},
	"mx": {}, "br": {}, "int": {}, "intl": {}, "east": {}, "west": {},
	"pacific": {}, "backup": {},
}

var symbolReplacer = strings.NewReplacer("&", " and ", "+", " plus ")

// Normalize converts a display name or file stem into its match key.
// The result is deterministic: equal inputs always give equal keys.
func Normalize(raw string) string {
	return strings.Join(normalizedTokens(raw), " ")
}

// Tokens splits a normalized key into its space-separated tokens.
func Tokens(key string) []string {
	return strings.Fields(key)
}

// IsQualifier reports whether token is a trailing broadcast qualifier.
func IsQualifier(token string) bool {
	_, ok := qualifierTokens[token]
	return ok
}

func normalizedTokens(raw string) []string {
	folded := strings.ToLower(foldAccents(raw))
	folded = symbolReplacer.Replace(folded)
	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return trimQualifiers(tokens)
}

// trimQualifiers drops trailing qualifier tokens. A name made only of
// qualifiers is returned unchanged.
func trimQualifiers(tokens []string) []string {
	end := len(tokens)
	for end > 0 && IsQualifier(tokens[end-1]) {
		end--
	}
	if end == 0 {
		return tokens
	}
	return tokens[:end]
}

func foldAccents(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}

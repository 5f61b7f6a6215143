package store

import (
	"regexp"
	"strings"
)

// placeholderPatterns match logo references the host ships as stand-ins.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(^|/)logo(\.(png|jpg|jpeg|webp|svg))?$`),
	regexp.MustCompile(`(?i)(^|/)default(\.(png|jpg|jpeg|webp|svg))?$`),
	regexp.MustCompile(`(?i)(^|/)download\.jpg$`),
}

// IsPlaceholder reports whether a logo reference is empty or a known
// placeholder image.
func IsPlaceholder(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return true
	}
	for _, pattern := range placeholderPatterns {
		if pattern.MatchString(ref) {
			return true
		}
	}
	return false
}

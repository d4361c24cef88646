package render

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	lowerUpperRe  = regexp.MustCompile(`([\p{Ll}\d])(\p{Lu})`)
	upperRunRe    = regexp.MustCompile(`(\p{Lu}+)(\p{Lu}[\p{Ll}\d]+)`)
	separatorRe   = regexp.MustCompile(`[_-]+`)
	multiSpacesRe = regexp.MustCompile(`\s{2,}`)
)

// Funcs returns the functions available to every template.
func Funcs() map[string]any {
	return map[string]any{
		"humanize": Humanize,
		"titleize": Titleize,
	}
}

// Humanize splits camelCase, turns underscores and dashes into spaces and
// capitalizes the first letter of the lower-cased result.
func Humanize(s string) string {
	s = lowerUpperRe.ReplaceAllString(s, "${1}_${2}")
	s = upperRunRe.ReplaceAllString(s, "${1}_${2}")
	s = strings.ToLower(s)
	s = separatorRe.ReplaceAllString(s, " ")
	s = multiSpacesRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Titleize capitalizes every word of s and lower-cases the rest.
func Titleize(s string) string {
	// A Caser keeps state and must not be shared between goroutines.
	return cases.Title(language.English).String(s)
}

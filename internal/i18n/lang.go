// Package i18n holds the localized, behavior-free tables of the tutor:
// supported languages, the fixed reply catalog and the grading lexicon.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported conversation language.
type Lang string

const (
	English     Lang = "en"
	Azerbaijani Lang = "az"
)

// DefaultLang is used whenever a language cannot be resolved.
const DefaultLang = English

// supported lists the languages in matcher preference order. The first entry
// is the fallback the matcher returns when nothing matches.
var supported = []Lang{English, Azerbaijani}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Azerbaijani,
})

// Supported returns all supported languages.
func Supported() []Lang {
	out := make([]Lang, len(supported))
	copy(out, supported)
	return out
}

// ParseLang resolves a BCP 47 tag such as "az", "az-Latn-AZ" or "en-US" to a
// supported language. Empty, malformed and unsupported tags resolve to
// DefaultLang.
func ParseLang(s string) Lang {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLang
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No || idx < 0 || idx >= len(supported) {
		return DefaultLang
	}
	return supported[idx]
}

// String implements fmt.Stringer.
func (l Lang) String() string {
	return string(l)
}

// Valid reports whether l is one of the supported languages.
func (l Lang) Valid() bool {
	for _, s := range supported {
		if s == l {
			return true
		}
	}
	return false
}

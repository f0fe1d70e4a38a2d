package i18n

import "strings"

// Lexicon is the keyword list used to decide whether an evaluation reply
// confirmed or rejected a quiz answer.
type Lexicon struct {
	Positive []string
	Negative []string
}

var lexicons = map[Lang]Lexicon{
	English: {
		Positive: []string{"correct", "right", "excellent", "good", "yes", "exactly", "perfect"},
		Negative: []string{"incorrect", "wrong", "not quite", "actually", "the correct answer"},
	},
	Azerbaijani: {
		Positive: []string{"düzgün", "doğru", "əla", "yaxşı", "bəli", "dəqiq", "mükəmməl", "afərin"},
		Negative: []string{"səhv", "düzgün deyil", "doğru cavab"},
	},
}

// LexiconFor returns the grading lexicon for lang, falling back to English.
func LexiconFor(lang Lang) Lexicon {
	if lx, ok := lexicons[lang]; ok {
		return lx
	}
	return lexicons[DefaultLang]
}

// Confirms reports whether text contains at least one positive keyword and
// no negative keyword. Matching is case-insensitive substring matching.
func (lx Lexicon) Confirms(text string) bool {
	t := strings.ToLower(text)
	if containsAny(t, lx.Negative) {
		return false
	}
	return containsAny(t, lx.Positive)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

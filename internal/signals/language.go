package signals

import (
	"strings"
	"unicode"
)

// InferLanguage guesses the language of a single marked word. Script
// detection settles non-Latin alphabets; for Latin text a closed list of
// very common words decides, and anything else falls back to the tenant's
// primary language. This is a cheap hint for the review scheduler, not a
// language identifier.
func InferLanguage(word, tenantLanguage string) string {
	w := strings.TrimSpace(word)
	if w == "" {
		return normalizeLang(tenantLanguage)
	}

	if lang := detectScript(w); lang != "" {
		return lang
	}

	lower := strings.ToLower(w)
	if enWords[lower] {
		return "en"
	}
	if ptWords[lower] || hasPortugueseDiacritics(lower) {
		return "pt"
	}
	if esWords[lower] || strings.ContainsRune(lower, 'ñ') {
		return "es"
	}

	return normalizeLang(tenantLanguage)
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return "en"
	}
	return lang
}

func detectScript(w string) string {
	for _, r := range w {
		switch {
		case unicode.Is(unicode.Han, r):
			return "zh"
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			return "ja"
		case unicode.Is(unicode.Hangul, r):
			return "ko"
		case unicode.Is(unicode.Cyrillic, r):
			return "ru"
		case unicode.Is(unicode.Arabic, r):
			return "ar"
		case unicode.Is(unicode.Hebrew, r):
			return "he"
		case unicode.Is(unicode.Devanagari, r):
			return "hi"
		case unicode.Is(unicode.Greek, r):
			return "el"
		}
	}
	return ""
}

func hasPortugueseDiacritics(w string) bool {
	return strings.ContainsAny(w, "ãõçâêô")
}

// Closed lists of high-frequency words. Deliberately small: a miss falls
// back to the tenant language, which is the right default for anything
// ambiguous.
var enWords = map[string]bool{
	"the": true, "and": true, "of": true, "to": true, "in": true,
	"is": true, "that": true, "it": true, "was": true, "for": true,
	"with": true, "have": true, "this": true, "from": true, "not": true,
	"dog": true, "cat": true, "house": true, "water": true, "book": true,
	"day": true, "time": true, "people": true, "word": true, "world": true,
}

var ptWords = map[string]bool{
	"de": true, "que": true, "não": true, "uma": true, "para": true,
	"com": true, "por": true, "mais": true, "como": true, "mas": true,
	"gato": true, "cão": true, "casa": true, "água": true, "livro": true,
	"dia": true, "tempo": true, "gente": true, "palavra": true, "mundo": true,
}

var esWords = map[string]bool{
	"el": true, "los": true, "las": true, "una": true, "pero": true,
	"porque": true, "muy": true, "también": true, "donde": true, "cuando": true,
	"perro": true, "casa": true, "agua": true, "libro": true, "mundo": true,
}

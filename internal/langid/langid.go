// Package langid guesses and normalizes language codes without any
// network or model dependency. It is the offline fallback used when a
// language-detector capability is unavailable or unsure.
package langid

import (
	"strings"
	"unicode"
)

const sampleLimit = 100

var spanishStopwords = wordSet("el la los las de del que en un una es se no te lo le da su por son con para al todo pero más hacer muy aquí sido está hasta donde")
var frenchStopwords = wordSet("le la les de des du et en un une il elle est sont avec pour par sur dans mais plus tout vous nous ils elles ce cette qui que")
var germanStopwords = wordSet("der die das den dem des ein eine einen einem eines und in zu mit auf für von an bei nach über unter durch gegen ohne um vor hinter neben")

func wordSet(words string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}

// Detect guesses the language of text from its script, falling back to
// accent and stopword heuristics for Latin-script languages. It always
// returns a code; unknown input yields "en".
func Detect(text string) string {
	sample := []rune(text)
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}

	hasKana := false
	hasHan := false
	hasHangul := false
	hasArabic := false
	hasCyrillic := false
	for _, r := range sample {
		switch {
		case r >= 0x3040 && r <= 0x30FF:
			hasKana = true
		case r >= 0x4E00 && r <= 0x9FAF:
			hasHan = true
		case (r >= 0xAC00 && r <= 0xD7AF) || (r >= 0x1100 && r <= 0x11FF) || (r >= 0x3130 && r <= 0x318F):
			hasHangul = true
		case (r >= 0x0600 && r <= 0x06FF) || (r >= 0x0750 && r <= 0x077F):
			hasArabic = true
		case r >= 0x0400 && r <= 0x04FF:
			hasCyrillic = true
		}
	}
	switch {
	case hasKana:
		return "ja"
	case hasHan:
		return "zh"
	case hasHangul:
		return "ko"
	case hasArabic:
		return "ar"
	case hasCyrillic:
		return "ru"
	}

	lower := strings.ToLower(string(sample))
	words := fieldsLatin(lower)
	if containsAny(lower, "ñáéíóúü") || hasStopword(words, spanishStopwords) {
		return "es"
	}
	if containsAny(lower, "àâäéèêëïîôùûüÿç") || hasStopword(words, frenchStopwords) {
		return "fr"
	}
	if containsAny(lower, "äöüß") || hasStopword(words, germanStopwords) {
		return "de"
	}
	return "en"
}

func containsAny(s, chars string) bool {
	return strings.ContainsAny(s, chars)
}

func hasStopword(words []string, set map[string]struct{}) bool {
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}

func fieldsLatin(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// OutputCode maps a UI language selection onto the restricted set of
// output codes the generation capability accepts. Unsupported targets
// collapse to "en".
func OutputCode(lang string) string {
	switch lang {
	case "en", "es", "ja":
		return lang
	default:
		return "en"
	}
}

// SameLanguageTarget returns the substitute target used when the detected
// source equals the requested target. English flips to Spanish, everything
// else flips to English.
func SameLanguageTarget(detected string) string {
	if detected == "en" {
		return "es"
	}
	return "en"
}

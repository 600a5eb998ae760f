package langid

import "strings"

// Descriptor carries everything prompt assembly needs to know about a
// language, so templates stay pure and testable.
type Descriptor struct {
	Code               string
	Name               string
	TranslitSystem     string
	NeedsTranslit      bool
	SummarizerSupports bool
}

var descriptors = map[string]Descriptor{
	"en": {Code: "en", Name: "English", SummarizerSupports: true},
	"es": {Code: "es", Name: "Spanish", SummarizerSupports: true},
	"fr": {Code: "fr", Name: "French"},
	"de": {Code: "de", Name: "German"},
	"it": {Code: "it", Name: "Italian"},
	"pt": {Code: "pt", Name: "Portuguese"},
	"ru": {Code: "ru", Name: "Russian", NeedsTranslit: true, TranslitSystem: "Latin transliteration"},
	"zh": {Code: "zh", Name: "Chinese", NeedsTranslit: true, TranslitSystem: "Hanyu pinyin with tone marks"},
	"ja": {Code: "ja", Name: "Japanese", NeedsTranslit: true, TranslitSystem: "Hepburn romaji", SummarizerSupports: true},
	"ko": {Code: "ko", Name: "Korean", NeedsTranslit: true, TranslitSystem: "Revised Romanization"},
	"ar": {Code: "ar", Name: "Arabic", NeedsTranslit: true, TranslitSystem: "standard Latin transliteration"},
	"hi": {Code: "hi", Name: "Hindi", NeedsTranslit: true, TranslitSystem: "Latin transliteration"},
}

// Extra non-Latin-script codes beyond the descriptor table. Matches the
// set of languages whose vocabulary fields get transliterated.
var nonLatinExtra = map[string]struct{}{
	"he": {}, "th": {}, "bn": {}, "ta": {}, "te": {}, "mr": {}, "gu": {},
	"kn": {}, "ml": {}, "or": {}, "pa": {}, "ur": {}, "fa": {}, "ne": {}, "si": {},
}

// Describe returns the descriptor for a code, defaulting to a bare
// descriptor that reuses the code as its display name.
func Describe(code string) Descriptor {
	if d, ok := descriptors[code]; ok {
		return d
	}
	if _, ok := nonLatinExtra[code]; ok {
		return Descriptor{Code: code, Name: code, NeedsTranslit: true, TranslitSystem: "Latin transliteration"}
	}
	return Descriptor{Code: code, Name: code}
}

// Name returns the display name for a code ("Detected" for auto).
func Name(code string) string {
	if code == "auto" {
		return "Detected"
	}
	return Describe(code).Name
}

// NeedsTransliteration reports whether a language typically uses a
// non-Latin script.
func NeedsTransliteration(code string) bool {
	if code == "" || code == "auto" {
		return false
	}
	return Describe(strings.ToLower(code)).NeedsTranslit
}

// TranslitLabel is the user-facing row label for a language's
// romanization ("Romaji", "Pinyin", else "Transliteration").
func TranslitLabel(code string) string {
	switch code {
	case "ja":
		return "Romaji"
	case "zh":
		return "Pinyin"
	default:
		return "Transliteration"
	}
}

// labelAliases maps a language code to the lowercase label spellings a
// model may prefix pronunciation lines with.
var labelAliases = map[string][]string{
	"en": {"english", "en"},
	"es": {"spanish", "es", "español"},
	"fr": {"french", "fr", "français"},
	"de": {"german", "de", "deutsch"},
	"it": {"italian", "it", "italiano"},
	"pt": {"portuguese", "pt", "português"},
	"ru": {"russian", "ru", "русский"},
	"zh": {"chinese", "zh", "中文", "汉语", "漢語"},
	"ja": {"japanese", "ja", "日本語"},
	"ko": {"korean", "ko", "한국어", "조선어"},
	"ar": {"arabic", "ar", "العربية"},
	"hi": {"hindi", "hi", "हिन्दी"},
}

// LabelAliases returns the known label spellings for a language code.
func LabelAliases(code string) []string {
	return labelAliases[code]
}

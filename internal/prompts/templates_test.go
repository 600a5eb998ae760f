package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"polyglot_reader/internal/langid"
)

func TestGrammarIncludesRomanizationRulesForNonLatinSource(t *testing.T) {
	ja := langid.Describe("ja")
	en := langid.Describe("en")

	p := Grammar("猫が好きです", en, ja)
	assert.Contains(t, p, "IMPORTANT: For ALL non-English text")
	assert.Contains(t, p, "Respond in English.")

	p = Grammar("El gato duerme", en, langid.Describe("es"))
	assert.NotContains(t, p, "IMPORTANT: For ALL non-English text")
}

func TestSummaryIsEntirelyInOutputLanguage(t *testing.T) {
	p := Summary("some text", langid.Describe("es"))
	assert.Contains(t, p, "Summarize the following text in Spanish")
	assert.Contains(t, p, "entirely in Spanish")
}

func TestVocabSeedRequestsStrictJSON(t *testing.T) {
	p := VocabSeed("texto de ejemplo", 12, langid.Describe("es"))
	assert.Contains(t, p, "up to 12 vocabulary words")
	assert.Contains(t, p, `[{"word": "...", "pos":`)
}

func TestVocabDetailTransliterationOnlyForNonLatin(t *testing.T) {
	en := langid.Describe("en")
	withTranslit := VocabDetail("猫", "noun", langid.Describe("ja"), en)
	assert.Contains(t, withTranslit, "Hepburn romaji")

	without := VocabDetail("gato", "noun", langid.Describe("es"), en)
	assert.NotContains(t, without, "transliteration:")
}

func TestEnrichOnlyAsksForMissingFields(t *testing.T) {
	p := Enrich("perro", true, false, false, langid.Describe("es"))
	assert.Contains(t, p, "example sentence")
	assert.NotContains(t, p, "definition")
	assert.NotContains(t, p, "romanization")
	assert.Contains(t, p, "one per line, no labels")
}

func TestTransliterateLinesNumbersInput(t *testing.T) {
	p := TransliterateLines([]string{"猫が好き", "犬も好き"}, langid.Describe("ja"))
	assert.True(t, strings.Contains(p, "1. 猫が好き"))
	assert.True(t, strings.Contains(p, "2. 犬も好き"))
	assert.Contains(t, p, "Hepburn romaji")
}

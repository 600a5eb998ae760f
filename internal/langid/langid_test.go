package langid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"これは日本語の文章です", "ja"},
		{"カタカナだけのテキスト", "ja"},
		{"这是一段中文文本", "zh"},
		{"한국어 문장입니다", "ko"},
		{"هذا نص عربي", "ar"},
		{"Это русский текст", "ru"},
		{"Hola, ¿cómo estás?", "es"},
		{"el perro corre por la calle", "es"},
		{"Bonjour, comment allez-vous aujourd'hui", "fr"},
		{"der Hund läuft über die Straße", "de"},
		{"The quick brown fox jumps over the lazy dog", "en"},
		{"", "en"},
		{"12345 !!!", "en"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Detect(tc.text), "text=%q", tc.text)
	}
}

func TestDetectDeterministic(t *testing.T) {
	text := "Hola, ¿cómo estás? Espero que todo vaya bien."
	first := Detect(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Detect(text))
	}
}

func TestDetectKanaBeatsHan(t *testing.T) {
	// Kanji plus kana is Japanese, not Chinese.
	assert.Equal(t, "ja", Detect("日本語を勉強しています"))
	assert.Equal(t, "zh", Detect("日本人在中国"))
}

func TestOutputCode(t *testing.T) {
	assert.Equal(t, "en", OutputCode("en"))
	assert.Equal(t, "es", OutputCode("es"))
	assert.Equal(t, "ja", OutputCode("ja"))
	assert.Equal(t, "en", OutputCode("fr"))
	assert.Equal(t, "en", OutputCode("zh"))
	assert.Equal(t, "en", OutputCode(""))
	assert.Equal(t, "en", OutputCode("xx"))
}

func TestSameLanguageTarget(t *testing.T) {
	assert.Equal(t, "es", SameLanguageTarget("en"))
	assert.Equal(t, "en", SameLanguageTarget("es"))
	assert.Equal(t, "en", SameLanguageTarget("ja"))
	assert.Equal(t, "en", SameLanguageTarget("xx"))
}

func TestDescribe(t *testing.T) {
	ja := Describe("ja")
	assert.Equal(t, "Japanese", ja.Name)
	assert.True(t, ja.NeedsTranslit)
	assert.Equal(t, "Hepburn romaji", ja.TranslitSystem)

	unknown := Describe("xx")
	assert.Equal(t, "xx", unknown.Name)
	assert.False(t, unknown.NeedsTranslit)

	assert.True(t, NeedsTransliteration("th"))
	assert.False(t, NeedsTransliteration("es"))
	assert.False(t, NeedsTransliteration("auto"))
}

func TestTranslitLabel(t *testing.T) {
	assert.Equal(t, "Romaji", TranslitLabel("ja"))
	assert.Equal(t, "Pinyin", TranslitLabel("zh"))
	assert.Equal(t, "Transliteration", TranslitLabel("ko"))
}

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"polyglot_reader/internal/vocab"
)

func TestSanitizeDropsScriptAndEventHandlers(t *testing.T) {
	in := `<div class="x" onclick="evil()"><script>alert(1)</script><b>bold</b>text</div>`
	out := Sanitize(in)
	assert.Equal(t, `<div class="x">boldtext</div>`, out)
}

func TestSanitizeKeepsAllowlistedMarkup(t *testing.T) {
	in := `<ul><li title="a">one</li><li>two</li></ul><h3>head</h3><br><span>s</span>`
	assert.Equal(t, in, Sanitize(in))
}

func TestSanitizeEscapesTextContent(t *testing.T) {
	out := Sanitize(`<span>a < b & c</span>`)
	assert.Contains(t, out, "&lt; b &amp; c")
}

func TestFormatRichBoldAndBullets(t *testing.T) {
	in := "**Structure:** simple sentence\n\n- first point\n- second point\nclosing line"
	out := FormatRich(in)
	assert.Contains(t, out, "<strong>Structure:</strong>")
	assert.Contains(t, out, "<ul><li>first point</li><li>second point</li></ul>")
	assert.Contains(t, out, "<div>closing line</div>")
}

func TestFormatRichEscapesInjection(t *testing.T) {
	out := FormatRich("**bold** <img src=x onerror=alert(1)>")
	assert.NotContains(t, out, "<img")
	assert.Contains(t, out, "&lt;img")
}

func TestStripBullet(t *testing.T) {
	assert.Equal(t, "point", StripBullet("• point"))
	assert.Equal(t, "point", StripBullet("- point"))
	assert.Equal(t, "point", StripBullet("3. point"))
	assert.Equal(t, "point", StripBullet("2) point"))
	assert.Equal(t, "point", StripBullet("point"))
}

func TestTranslationPanelEscapes(t *testing.T) {
	out := TranslationPanel(`<b>x</b>`, "y", "", "")
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
}

func TestSummaryPanelPairsPoints(t *testing.T) {
	out := SummaryPanel([]SummaryPoint{
		{Original: "猫が好き", Transliteration: "neko ga suki", Translated: "I like cats"},
		{Original: "犬も好き", Translated: "I like dogs too"},
	})
	assert.Contains(t, out, "猫が好き")
	assert.Contains(t, out, "(neko ga suki)")
	assert.Contains(t, out, "<li>I like cats</li>")
	assert.Equal(t, 1, strings.Count(out, `class="translit"`))
}

func TestVocabCardPatchHasStableID(t *testing.T) {
	card := vocab.Card{Index: 3, Word: "perro", POS: "noun", Pending: true}
	out := VocabCard(&card, VocabOptions{})
	assert.Contains(t, out, `id="vocab-card-3"`)
	assert.Contains(t, out, "Loading details")

	card.Pending = false
	card.Definition = "dog"
	card.Example = "El perro corre."
	patched := VocabCard(&card, VocabOptions{})
	assert.Contains(t, patched, `id="vocab-card-3"`)
	assert.Contains(t, patched, "El perro corre.")
	assert.NotContains(t, patched, "Loading details")
}

func TestVocabCardPronunciationToggle(t *testing.T) {
	card := vocab.Card{Index: 0, Word: "猫", Pronunciation: "neko", Definition: "cat"}
	shown := VocabCard(&card, VocabOptions{ShowPronunciation: true})
	assert.Contains(t, shown, "neko")
	hidden := VocabCard(&card, VocabOptions{ShowPronunciation: false})
	assert.NotContains(t, hidden, "neko")
}

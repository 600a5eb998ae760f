package render

import (
	"strings"

	"polyglot_reader/internal/vocab"
)

// VocabOptions control optional card rows and list-level notices.
type VocabOptions struct {
	ShowPronunciation bool
	TranslitLabel     string
	Truncated         bool
}

// VocabList renders the full card list container. Pending cards render as
// placeholders that VocabCard later replaces by id.
func VocabList(cards []vocab.Card, opts VocabOptions) string {
	var b strings.Builder
	b.WriteString(`<div class="result vocab"><h3>Vocabulary</h3>`)
	if opts.Truncated {
		b.WriteString(`<div class="truncation-note">Long selection: vocabulary was extracted from the beginning of the text.</div>`)
	}
	for i := range cards {
		b.WriteString(VocabCard(&cards[i], opts))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// VocabCard renders one card as a standalone fragment carrying its stable
// id, usable both inside the list and as a single-card patch.
func VocabCard(c *vocab.Card, opts VocabOptions) string {
	var b strings.Builder
	b.WriteString(`<div class="vocab-card" id="` + CardID(c.Index) + `">`)
	b.WriteString(`<div class="vocab-head"><span class="word">` + Escape(c.Word) + `</span>`)
	if c.POS != "" {
		b.WriteString(` <span class="pos">` + Escape(c.POS) + `</span>`)
	}
	if c.CEFR != "" {
		b.WriteString(` <span class="cefr">` + Escape(c.CEFR) + `</span>`)
	}
	b.WriteString(`</div>`)

	switch {
	case c.Pending:
		b.WriteString(`<div class="vocab-loading">Loading details…</div>`)
	case c.Failed:
		b.WriteString(`<div class="vocab-failed">Details unavailable for this word.</div>`)
	default:
		writeCardBody(&b, c, opts)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeCardBody(b *strings.Builder, c *vocab.Card, opts VocabOptions) {
	if c.Reading != "" {
		b.WriteString(`<div class="reading">` + Escape(c.Reading) + `</div>`)
	}
	if c.Transliteration != "" {
		label := opts.TranslitLabel
		if label == "" {
			label = "Transliteration"
		}
		b.WriteString(`<div class="translit"><span class="label">` + Escape(label) + `:</span> ` + Escape(c.Transliteration) + `</div>`)
	}
	if opts.ShowPronunciation && c.Pronunciation != "" {
		b.WriteString(`<div class="pronunciation">` + Escape(c.Pronunciation))
		if c.Stress != "" {
			b.WriteString(` <span class="stress">(stress: ` + Escape(c.Stress) + `)</span>`)
		}
		b.WriteString(`</div>`)
	}
	if c.Definition != "" {
		b.WriteString(`<div class="definition">` + Escape(c.Definition) + `</div>`)
	}
	if c.Example != "" {
		b.WriteString(`<div class="example">` + Escape(c.Example))
		if c.ExampleTranslation != "" {
			b.WriteString(` <span class="example-translation">` + Escape(c.ExampleTranslation) + `</span>`)
		}
		b.WriteString(`</div>`)
	}
	writeMeta(b, c)
	if len(c.Synonyms) > 0 {
		b.WriteString(`<div class="synonyms"><span class="label">Synonyms:</span> ` + Escape(strings.Join(c.Synonyms, ", ")) + `</div>`)
	}
	if len(c.Antonyms) > 0 {
		b.WriteString(`<div class="antonyms"><span class="label">Antonyms:</span> ` + Escape(strings.Join(c.Antonyms, ", ")) + `</div>`)
	}
	if len(c.Collocations) > 0 {
		b.WriteString(`<div class="collocations"><span class="label">Collocations:</span> ` + Escape(strings.Join(c.Collocations, ", ")) + `</div>`)
	}
	if c.Etymology != "" {
		b.WriteString(`<div class="etymology">` + Escape(c.Etymology) + `</div>`)
	}
	if c.Cultural != "" {
		b.WriteString(`<div class="cultural">` + Escape(c.Cultural) + `</div>`)
	}
}

func writeMeta(b *strings.Builder, c *vocab.Card) {
	var meta []string
	if c.Frequency != "" {
		meta = append(meta, c.Frequency)
	}
	if c.Register != "" {
		meta = append(meta, c.Register)
	}
	if c.Family != "" {
		meta = append(meta, c.Family)
	}
	if len(meta) == 0 {
		return
	}
	b.WriteString(`<div class="meta">` + Escape(strings.Join(meta, " · ")) + `</div>`)
}

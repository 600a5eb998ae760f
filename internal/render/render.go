// Package render turns analysis results into HTML fragments for the
// results panel. All interpolated text is escaped; model-produced markup
// passes through an allowlist sanitizer first.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	bulletRe = regexp.MustCompile(`^\s*(?:[•\-*►▪︎▫︎◦‣⁃∙]+|\d+[.)])\s*`)
)

// Escape HTML-escapes plain text for safe interpolation.
func Escape(s string) string {
	return html.EscapeString(s)
}

// FormatRich converts lightweight model markup (bold markers, bullet
// lines, section headers) into sanitized HTML. Input is escaped before
// any markup is reintroduced.
func FormatRich(text string) string {
	esc := Escape(strings.TrimSpace(text))
	esc = boldRe.ReplaceAllString(esc, "<strong>$1</strong>")

	var b strings.Builder
	var inList bool
	for _, line := range strings.Split(esc, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if inList {
				b.WriteString("</ul>")
				inList = false
			}
			continue
		}
		if bulletRe.MatchString(trimmed) {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>" + bulletRe.ReplaceAllString(trimmed, "") + "</li>")
			continue
		}
		if inList {
			b.WriteString("</ul>")
			inList = false
		}
		b.WriteString("<div>" + trimmed + "</div>")
	}
	if inList {
		b.WriteString("</ul>")
	}
	return b.String()
}

// StripBullet removes a leading list marker from one line.
func StripBullet(line string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(line), ""))
}

// TranslationPanel renders the translate-mode result. pronunciation and
// detectedNote are optional.
func TranslationPanel(original, translated, pronunciation, detectedNote string) string {
	var b strings.Builder
	b.WriteString(`<div class="result translation">`)
	if detectedNote != "" {
		b.WriteString(`<div class="detected-note">` + Escape(detectedNote) + `</div>`)
	}
	b.WriteString(`<div class="original">` + Escape(original) + `</div>`)
	b.WriteString(`<div class="translated" title="` + Escape(original) + `">` + Escape(translated) + `</div>`)
	if pronunciation != "" {
		b.WriteString(`<div class="pronunciation">` + Escape(pronunciation) + `</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// StreamingShell renders the container a streaming translation writes
// into; chunks are appended as escaped text by the host.
func StreamingShell(original string) string {
	return `<div class="result translation streaming">` +
		`<div class="original">` + Escape(original) + `</div>` +
		`<div class="translated"></div></div>`
}

// SummaryPoint pairs one summary bullet with its translation and
// optional transliteration.
type SummaryPoint struct {
	Original        string
	Transliteration string
	Translated      string
}

// SummaryPanel renders both the source-language bullets and their
// translations.
func SummaryPanel(points []SummaryPoint) string {
	var b strings.Builder
	b.WriteString(`<div class="result summary">`)
	b.WriteString(`<h3>Summary</h3><ul class="summary-original">`)
	for _, p := range points {
		b.WriteString(`<li>` + Escape(p.Original))
		if p.Transliteration != "" {
			b.WriteString(` <span class="translit">(` + Escape(p.Transliteration) + `)</span>`)
		}
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul><h4>Translation</h4><ul class="summary-translated">`)
	for _, p := range points {
		b.WriteString(`<li>` + Escape(p.Translated) + `</li>`)
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

// AnalysisPanel renders grammar and verbs results from rich model text.
func AnalysisPanel(title, body string) string {
	return `<div class="result analysis"><h3>` + Escape(title) + `</h3>` +
		FormatRich(body) + `</div>`
}

// ErrorPanel renders a user-facing failure with an optional remediation
// hint.
func ErrorPanel(message, hint string) string {
	out := `<div class="result error"><div class="error-message">` + Escape(message) + `</div>`
	if hint != "" {
		out += `<div class="error-hint">` + Escape(hint) + `</div>`
	}
	return out + `</div>`
}

// NoticePanel renders informational states such as "no vocabulary found".
func NoticePanel(message string) string {
	return `<div class="result notice">` + Escape(message) + `</div>`
}

// CardID is the stable element id used to patch one vocabulary card.
func CardID(index int) string {
	return fmt.Sprintf("vocab-card-%d", index)
}

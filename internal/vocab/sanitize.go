package vocab

import (
	"regexp"
	"strings"
	"unicode"

	"polyglot_reader/internal/langid"
)

var labelLineRe = regexp.MustCompile(`^([\p{L}\s]+):\s*(.+)$`)

// SanitizePronunciation reduces a possibly multi-line, language-labeled
// model answer to the single pronunciation for the source language.
// Preference order: an unlabeled line, then a line whose label names the
// source language, then the first line with its label stripped. Labels
// like "European" or "Other" never match.
func SanitizePronunciation(raw, sourceLang string) string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	aliases := langid.LabelAliases(sourceLang)
	var unlabeled, matched string
	for _, line := range lines {
		m := labelLineRe.FindStringSubmatch(line)
		if m == nil {
			if unlabeled == "" {
				unlabeled = line
			}
			continue
		}
		label := strings.ToLower(strings.TrimSpace(m[1]))
		if strings.Contains(label, "european") || label == "other" {
			continue
		}
		if matched == "" && labelMatches(label, aliases) {
			matched = strings.TrimSpace(m[2])
		}
	}
	switch {
	case unlabeled != "":
		return unlabeled
	case matched != "":
		return matched
	}
	if m := labelLineRe.FindStringSubmatch(lines[0]); m != nil {
		return strings.TrimSpace(m[2])
	}
	return lines[0]
}

func labelMatches(label string, aliases []string) bool {
	for _, a := range aliases {
		if label == a || strings.Contains(label, a) {
			return true
		}
	}
	return false
}

var sentenceEnd = map[rune]bool{
	'.': true, '!': true, '?': true, '。': true, '！': true, '？': true,
}

// TruncateExample caps an example sentence at max runes, preferring a cut
// at a sentence boundary, then at a word boundary.
func TruncateExample(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	lastEnd, lastSpace := -1, -1
	for i := 0; i < max; i++ {
		switch {
		case sentenceEnd[runes[i]]:
			lastEnd = i
		case unicode.IsSpace(runes[i]):
			lastSpace = i
		}
	}
	if lastEnd >= max/2 {
		return string(runes[:lastEnd+1])
	}
	if lastSpace > 0 {
		return string(runes[:lastSpace]) + "…"
	}
	return string(runes[:max]) + "…"
}

// truncateSample caps the seed-phase input at max runes, cutting at a
// word boundary when one is close enough.
func truncateSample(s string, max int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}
	cut := max
	for i := max; i > max-40 && i > 0; i-- {
		if unicode.IsSpace(runes[i-1]) {
			cut = i - 1
			break
		}
	}
	return strings.TrimSpace(string(runes[:cut])), true
}

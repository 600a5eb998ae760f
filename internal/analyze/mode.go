// Package analyze orchestrates the per-mode pipelines: translation,
// summarization, vocabulary, grammar, and verb analysis over the
// capability registry.
package analyze

import "fmt"

// Mode is the analysis the user asked for.
type Mode string

const (
	ModeTranslate  Mode = "translate"
	ModeSummary    Mode = "summary"
	ModeVocabulary Mode = "vocabulary"
	ModeGrammar    Mode = "grammar"
	ModeVerbs      Mode = "verbs"
)

// Modes lists every mode in UI order.
var Modes = []Mode{ModeTranslate, ModeSummary, ModeVocabulary, ModeGrammar, ModeVerbs}

// ParseMode validates a mode string from settings or the CLI.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

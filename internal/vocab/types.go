// Package vocab extracts learner vocabulary from a selection in two
// phases: a fast seed wave (words and parts of speech) and a bounded
// concurrent detail wave that fills in full cards.
package vocab

import "strings"

// Strategy selects how much detail the second wave requests per word.
type Strategy string

const (
	// StrategyFast uses the compact JSON detail prompt for every word.
	StrategyFast Strategy = "fast"
	// StrategyFull uses the prose detail prompt for richer cards.
	StrategyFull Strategy = "full"
	// StrategyAdaptive picks compact when the input was truncated, full
	// otherwise.
	StrategyAdaptive Strategy = "adaptive"
)

// ParseStrategy maps stored settings values onto a Strategy, defaulting
// to adaptive.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyFast:
		return StrategyFast
	case StrategyFull:
		return StrategyFull
	default:
		return StrategyAdaptive
	}
}

// Seed is the first-wave record for one word.
type Seed struct {
	Word string `json:"word"`
	POS  string `json:"pos"`
}

// Card is one fully described vocabulary entry. Pending cards have only
// seed fields; the detail wave patches them in place by Index.
type Card struct {
	Index              int
	Word               string
	POS                string
	Definition         string
	Example            string
	ExampleTranslation string
	Reading            string
	Pronunciation      string
	Stress             string
	CEFR               string
	Frequency          string
	Register           string
	Family             string
	Synonyms           []string
	Antonyms           []string
	Collocations       []string
	Etymology          string
	Cultural           string
	Transliteration    string
	Pending            bool
	Failed             bool
}

// NeedsEnrichment reports whether the deferred wave should revisit this
// card for a missing example or definition.
func (c *Card) NeedsEnrichment() bool {
	return !c.Pending && !c.Failed && (c.Example == "" || c.Definition == "")
}

// Result is the outcome of one vocabulary run.
type Result struct {
	Cards      []Card
	Truncated  bool
	SourceLang string
	TargetLang string
}

// clone copies the result so one caller's in-place card mutation cannot
// be observed through the shared cache entry.
func (r *Result) clone() *Result {
	out := *r
	out.Cards = append([]Card(nil), r.Cards...)
	return &out
}

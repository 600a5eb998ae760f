package vocab

import (
	"encoding/json"
	"fmt"
	"strings"

	"polyglot_reader/internal/jsonx"
)

// parseSeeds decodes the strict-JSON seed wave. A response with no
// parseable array is fatal for the run; an empty array is a valid
// "nothing worth learning" answer.
func parseSeeds(raw string, limit int) ([]Seed, error) {
	payload := jsonx.Extract(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON array in seed response")
	}
	var seeds []Seed
	if err := json.Unmarshal([]byte(payload), &seeds); err != nil {
		return nil, fmt.Errorf("parsing seed response: %w", err)
	}
	seen := make(map[string]bool, len(seeds))
	out := make([]Seed, 0, len(seeds))
	for _, s := range seeds {
		s.Word = strings.TrimSpace(s.Word)
		s.POS = strings.ToLower(strings.TrimSpace(s.POS))
		if s.Word == "" {
			continue
		}
		key := strings.ToLower(s.Word)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// stringList tolerates models answering either "a, b" or ["a","b"].
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = splitClean(arr...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = splitClean(strings.Split(s, ",")...)
	return nil
}

func splitClean(parts ...string) []string {
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type detailPayload struct {
	Def                string     `json:"def"`
	Example            string     `json:"example"`
	ExampleTranslation string     `json:"exampleTranslation"`
	Reading            string     `json:"reading"`
	Pronunciation      string     `json:"pronunciation"`
	Stress             string     `json:"stress"`
	CEFR               string     `json:"cefr"`
	Frequency          string     `json:"frequency"`
	Register           string     `json:"register"`
	Family             string     `json:"family"`
	Synonyms           stringList `json:"synonyms"`
	Antonyms           stringList `json:"antonyms"`
	Collocations       stringList `json:"collocations"`
	Etymology          string     `json:"etymology"`
	Cultural           string     `json:"cultural"`
	Transliteration    string     `json:"transliteration"`
}

// applyDetailJSON fills a card from the compact-strategy JSON answer.
func applyDetailJSON(c *Card, raw string) error {
	payload := jsonx.Extract(raw)
	if payload == "" {
		return fmt.Errorf("no JSON object in detail response")
	}
	var d detailPayload
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return fmt.Errorf("parsing detail response: %w", err)
	}
	c.Definition = strings.TrimSpace(d.Def)
	c.Example = strings.TrimSpace(d.Example)
	c.ExampleTranslation = strings.TrimSpace(d.ExampleTranslation)
	c.Reading = strings.TrimSpace(d.Reading)
	c.Pronunciation = strings.TrimSpace(d.Pronunciation)
	c.Stress = strings.TrimSpace(d.Stress)
	c.CEFR = strings.ToUpper(strings.TrimSpace(d.CEFR))
	c.Frequency = strings.ToLower(strings.TrimSpace(d.Frequency))
	c.Register = strings.ToLower(strings.TrimSpace(d.Register))
	c.Family = strings.TrimSpace(d.Family)
	c.Synonyms = []string(d.Synonyms)
	c.Antonyms = []string(d.Antonyms)
	c.Collocations = []string(d.Collocations)
	c.Etymology = strings.TrimSpace(d.Etymology)
	c.Cultural = strings.TrimSpace(d.Cultural)
	c.Transliteration = strings.TrimSpace(d.Transliteration)
	return nil
}

// proseLabels maps the labels of the full-strategy answer onto card
// fields. Longer labels are checked before their prefixes.
var proseLabels = []struct {
	label string
	apply func(c *Card, v string)
}{
	{"example translation", func(c *Card, v string) { c.ExampleTranslation = v }},
	{"example", func(c *Card, v string) { c.Example = v }},
	{"definition", func(c *Card, v string) { c.Definition = v }},
	{"reading", func(c *Card, v string) { c.Reading = v }},
	{"pronunciation", func(c *Card, v string) { c.Pronunciation = v }},
	{"stress", func(c *Card, v string) { c.Stress = v }},
	{"cefr", func(c *Card, v string) { c.CEFR = strings.ToUpper(v) }},
	{"frequency", func(c *Card, v string) { c.Frequency = strings.ToLower(v) }},
	{"register", func(c *Card, v string) { c.Register = strings.ToLower(v) }},
	{"word family", func(c *Card, v string) { c.Family = v }},
	{"synonyms", func(c *Card, v string) { c.Synonyms = splitClean(strings.Split(v, ",")...) }},
	{"antonyms", func(c *Card, v string) { c.Antonyms = splitClean(strings.Split(v, ",")...) }},
	{"collocations", func(c *Card, v string) { c.Collocations = splitClean(strings.Split(v, ",")...) }},
	{"etymology", func(c *Card, v string) { c.Etymology = v }},
	{"cultural", func(c *Card, v string) { c.Cultural = v }},
	{"transliteration", func(c *Card, v string) { c.Transliteration = v }},
}

// applyDetailProse fills a card from labeled "Label: value" lines.
// Unknown labels are ignored; a response with no recognized line at all
// is an error.
func applyDetailProse(c *Card, raw string) error {
	applied := 0
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*• \t"))
		i := strings.Index(line, ":")
		if i <= 0 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(strings.Trim(line[:i], "*")))
		value := strings.TrimSpace(strings.TrimLeft(line[i+1:], "* "))
		if value == "" {
			continue
		}
		for _, p := range proseLabels {
			if strings.HasPrefix(label, p.label) {
				p.apply(c, value)
				applied++
				break
			}
		}
	}
	if applied == 0 {
		return fmt.Errorf("no recognized fields in detail response")
	}
	return nil
}

// Package prompts assembles the prompt strings sent to language
// capabilities. Every function is pure so prompt content is testable
// without a live provider.
package prompts

import (
	"fmt"
	"strings"

	"polyglot_reader/internal/langid"
)

const translitRules = `
IMPORTANT: For ALL non-English text in your response, include romanization in parentheses.
Example for Japanese: は (wa), を (wo), である (dearu)
Example for Chinese: 的 (de), 是 (shì), 了 (le)
Apply this to ALL sections.`

// SummarizerContext steers the dedicated summarization capability.
const SummarizerContext = "Create 3-5 clear bullet points highlighting the key information"

func Translate(text string, target langid.Descriptor) string {
	return fmt.Sprintf(`Translate the following text to %s. Provide only the translation, no explanations:

"%s"`, target.Name, text)
}

func Pronunciation(text string, target langid.Descriptor) string {
	return fmt.Sprintf(`Provide phonetic pronunciation for "%s" in %s. Just return the pronunciation guide.`, text, target.Name)
}

func Transliterate(text string, source langid.Descriptor) string {
	system := source.TranslitSystem
	if system == "" {
		system = "Latin transliteration"
	}
	return strings.TrimSpace(fmt.Sprintf(`Provide the standard %s of the following %s text. Return only the transliteration, with no labels or explanations.

"""%s"""`, system, source.Name, text))
}

// TransliterateLines romanizes numbered sentences one line each, used for
// summary bullet points.
func TransliterateLines(lines []string, source langid.Descriptor) string {
	system := source.TranslitSystem
	if system == "" {
		system = "romanization"
	}
	numbered := make([]string, 0, len(lines))
	for i, l := range lines {
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, l))
	}
	return fmt.Sprintf(`You are an expert at %s %s. Provide accurate, natural %s for each sentence below.

Rules:
- Use standard %s conventions
- Maintain proper spacing and word boundaries
- Preserve punctuation
- Return ONLY the romanized text, one line per sentence
- Do NOT add explanations or translations

Sentences to romanize:
%s`, source.Name, system, system, system, strings.Join(numbered, "\n"))
}

func Summary(text string, lang langid.Descriptor) string {
	return fmt.Sprintf(`Summarize the following text in %s. Create a clear, concise summary with 3-5 key points. Use bullet points or short paragraphs. Keep it under 200 words.

Text to summarize:
"""%s"""

Provide the summary entirely in %s.`, lang.Name, text, lang.Name)
}

func Grammar(text string, target, source langid.Descriptor) string {
	extra := ""
	if source.NeedsTranslit {
		extra = translitRules
	}
	return fmt.Sprintf(`Analyze the grammar briefly: "%s"

Provide a short analysis (3-4 sentences per section):

**Structure:** Main sentence type and key elements (include romanization for non-English examples)

**Grammar:** Key tenses and grammatical patterns (include romanization for non-English examples)

**Learning:** Main takeaway and difficulty (include romanization for non-English examples)
%s
Keep it very brief. Respond in %s.`, text, extra, target.Name)
}

func Verbs(text string, target, source langid.Descriptor) string {
	extra := ""
	if source.NeedsTranslit {
		extra = translitRules
	}
	return fmt.Sprintf(`Analyze verbs briefly in: "%s"

Short analysis (3-4 sentences per section):

**Verbs:** List main verbs found with romanization if non-English

**Tenses:** What tenses are used (include romanization for any non-English examples)

**Patterns:** Regular or irregular (include romanization for any non-English examples)

**Usage:** Context and formality (include romanization for any non-English examples)
%s
Keep it very brief. Respond in %s.`, text, extra, target.Name)
}

// VocabSeed asks for the fast first wave: words and parts of speech only,
// as strict JSON.
func VocabSeed(sample string, limit int, source langid.Descriptor) string {
	return fmt.Sprintf(`Identify up to %d vocabulary words worth learning from this %s text.
Return ONLY a JSON array, no prose: [{"word": "...", "pos": "noun|verb|adjective|adverb|particle|other"}]
Pick salient, non-trivial words. Keep the original script.

TEXT:
%s`, limit, source.Name, sample)
}

// VocabDetail asks for the full per-word record as strict JSON. The compact
// strategy uses exactly this shape; missing keys come back as empty strings.
func VocabDetail(word, pos string, source, target langid.Descriptor) string {
	translit := ""
	if source.NeedsTranslit {
		translit = fmt.Sprintf("\n- transliteration: %s of the word", source.TranslitSystem)
	}
	return fmt.Sprintf(`Describe the %s word "%s" (%s) for a language learner.
Return ONLY a JSON object with these keys (empty string when unknown):
- def: brief definition in %s
- example: one short example sentence (max 10 words) in %s
- exampleTranslation: the example translated to %s
- reading: native reading aid if any
- pronunciation: phonetic guide
- stress: stressed syllable if relevant
- cefr: CEFR level A1-C2
- frequency: common|uncommon|rare
- register: formal|neutral|informal
- family: related word forms
- synonyms: array of strings
- antonyms: array of strings
- collocations: array of strings
- etymology: one short sentence
- cultural: one short cultural usage note%s`, source.Name, word, pos, target.Name, source.Name, target.Name, translit)
}

// VocabDetailProse is the richer natural-language variant used by the
// "full" strategy; its output is parsed line by line.
func VocabDetailProse(word, pos string, source, target langid.Descriptor) string {
	return fmt.Sprintf(`Give a detailed learner profile of the %s word "%s" (%s).
Cover, with one "Label: value" line per item:
Definition, Example, Example translation (%s), Reading, Pronunciation, Stress, CEFR, Frequency, Register, Word family, Synonyms, Antonyms, Collocations, Etymology, Cultural note.
Write values in %s where the label implies the source language, otherwise in %s. No extra commentary.`,
		source.Name, word, pos, target.Name, source.Name, target.Name)
}

// Enrich requests only the still-missing fields of one word, one line per
// requested item with no labels.
func Enrich(word string, needExample, needDefinition, needTranslit bool, source langid.Descriptor) string {
	var parts []string
	n := 1
	if needExample {
		parts = append(parts, fmt.Sprintf("%d. Write one short example sentence (max 10 words) using \"%s\" in %s.", n, word, source.Name))
		n++
	}
	if needDefinition {
		parts = append(parts, fmt.Sprintf("%d. Provide a brief definition of \"%s\" in English (1 sentence).", n, word))
		n++
	}
	if needTranslit {
		parts = append(parts, fmt.Sprintf("%d. Provide romanization/transliteration of \"%s\".", n, word))
	}
	return strings.Join(parts, "\n") + "\n\nRespond with ONLY the requested information, one per line, no labels."
}

// DetectLanguage lets a plain language model stand in for a dedicated
// detector: it ranks candidate languages as strict JSON.
func DetectLanguage(text string) string {
	return fmt.Sprintf(`Identify the language of this text. Return ONLY a JSON array sorted by confidence:
[{"language": "two-letter ISO code", "confidence": 0.0-1.0}]

TEXT:
%s`, text)
}

func Proofread(text string) string {
	return fmt.Sprintf(`Proofread the following text. List each error with its correction, or state that no errors were found:

"%s"`, text)
}

func Write(task string) string {
	return fmt.Sprintf(`Write the following. Return only the written text:

%s`, task)
}

func Rewrite(text, instruction string) string {
	if instruction == "" {
		instruction = "Improve clarity while keeping the meaning"
	}
	return fmt.Sprintf(`%s. Return only the rewritten text:

"%s"`, instruction, text)
}

package analyze

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/langid"
	"polyglot_reader/internal/prompts"
	"polyglot_reader/internal/render"
)

const (
	maxSummaryPoints = 5
	minPointRunes    = 6
)

// summarize builds the dual original/translated key-points panel. The
// language model is tried first; the dedicated summarizer capability is
// the fallback for the languages it supports.
func (a *Analyzer) summarize(ctx context.Context, req Request, sourceLang string) (*Result, error) {
	source := langid.Describe(sourceLang)

	raw, decision, err := a.summaryText(ctx, req.Text, source)
	if err != nil {
		return nil, err
	}

	points := parseSummaryPoints(raw)
	if len(points) == 0 {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			points = []string{trimmed}
		}
	}
	for i, p := range points {
		points[i] = repairTitleCase(p)
	}

	translations := a.translatePoints(ctx, points, sourceLang, req.TargetLang)
	translits := a.transliteratePoints(ctx, points, source)

	rendered := make([]render.SummaryPoint, len(points))
	for i := range points {
		rendered[i] = render.SummaryPoint{
			Original:   points[i],
			Translated: translations[i],
		}
		if translits != nil {
			rendered[i].Transliteration = translits[i]
		}
	}
	return &Result{
		HTML:         render.SummaryPanel(rendered),
		DetectedLang: sourceLang,
		Decision:     decision,
	}, nil
}

func (a *Analyzer) summaryText(ctx context.Context, text string, source langid.Descriptor) (string, string, error) {
	var lastErr error
	if sess, err := a.reg.EnsureReady(ctx, capability.LanguageModel, capability.Params{}); err == nil {
		lm := sess.(capability.GenerateSession)
		out, err := lm.Prompt(ctx, prompts.Summary(text, source), capability.PromptOptions{OutputLanguage: source.Code})
		if err == nil {
			return out, "language-model", nil
		}
		lastErr = err
		a.log.Debug("language-model summary failed", zap.Error(err))
	} else {
		lastErr = err
	}

	if source.SummarizerSupports {
		if sess, err := a.reg.EnsureReady(ctx, capability.Summarizer, capability.Params{SummaryType: "key-points"}); err == nil {
			sum := sess.(capability.SummarizeSession)
			out, err := sum.Summarize(ctx, text, prompts.SummarizerContext)
			if err == nil {
				return out, "summarizer", nil
			}
			lastErr = err
		}
	}
	return "", "", lastErr
}

// translatePoints translates each bullet, keeping the original text for
// any point whose translation fails.
func (a *Analyzer) translatePoints(ctx context.Context, points []string, sourceLang, targetLang string) []string {
	out := make([]string, len(points))
	copy(out, points)

	pair := capability.NormalizePair(capability.Pair{Source: sourceLang, Target: targetLang})
	tr, err := a.reg.EnsureTranslator(ctx, pair)
	if err != nil {
		a.log.Debug("summary translation unavailable", zap.Error(err))
		return out
	}
	for i, p := range points {
		if t, err := tr.Translate(ctx, p); err == nil && t != "" {
			out[i] = t
		}
	}
	return out
}

// transliteratePoints romanizes non-Latin bullets. Best effort: nil when
// the language does not need it or the response does not line up.
func (a *Analyzer) transliteratePoints(ctx context.Context, points []string, source langid.Descriptor) []string {
	if !source.NeedsTranslit || len(points) == 0 {
		return nil
	}
	sess, err := a.reg.EnsureReady(ctx, capability.LanguageModel, capability.Params{})
	if err != nil {
		return nil
	}
	lm := sess.(capability.GenerateSession)
	out, err := lm.Prompt(ctx, prompts.TransliterateLines(points, source), capability.PromptOptions{})
	if err != nil {
		a.log.Debug("summary transliteration failed", zap.Error(err))
		return nil
	}
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		l = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(l), "0123456789.)- "))
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) != len(points) {
		return nil
	}
	return lines
}

// parseSummaryPoints extracts bullet lines from model output, dropping
// marker characters and fragments too short to be real points.
func parseSummaryPoints(raw string) []string {
	var points []string
	for _, line := range strings.Split(raw, "\n") {
		p := render.StripBullet(line)
		if len([]rune(p)) < minPointRunes {
			continue
		}
		points = append(points, p)
		if len(points) == maxSummaryPoints {
			break
		}
	}
	return points
}

// repairTitleCase undoes the Title Case Every Word habit some models
// have, lowering every word after the first unless it looks like an
// acronym.
func repairTitleCase(s string) string {
	words := strings.Fields(s)
	if len(words) < 3 {
		return s
	}
	capped := 0
	for _, w := range words {
		r := []rune(w)
		if unicode.IsUpper(r[0]) {
			capped++
		}
	}
	if capped*10 < len(words)*8 {
		return s
	}
	for i := 1; i < len(words); i++ {
		r := []rune(words[i])
		if len(r) > 1 && strings.ToUpper(words[i]) == words[i] {
			continue // acronym
		}
		r[0] = unicode.ToLower(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

package analyze

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/langid"
	"polyglot_reader/internal/prompts"
	"polyglot_reader/internal/render"
)

// translate prefers the streaming path, falls back to a whole-text call,
// and degrades to a marked passthrough when no translator works at all.
func (a *Analyzer) translate(ctx context.Context, req Request, sourceLang string) (*Result, error) {
	pair := capability.NormalizePair(capability.Pair{Source: sourceLang, Target: req.TargetLang})

	var detectedNote string
	if req.AutoDetect {
		detectedNote = "Detected: " + langid.Name(sourceLang)
	}

	translated, decision := a.runTranslation(ctx, req, pair)
	pronunciation := a.pronunciation(ctx, req, translated, pair.Target)

	return &Result{
		HTML:         render.TranslationPanel(req.Text, translated, pronunciation, detectedNote),
		DetectedLang: sourceLang,
		Decision:     decision,
	}, nil
}

func (a *Analyzer) runTranslation(ctx context.Context, req Request, pair capability.Pair) (string, string) {
	tr, err := a.reg.EnsureTranslator(ctx, pair)
	if err != nil {
		a.log.Warn("translator unavailable", zap.Error(err))
		return "[Translation unavailable] " + req.Text, "fallback"
	}

	var acc accumulator
	full, err := tr.TranslateStreaming(ctx, req.Text, func(chunk string) {
		acc.add(chunk)
		if req.Emit != nil {
			req.Emit(render.Escape(acc.String()))
		}
	})
	if err == nil {
		if full == "" {
			full = acc.String()
		}
		return full, "translator-streaming"
	}
	if !errors.Is(err, capability.ErrNoStreaming) {
		a.log.Debug("streaming translation failed", zap.Error(err))
	}

	full, err = tr.Translate(ctx, req.Text)
	if err != nil {
		a.log.Warn("translation failed", zap.Error(err))
		return "[Translation unavailable] " + req.Text, "fallback"
	}
	return full, "translator"
}

// pronunciation is best effort: any failure renders the panel without it.
func (a *Analyzer) pronunciation(ctx context.Context, req Request, translated, targetLang string) string {
	if !req.ShowPronunciation || !langid.NeedsTransliteration(targetLang) || translated == "" {
		return ""
	}
	sess, err := a.reg.EnsureReady(ctx, capability.LanguageModel, capability.Params{})
	if err != nil {
		return ""
	}
	lm, ok := sess.(capability.GenerateSession)
	if !ok {
		return ""
	}
	out, err := lm.Prompt(ctx, prompts.Pronunciation(translated, langid.Describe(targetLang)), capability.PromptOptions{})
	if err != nil {
		a.log.Debug("pronunciation lookup failed", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(out)
}

// accumulator joins streaming chunks, inserting a corrective space when a
// chunk boundary would glue two words together.
type accumulator struct {
	b strings.Builder
}

func (a *accumulator) add(chunk string) {
	if chunk == "" {
		return
	}
	if a.b.Len() > 0 {
		last, _ := utf8.DecodeLastRuneInString(a.b.String())
		first, _ := utf8.DecodeRuneInString(chunk)
		if needsSpace(last, first) {
			a.b.WriteByte(' ')
		}
	}
	a.b.WriteString(chunk)
}

func (a *accumulator) String() string { return a.b.String() }

func needsSpace(last, first rune) bool {
	if unicode.IsSpace(last) || unicode.IsSpace(first) {
		return false
	}
	// Only latin-ish word boundaries need the repair; CJK text does not
	// use spaces.
	return last < 0x2E80 && first < 0x2E80 &&
		(unicode.IsLetter(last) || unicode.IsDigit(last)) && unicode.IsUpper(first)
}

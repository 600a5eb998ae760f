package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/langid"
	"polyglot_reader/internal/prompts"
	"polyglot_reader/internal/render"
	"polyglot_reader/internal/vocab"
)

// detectorConfidenceFloor is the minimum confidence at which the
// detector capability's answer beats the offline heuristic.
const detectorConfidenceFloor = 0.6

// resultCacheSize bounds the per-session learning-content cache.
const resultCacheSize = 30

// Request is one analysis of one selection.
type Request struct {
	Text              string
	Mode              Mode
	TargetLang        string
	SourceLang        string // empty or "auto" triggers detection
	AutoDetect        bool
	ShowPronunciation bool
	VocabStrategy     vocab.Strategy

	// Emit receives intermediate HTML (streaming translation, vocabulary
	// card patches). Optional; staleness filtering is the caller's job.
	Emit func(html string)
}

// Result is the rendered outcome of a request.
type Result struct {
	HTML         string
	DetectedLang string
	// Decision records which capability path produced the result, for
	// diagnostics ("language-model", "summarizer", "translator", ...).
	Decision string
}

// RegistryGenerator adapts the registry's generation capability to the
// vocabulary engine, resolving the session lazily per call.
func RegistryGenerator(reg *capability.Registry) vocab.Generator {
	return registryGenerator{reg: reg}
}

type registryGenerator struct {
	reg *capability.Registry
}

func (g registryGenerator) Prompt(ctx context.Context, prompt string, opts capability.PromptOptions) (string, error) {
	sess, err := g.reg.EnsureReady(ctx, capability.LanguageModel, capability.Params{})
	if err != nil {
		return "", err
	}
	return sess.(capability.GenerateSession).Prompt(ctx, prompt, opts)
}

// Analyzer runs requests against the registry. Completed results are
// kept in a bounded cache keyed by (mode, target, source, strategy,
// text); identical concurrent requests share one execution. Safe for
// concurrent use.
type Analyzer struct {
	reg   *capability.Registry
	vocab *vocab.Engine
	log   *zap.Logger
	cache *lru.Cache[string, *Result]
	group singleflight.Group
}

func New(reg *capability.Registry, vocabEngine *vocab.Engine, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	cache, _ := lru.New[string, *Result](resultCacheSize)
	return &Analyzer{reg: reg, vocab: vocabEngine, log: log, cache: cache}
}

// Run resolves the source language, substitutes the target when it
// matches, and dispatches to the mode pipeline through the result cache.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Result, error) {
	source := a.resolveSource(ctx, req)
	if strings.ToLower(req.TargetLang) == source {
		req.TargetLang = langid.SameLanguageTarget(source)
	}

	key := strings.Join([]string{string(req.Mode), req.TargetLang, source, string(req.VocabStrategy), req.Text}, "\x1f")
	if r, ok := a.cache.Get(key); ok {
		return r, nil
	}
	for attempt := 0; ; attempt++ {
		v, err, _ := a.group.Do(key, func() (any, error) {
			r, err := a.dispatch(ctx, req, source)
			if err != nil {
				return nil, err
			}
			a.cache.Add(key, r)
			return r, nil
		})
		if err != nil {
			// A shared flight can die with the context of the request
			// that started it. A joiner whose own context is still live
			// runs the work itself instead of inheriting that failure.
			if attempt == 0 && ctx.Err() == nil &&
				(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				continue
			}
			return nil, err
		}
		return v.(*Result), nil
	}
}

func (a *Analyzer) dispatch(ctx context.Context, req Request, source string) (*Result, error) {
	switch req.Mode {
	case ModeTranslate:
		return a.translate(ctx, req, source)
	case ModeSummary:
		return a.summarize(ctx, req, source)
	case ModeVocabulary:
		return a.vocabulary(ctx, req, source)
	case ModeGrammar, ModeVerbs:
		return a.analyzeText(ctx, req, source)
	default:
		return nil, fmt.Errorf("unknown mode %q", req.Mode)
	}
}

// resolveSource returns the selection's language: the explicit setting
// when auto-detect is off, otherwise the detector capability when it is
// confident enough, otherwise the offline heuristic.
func (a *Analyzer) resolveSource(ctx context.Context, req Request) string {
	if !req.AutoDetect && req.SourceLang != "" && req.SourceLang != "auto" {
		return req.SourceLang
	}
	if sess, err := a.reg.EnsureReady(ctx, capability.LanguageDetector, capability.Params{}); err == nil {
		if det, ok := sess.(capability.DetectSession); ok {
			if guesses, err := det.Detect(ctx, req.Text); err == nil && len(guesses) > 0 {
				if guesses[0].Confidence > detectorConfidenceFloor {
					return strings.ToLower(guesses[0].Language)
				}
			}
		}
	}
	return langid.Detect(req.Text)
}

// analyzeText handles the grammar and verbs modes. Grammar tries the
// proofreading capability first and falls back to the language model;
// verbs always use the language model.
func (a *Analyzer) analyzeText(ctx context.Context, req Request, sourceLang string) (*Result, error) {
	if req.Mode == ModeGrammar {
		if res, err := a.proofread(ctx, req, sourceLang); err == nil {
			return res, nil
		} else if !isProvisioning(err) {
			a.log.Warn("proofreader failed, falling back to language model", zap.Error(err))
		}
	}

	sess, err := a.reg.EnsureReady(ctx, capability.LanguageModel, capability.Params{})
	if err != nil {
		return nil, err
	}
	lm := sess.(capability.GenerateSession)

	outputLang := langid.OutputCode(req.TargetLang)
	source := langid.Describe(sourceLang)
	target := langid.Describe(outputLang)

	var prompt, title string
	if req.Mode == ModeGrammar {
		prompt = prompts.Grammar(req.Text, target, source)
		title = "Grammar"
	} else {
		prompt = prompts.Verbs(req.Text, target, source)
		title = "Verbs"
	}
	out, err := lm.Prompt(ctx, prompt, capability.PromptOptions{OutputLanguage: outputLang})
	if err != nil {
		return nil, err
	}
	return &Result{
		HTML:         render.AnalysisPanel(title, out),
		DetectedLang: sourceLang,
		Decision:     "language-model",
	}, nil
}

// proofread runs the grammar mode through the proofreading capability.
func (a *Analyzer) proofread(ctx context.Context, req Request, sourceLang string) (*Result, error) {
	sess, err := a.reg.EnsureReady(ctx, capability.Proofreader, capability.Params{})
	if err != nil {
		return nil, err
	}
	out, err := sess.(capability.ProofreadSession).Proofread(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out) == "" {
		return nil, fmt.Errorf("proofreader returned no suggestions")
	}
	return &Result{
		HTML:         render.AnalysisPanel("Grammar", out),
		DetectedLang: sourceLang,
		Decision:     "proofreader",
	}, nil
}

func isProvisioning(err error) bool {
	var provErr *capability.ProvisioningError
	return errors.As(err, &provErr)
}

// vocabulary runs the two-phase engine, emitting the seeded list first
// and a single-card patch per completed detail.
func (a *Analyzer) vocabulary(ctx context.Context, req Request, sourceLang string) (*Result, error) {
	if a.vocab == nil {
		return nil, &capability.ProvisioningError{Kind: capability.LanguageModel, State: capability.StateUnavailable}
	}
	opts := render.VocabOptions{
		ShowPronunciation: req.ShowPronunciation,
		TranslitLabel:     langid.TranslitLabel(sourceLang),
	}
	res, err := a.vocab.Run(ctx, vocab.Input{
		Text:       req.Text,
		SourceLang: sourceLang,
		TargetLang: langid.OutputCode(req.TargetLang),
		Strategy:   req.VocabStrategy,
		Events: vocab.Events{
			Seeded: func(cards []vocab.Card, truncated bool) {
				if req.Emit != nil {
					seedOpts := opts
					seedOpts.Truncated = truncated
					req.Emit(render.VocabList(cards, seedOpts))
				}
			},
			CardUpdated: func(c vocab.Card) {
				if req.Emit != nil {
					req.Emit(render.VocabCard(&c, opts))
				}
			},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(res.Cards) == 0 {
		return &Result{
			HTML:         render.NoticePanel("No vocabulary found in this selection."),
			DetectedLang: sourceLang,
			Decision:     "language-model",
		}, nil
	}
	a.vocab.EnrichMissing(ctx, res, nil, func(c vocab.Card) {
		if req.Emit != nil {
			req.Emit(render.VocabCard(&c, opts))
		}
	})
	opts.Truncated = res.Truncated
	return &Result{
		HTML:         render.VocabList(res.Cards, opts),
		DetectedLang: sourceLang,
		Decision:     "language-model",
	}, nil
}

// Package reader is the host shell around the analysis pipeline: it
// receives selection and control events, enforces qualification, dedup,
// debounce, and staleness rules, and writes rendered results to a canvas.
package reader

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"polyglot_reader/internal/analyze"
	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/config"
	"polyglot_reader/internal/render"
	"polyglot_reader/internal/request"
	"polyglot_reader/internal/store"
	"polyglot_reader/internal/vocab"
)

const (
	minSelectionRunes = 2
	maxSelectionRunes = 500
)

// Canvas is where rendered HTML goes. Render replaces the whole panel;
// Patch applies a partial update (streaming text, one vocabulary card).
type Canvas interface {
	Render(html string)
	Patch(html string)
	Clear()
}

// Options tune the reactive behavior; zero values use production timing.
type Options struct {
	Debounce    time.Duration
	DedupWindow time.Duration
}

// Reader owns the event loop state. All event methods are safe for
// concurrent use.
type Reader struct {
	analyzer *analyze.Analyzer
	reg      *capability.Registry
	store    *store.Store
	canvas   Canvas
	log      *zap.Logger

	guard     request.Guard
	deduper   *request.Deduper
	debouncer *request.Debouncer

	mu            sync.Mutex
	settings      config.Settings
	mode          analyze.Mode
	targetLang    string
	lastSelection string
	lastSource    string
	cancelActive  context.CancelFunc

	wg sync.WaitGroup
}

func New(analyzer *analyze.Analyzer, reg *capability.Registry, st *store.Store, canvas Canvas, settings config.Settings, log *zap.Logger, opts Options) *Reader {
	if log == nil {
		log = zap.NewNop()
	}
	settings.Normalize()
	mode, err := analyze.ParseMode(settings.LearningFocus)
	if err != nil {
		mode = analyze.ModeTranslate
	}
	return &Reader{
		analyzer:   analyzer,
		reg:        reg,
		store:      st,
		canvas:     canvas,
		log:        log,
		settings:   settings,
		mode:       mode,
		targetLang: settings.DefaultLanguage,
		deduper:    request.NewDeduper(opts.DedupWindow),
		debouncer:  request.NewDebouncer(opts.Debounce),
	}
}

// Warmup primes the generation capability in the background.
func (r *Reader) Warmup(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reg.Warmup(ctx)
	}()
}

// Wait blocks until every in-flight analysis has finished.
func (r *Reader) Wait() {
	r.wg.Wait()
}

// Qualifies reports whether a selection is worth analyzing.
func Qualifies(text string) bool {
	n := len([]rune(strings.TrimSpace(text)))
	return n >= minSelectionRunes && n <= maxSelectionRunes
}

// OnSelectionChanged is the gesture entry point. Unqualified and
// duplicate selections are ignored silently.
func (r *Reader) OnSelectionChanged(text string) {
	text = strings.TrimSpace(text)
	if !Qualifies(text) {
		return
	}
	r.mu.Lock()
	mode, target := r.mode, r.targetLang
	r.mu.Unlock()

	if r.deduper.Duplicate(request.Key{Text: text, Mode: string(mode), TargetLang: target}) {
		return
	}
	// Session creation is allowed to start downloads only inside a user
	// gesture, so begin provisioning for the active mode right away.
	r.prewarm(mode, target)
	r.start(text, mode, target)
}

// TestSelection runs the pipeline for a caller-supplied sample without
// dedup, for the settings page's "try it" button and the CLI.
func (r *Reader) TestSelection(text string) {
	text = strings.TrimSpace(text)
	if !Qualifies(text) {
		r.canvas.Render(render.NoticePanel("Select between 2 and 500 characters."))
		return
	}
	r.mu.Lock()
	mode, target := r.mode, r.targetLang
	r.mu.Unlock()
	r.start(text, mode, target)
}

// OnModeChanged re-runs the last selection under the new mode once the
// control settles.
func (r *Reader) OnModeChanged(mode string) {
	parsed, err := analyze.ParseMode(mode)
	if err != nil {
		r.log.Warn("ignoring unknown mode", zap.String("mode", mode))
		return
	}
	r.mu.Lock()
	r.mode = parsed
	r.settings.LearningFocus = mode
	r.mu.Unlock()
	r.persistSettings()
	r.rerunDebounced()
}

// OnTargetLanguageChanged re-runs the last selection for the new target
// language once the control settles.
func (r *Reader) OnTargetLanguageChanged(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return
	}
	r.mu.Lock()
	r.targetLang = lang
	r.settings.DefaultLanguage = lang
	r.mu.Unlock()
	r.persistSettings()
	r.rerunDebounced()
}

// OnSettingsUpdated applies and persists a full settings record.
func (r *Reader) OnSettingsUpdated(s config.Settings) {
	s.Normalize()
	r.mu.Lock()
	r.settings = s
	r.targetLang = s.DefaultLanguage
	if mode, err := analyze.ParseMode(s.LearningFocus); err == nil {
		r.mode = mode
	}
	r.mu.Unlock()
	r.persistSettings()
}

// SaveWord persists one vocabulary card, deduplicated on (word, pos).
func (r *Reader) SaveWord(c vocab.Card) (bool, error) {
	if r.store == nil {
		return false, errors.New("no store configured")
	}
	r.mu.Lock()
	source := r.lastSource
	r.mu.Unlock()
	return r.store.SaveWord(c, source)
}

func (r *Reader) rerunDebounced() {
	r.debouncer.Do(func() {
		r.mu.Lock()
		text, mode, target := r.lastSelection, r.mode, r.targetLang
		r.mu.Unlock()
		if text == "" {
			return
		}
		r.start(text, mode, target)
	})
}

func (r *Reader) persistSettings() {
	if r.store == nil {
		return
	}
	r.mu.Lock()
	values := r.settings.ToMap()
	r.mu.Unlock()
	if err := r.store.PutSettings(values); err != nil {
		r.log.Warn("persisting settings failed", zap.Error(err))
	}
}

// prewarm begins session creation for the capabilities the mode needs
// without waiting for them.
func (r *Reader) prewarm(mode analyze.Mode, target string) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		switch mode {
		case analyze.ModeTranslate:
			pair := capability.NormalizePair(capability.Pair{Source: "auto", Target: target})
			_, _ = r.reg.EnsureTranslator(ctx, pair)
		case analyze.ModeSummary:
			_, _ = r.reg.EnsureReady(ctx, capability.Summarizer, capability.Params{SummaryType: "key-points"})
			fallthrough
		default:
			_, _ = r.reg.EnsureReady(ctx, capability.LanguageModel, capability.Params{})
		}
	}()
}

// start launches one analysis run under a fresh request ID, cancelling
// the previous run.
func (r *Reader) start(text string, mode analyze.Mode, target string) {
	id := r.guard.Next()
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	if r.cancelActive != nil {
		r.cancelActive()
	}
	r.cancelActive = cancel
	r.lastSelection = text
	settings := r.settings
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		r.run(ctx, id, text, mode, target, settings)
	}()
}

func (r *Reader) run(ctx context.Context, id uint64, text string, mode analyze.Mode, target string, settings config.Settings) {
	req := analyze.Request{
		Text:              text,
		Mode:              mode,
		TargetLang:        target,
		SourceLang:        "auto",
		AutoDetect:        settings.AutoDetectLanguage,
		ShowPronunciation: settings.ShowPronunciation,
		VocabStrategy:     vocab.ParseStrategy(settings.VocabStrategy),
		Emit: func(html string) {
			if r.guard.Check(id) == nil {
				r.canvas.Patch(html)
			}
		},
	}

	res, err := r.analyzer.Run(ctx, req)
	if r.guard.Check(id) != nil {
		return
	}
	if err != nil {
		r.renderError(err)
		return
	}

	r.mu.Lock()
	r.lastSource = res.DetectedLang
	r.mu.Unlock()
	r.canvas.Render(res.HTML)
}

// renderError maps pipeline failures onto user-facing panels. Stale and
// cancelled work disappears silently.
func (r *Reader) renderError(err error) {
	if errors.Is(err, request.ErrStale) || errors.Is(err, context.Canceled) {
		return
	}
	var provErr *capability.ProvisioningError
	if errors.As(err, &provErr) {
		r.canvas.Render(render.ErrorPanel("This feature is not ready yet.", provErr.Remediation()))
		return
	}
	var callErr *capability.CallError
	if errors.As(err, &callErr) {
		r.log.Warn("capability call failed", zap.Error(err))
		r.canvas.Render(render.ErrorPanel("The analysis failed. Try again.", ""))
		return
	}
	r.log.Error("analysis failed", zap.Error(err))
	r.canvas.Render(render.ErrorPanel("Something went wrong while analyzing the selection.", ""))
}

package capability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// fallbackPairs is the ordered ladder tried when a requested translator
// pair is rejected by the provider.
var fallbackPairs = []Pair{
	{Source: "en", Target: "es"},
	{Source: "en", Target: "fr"},
	{Source: "es", Target: "en"},
	{Source: "fr", Target: "en"},
}

const warmupTimeout = 1500 * time.Millisecond

// Registry creates and caches singleton sessions per capability kind.
// Translator sessions are additionally keyed by language pair. Concurrent
// creation attempts for the same key collapse into a single provider call.
type Registry struct {
	surfaces []Surface
	log      *zap.Logger

	mu       sync.Mutex
	sessions map[string]Session
	inflight map[string]*creation
}

type creation struct {
	done chan struct{}
	sess Session
	err  error
}

// NewRegistry builds a registry over the given surfaces, probed in order
// (newest API shape first).
func NewRegistry(log *zap.Logger, surfaces ...Surface) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		surfaces: surfaces,
		log:      log,
		sessions: make(map[string]Session),
		inflight: make(map[string]*creation),
	}
}

func sessionKey(kind Kind, params Params) string {
	if kind == Translator {
		return fmt.Sprintf("%s/%s->%s", kind, params.Pair.Source, params.Pair.Target)
	}
	return string(kind)
}

// EnsureReady returns the cached session for kind, creating it on first
// use. Repeated calls for a ready capability are O(1) and side-effect
// free. Failure is reported as a ProvisioningError; callers treat it as
// fatal or optional depending on the active mode.
func (r *Registry) EnsureReady(ctx context.Context, kind Kind, params Params) (Session, error) {
	key := sessionKey(kind, params)

	r.mu.Lock()
	if sess, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return sess, nil
	}
	if c, ok := r.inflight[key]; ok {
		r.mu.Unlock()
		select {
		case <-c.done:
			return c.sess, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &creation{done: make(chan struct{})}
	r.inflight[key] = c
	r.mu.Unlock()

	c.sess, c.err = r.create(ctx, kind, params)

	r.mu.Lock()
	delete(r.inflight, key)
	if c.err == nil {
		r.sessions[key] = c.sess
	}
	r.mu.Unlock()
	close(c.done)
	return c.sess, c.err
}

func (r *Registry) create(ctx context.Context, kind Kind, params Params) (Session, error) {
	var gesture, download bool
	var lastErr error
	for _, surface := range r.surfaces {
		switch surface.Availability(ctx, kind) {
		case AvailabilityUnavailable:
			continue
		case AvailabilityNeedsGesture:
			gesture = true
			continue
		case AvailabilityAfterDownload:
			download = true
		}
		sess, err := surface.Create(ctx, kind, params)
		if err != nil {
			r.log.Debug("session create failed",
				zap.String("surface", surface.Name()),
				zap.String("kind", string(kind)),
				zap.Error(err))
			lastErr = err
			continue
		}
		r.log.Debug("session ready",
			zap.String("surface", surface.Name()),
			zap.String("kind", string(kind)))
		return sess, nil
	}

	state := StateUnavailable
	switch {
	case gesture:
		state = StateNeedsGesture
	case download:
		state = StateNeedsDownload
	}
	return nil, &ProvisioningError{Kind: kind, State: state, Cause: lastErr}
}

// NormalizePair resolves "auto"/empty sources and forbids same-language
// pairs: an English target flips to Spanish, otherwise the source flips
// to English.
func NormalizePair(pair Pair) Pair {
	if pair.Source == "" || pair.Source == "auto" {
		pair.Source = "en"
	}
	if pair.Target == "" {
		pair.Target = "es"
	}
	if pair.Source == pair.Target {
		if pair.Target == "en" {
			pair.Target = "es"
		} else {
			pair.Source = "en"
		}
	}
	return pair
}

// EnsureTranslator returns a translator for the pair, retrying the known
// fallback ladder when the exact pair is rejected.
func (r *Registry) EnsureTranslator(ctx context.Context, pair Pair) (TranslateSession, error) {
	pair = NormalizePair(pair)
	sess, err := r.EnsureReady(ctx, Translator, Params{Pair: pair})
	if err == nil {
		return sess.(TranslateSession), nil
	}
	firstErr := err
	for _, fp := range fallbackPairs {
		if fp == pair {
			continue
		}
		sess, ferr := r.EnsureReady(ctx, Translator, Params{Pair: fp})
		if ferr == nil {
			r.log.Warn("translator pair fallback",
				zap.String("requested", pair.Source+"->"+pair.Target),
				zap.String("using", fp.Source+"->"+fp.Target))
			return sess.(TranslateSession), nil
		}
	}
	return nil, firstErr
}

// Warmup primes the generation capability so the first user-facing call
// does not pay full model start latency. Best effort: bounded by a short
// timeout and never returns an error.
func (r *Registry) Warmup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()
	sess, err := r.EnsureReady(ctx, LanguageModel, Params{SystemPrompt: "Be concise."})
	if err != nil {
		r.log.Debug("warmup skipped", zap.Error(err))
		return
	}
	if lm, ok := sess.(GenerateSession); ok {
		_, _ = lm.Prompt(ctx, "Reply with OK.", PromptOptions{OutputLanguage: "en"})
	}
}

// Status reports, per kind, whether a session is cached and what the best
// surface availability currently is. Used by diagnostics.
func (r *Registry) Status(ctx context.Context) map[Kind]Availability {
	out := make(map[Kind]Availability, len(Kinds))
	for _, kind := range Kinds {
		best := AvailabilityUnavailable
		for _, surface := range r.surfaces {
			switch surface.Availability(ctx, kind) {
			case AvailabilityReady:
				best = AvailabilityReady
			case AvailabilityAfterDownload:
				if best != AvailabilityReady {
					best = AvailabilityAfterDownload
				}
			case AvailabilityNeedsGesture:
				if best == AvailabilityUnavailable {
					best = AvailabilityNeedsGesture
				}
			}
		}
		out[kind] = best
	}
	return out
}

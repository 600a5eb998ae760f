package capability

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct{ kind Kind }

func (s *fakeSession) Kind() Kind { return s.kind }

type fakeTranslator struct {
	fakeSession
	pair Pair
}

func (s *fakeTranslator) TranslatedPair() Pair { return s.pair }
func (s *fakeTranslator) Translate(ctx context.Context, text string) (string, error) {
	return "[" + s.pair.Target + "] " + text, nil
}
func (s *fakeTranslator) TranslateStreaming(ctx context.Context, text string, fn func(string)) (string, error) {
	return "", ErrNoStreaming
}

// fakeSurface counts creations and can reject specific translator pairs.
type fakeSurface struct {
	mu            sync.Mutex
	name          string
	availability  map[Kind]Availability
	rejectedPairs map[Pair]bool
	creates       map[string]int
	block         chan struct{} // when set, Create waits until closed
}

func newFakeSurface(name string) *fakeSurface {
	return &fakeSurface{
		name:          name,
		availability:  map[Kind]Availability{},
		rejectedPairs: map[Pair]bool{},
		creates:       map[string]int{},
	}
}

func (s *fakeSurface) Name() string { return s.name }

func (s *fakeSurface) Availability(ctx context.Context, kind Kind) Availability {
	if a, ok := s.availability[kind]; ok {
		return a
	}
	return AvailabilityReady
}

func (s *fakeSurface) Create(ctx context.Context, kind Kind, params Params) (Session, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.creates[sessionKey(kind, params)]++
	s.mu.Unlock()
	if kind == Translator {
		if s.rejectedPairs[params.Pair] {
			return nil, errors.New("language pair unsupported")
		}
		return &fakeTranslator{fakeSession: fakeSession{kind: kind}, pair: params.Pair}, nil
	}
	return &fakeSession{kind: kind}, nil
}

func (s *fakeSurface) createCount(kind Kind, params Params) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates[sessionKey(kind, params)]
}

func TestEnsureReadyIdempotent(t *testing.T) {
	surface := newFakeSurface("new")
	reg := NewRegistry(nil, surface)

	first, err := reg.EnsureReady(context.Background(), Summarizer, Params{})
	require.NoError(t, err)
	second, err := reg.EnsureReady(context.Background(), Summarizer, Params{})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, surface.createCount(Summarizer, Params{}))
}

func TestEnsureReadyCollapsesConcurrentCreates(t *testing.T) {
	surface := newFakeSurface("new")
	surface.block = make(chan struct{})
	reg := NewRegistry(nil, surface)

	var wg sync.WaitGroup
	sessions := make([]Session, 8)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], _ = reg.EnsureReady(context.Background(), LanguageModel, Params{})
		}(i)
	}
	close(surface.block)
	wg.Wait()

	assert.Equal(t, 1, surface.createCount(LanguageModel, Params{}))
	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
}

func TestEnsureReadyPrefersFirstSurface(t *testing.T) {
	newer := newFakeSurface("new")
	legacy := newFakeSurface("legacy")
	reg := NewRegistry(nil, newer, legacy)

	_, err := reg.EnsureReady(context.Background(), LanguageModel, Params{})
	require.NoError(t, err)
	assert.Equal(t, 1, newer.createCount(LanguageModel, Params{}))
	assert.Equal(t, 0, legacy.createCount(LanguageModel, Params{}))
}

func TestEnsureReadyFallsBackToLegacySurface(t *testing.T) {
	newer := newFakeSurface("new")
	newer.availability[Summarizer] = AvailabilityUnavailable
	legacy := newFakeSurface("legacy")
	reg := NewRegistry(nil, newer, legacy)

	sess, err := reg.EnsureReady(context.Background(), Summarizer, Params{})
	require.NoError(t, err)
	assert.Equal(t, Summarizer, sess.Kind())
	assert.Equal(t, 1, legacy.createCount(Summarizer, Params{}))
}

func TestEnsureReadyGestureState(t *testing.T) {
	surface := newFakeSurface("new")
	surface.availability[Translator] = AvailabilityNeedsGesture
	reg := NewRegistry(nil, surface)

	_, err := reg.EnsureReady(context.Background(), Translator, Params{Pair: Pair{Source: "en", Target: "es"}})
	var provErr *ProvisioningError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, StateNeedsGesture, provErr.State)
	assert.Contains(t, provErr.Remediation(), "Select the text again")
}

func TestEnsureReadyUnavailableState(t *testing.T) {
	surface := newFakeSurface("new")
	surface.availability[Proofreader] = AvailabilityUnavailable
	reg := NewRegistry(nil, surface)

	_, err := reg.EnsureReady(context.Background(), Proofreader, Params{})
	var provErr *ProvisioningError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, StateUnavailable, provErr.State)
}

func TestNormalizePair(t *testing.T) {
	assert.Equal(t, Pair{Source: "en", Target: "es"}, NormalizePair(Pair{Source: "auto", Target: "es"}))
	assert.Equal(t, Pair{Source: "en", Target: "es"}, NormalizePair(Pair{Source: "en", Target: "en"}))
	assert.Equal(t, Pair{Source: "en", Target: "ja"}, NormalizePair(Pair{Source: "ja", Target: "ja"}))
	assert.Equal(t, Pair{Source: "ja", Target: "en"}, NormalizePair(Pair{Source: "ja", Target: "en"}))
}

func TestEnsureTranslatorPairFallback(t *testing.T) {
	surface := newFakeSurface("new")
	surface.rejectedPairs[Pair{Source: "ja", Target: "de"}] = true
	reg := NewRegistry(nil, surface)

	sess, err := reg.EnsureTranslator(context.Background(), Pair{Source: "ja", Target: "de"})
	require.NoError(t, err)
	assert.Equal(t, Pair{Source: "en", Target: "es"}, sess.TranslatedPair())
}

func TestEnsureTranslatorCachesPerPair(t *testing.T) {
	surface := newFakeSurface("new")
	reg := NewRegistry(nil, surface)

	esEN, err := reg.EnsureTranslator(context.Background(), Pair{Source: "es", Target: "en"})
	require.NoError(t, err)
	enES, err := reg.EnsureTranslator(context.Background(), Pair{Source: "en", Target: "es"})
	require.NoError(t, err)
	assert.NotSame(t, esEN, enES)

	again, err := reg.EnsureTranslator(context.Background(), Pair{Source: "es", Target: "en"})
	require.NoError(t, err)
	assert.Same(t, esEN, again)
}

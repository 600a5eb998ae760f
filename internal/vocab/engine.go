package vocab

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/langid"
	"polyglot_reader/internal/prompts"
)

const (
	maxSeeds         = 12
	maxExampleRunes  = 120
	defaultCacheSize = 30
)

// Generator is the slice of the generation capability the engine needs.
type Generator interface {
	Prompt(ctx context.Context, prompt string, opts capability.PromptOptions) (string, error)
}

// Options bound the engine's work per run.
type Options struct {
	MaxItems    int
	Concurrency int
	MaxChars    int
	CacheSize   int
}

func (o *Options) normalize() {
	if o.MaxItems < 1 || o.MaxItems > maxSeeds {
		o.MaxItems = maxSeeds
	}
	if o.Concurrency < 1 || o.Concurrency > 6 {
		o.Concurrency = 3
	}
	if o.MaxChars < 100 {
		o.MaxChars = 400
	}
	if o.CacheSize < 1 {
		o.CacheSize = defaultCacheSize
	}
}

// Input is one vocabulary run.
type Input struct {
	Text       string
	SourceLang string
	TargetLang string
	Strategy   Strategy
	Events     Events
}

// Events receive progressive updates during a run. Both callbacks are
// optional and are invoked from the run's goroutines.
type Events struct {
	Seeded      func(cards []Card, truncated bool)
	CardUpdated func(card Card)
}

// Engine runs the two-phase vocabulary pipeline with an LRU result cache
// and in-flight deduplication of identical runs.
type Engine struct {
	gen   Generator
	log   *zap.Logger
	opts  Options
	cache *lru.Cache[string, *Result]
	group singleflight.Group
}

func NewEngine(gen Generator, log *zap.Logger, opts Options) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	opts.normalize()
	cache, _ := lru.New[string, *Result](opts.CacheSize)
	return &Engine{gen: gen, log: log, opts: opts, cache: cache}
}

func runKey(in Input, strategy Strategy) string {
	return strings.Join([]string{in.SourceLang, in.TargetLang, string(strategy), in.Text}, "\x1f")
}

// Run produces cards for a selection. Identical concurrent runs share one
// execution; completed runs are served from cache without provider calls.
// Every caller gets its own copy of the cards, so later in-place
// enrichment never races a cache hit.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	strategy := e.resolveStrategy(in)
	key := runKey(in, strategy)
	if r, ok := e.cache.Get(key); ok {
		return r.clone(), nil
	}
	for attempt := 0; ; attempt++ {
		v, err, _ := e.group.Do(key, func() (any, error) {
			r, err := e.run(ctx, in, strategy)
			if err != nil {
				return nil, err
			}
			e.cache.Add(key, r)
			return r, nil
		})
		if err != nil {
			// A shared run inherits the context of whichever request
			// started it. When that request is cancelled mid-flight, a
			// joiner that is still live re-runs under its own context
			// rather than failing with someone else's cancellation.
			if attempt == 0 && ctx.Err() == nil &&
				(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				continue
			}
			return nil, err
		}
		return v.(*Result).clone(), nil
	}
}

func (e *Engine) resolveStrategy(in Input) Strategy {
	if in.Strategy != StrategyAdaptive && in.Strategy != "" {
		return in.Strategy
	}
	if _, truncated := truncateSample(in.Text, e.opts.MaxChars); truncated {
		return StrategyFast
	}
	return StrategyFull
}

func (e *Engine) run(ctx context.Context, in Input, strategy Strategy) (*Result, error) {
	source := langid.Describe(in.SourceLang)
	target := langid.Describe(in.TargetLang)
	sample, truncated := truncateSample(in.Text, e.opts.MaxChars)

	raw, err := e.gen.Prompt(ctx, prompts.VocabSeed(sample, e.opts.MaxItems, source), capability.PromptOptions{})
	if err != nil {
		return nil, fmt.Errorf("vocabulary seed: %w", err)
	}
	seeds, err := parseSeeds(raw, e.opts.MaxItems)
	if err != nil {
		return nil, fmt.Errorf("vocabulary seed: %w", err)
	}

	result := &Result{
		Truncated:  truncated,
		SourceLang: in.SourceLang,
		TargetLang: in.TargetLang,
	}
	if len(seeds) == 0 {
		return result, nil
	}

	result.Cards = make([]Card, len(seeds))
	for i, s := range seeds {
		result.Cards[i] = Card{Index: i, Word: s.Word, POS: s.POS, Pending: true}
	}
	if in.Events.Seeded != nil {
		in.Events.Seeded(append([]Card(nil), result.Cards...), truncated)
	}

	sem := semaphore.NewWeighted(int64(e.opts.Concurrency))
	var wg sync.WaitGroup
	for i := range result.Cards {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(c *Card) {
			defer wg.Done()
			defer sem.Release(1)
			e.fillCard(ctx, c, strategy, source, target)
			if in.Events.CardUpdated != nil {
				in.Events.CardUpdated(*c)
			}
		}(&result.Cards[i])
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// fillCard runs the detail phase for one word. A failure marks only this
// card; the rest of the run is unaffected.
func (e *Engine) fillCard(ctx context.Context, c *Card, strategy Strategy, source, target langid.Descriptor) {
	var prompt string
	if strategy == StrategyFull {
		prompt = prompts.VocabDetailProse(c.Word, c.POS, source, target)
	} else {
		prompt = prompts.VocabDetail(c.Word, c.POS, source, target)
	}
	raw, err := e.gen.Prompt(ctx, prompt, capability.PromptOptions{})
	if err == nil {
		if strategy == StrategyFull {
			err = applyDetailProse(c, raw)
		} else {
			err = applyDetailJSON(c, raw)
		}
	}
	c.Pending = false
	if err != nil {
		c.Failed = true
		e.log.Debug("vocabulary detail failed",
			zap.String("word", c.Word), zap.Error(err))
		return
	}
	if c.Pronunciation != "" {
		c.Pronunciation = SanitizePronunciation(c.Pronunciation, source.Code)
	}
	if c.Example != "" {
		c.Example = TruncateExample(c.Example, maxExampleRunes)
	}
}

// EnrichMissing runs the deferred wave over cards that still lack an
// example or definition, after the detail phase has already rendered. It
// only fires when at least a third of the cards need it; visible cards
// are serviced first, but every candidate is eventually enriched.
func (e *Engine) EnrichMissing(ctx context.Context, r *Result, visible func(index int) bool, updated func(Card)) {
	var missing []int
	for i := range r.Cards {
		if r.Cards[i].NeedsEnrichment() {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 || len(missing)*3 < len(r.Cards) {
		return
	}
	if visible != nil {
		sort.SliceStable(missing, func(a, b int) bool {
			return visible(missing[a]) && !visible(missing[b])
		})
	}

	sem := semaphore.NewWeighted(int64(e.opts.Concurrency))
	var wg sync.WaitGroup
	for _, idx := range missing {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(c *Card) {
			defer wg.Done()
			defer sem.Release(1)
			if err := e.Enrich(ctx, c, r.SourceLang); err != nil {
				e.log.Debug("deferred enrichment failed",
					zap.String("word", c.Word), zap.Error(err))
				return
			}
			if updated != nil {
				updated(*c)
			}
		}(&r.Cards[idx])
	}
	wg.Wait()
}

// Enrich revisits one card whose example, definition, or transliteration
// is still missing, typically when its card scrolls into view.
func (e *Engine) Enrich(ctx context.Context, c *Card, sourceLang string) error {
	source := langid.Describe(sourceLang)
	needExample := c.Example == ""
	needDefinition := c.Definition == ""
	needTranslit := c.Transliteration == "" && langid.NeedsTransliteration(sourceLang)
	if !needExample && !needDefinition && !needTranslit {
		return nil
	}
	raw, err := e.gen.Prompt(ctx, prompts.Enrich(c.Word, needExample, needDefinition, needTranslit, source), capability.PromptOptions{})
	if err != nil {
		return fmt.Errorf("enriching %q: %w", c.Word, err)
	}
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(l), "0123456789.)- "))
		if l != "" {
			lines = append(lines, l)
		}
	}
	next := func() string {
		if len(lines) == 0 {
			return ""
		}
		v := lines[0]
		lines = lines[1:]
		return v
	}
	if needExample {
		if v := next(); v != "" {
			c.Example = TruncateExample(v, maxExampleRunes)
		}
	}
	if needDefinition {
		if v := next(); v != "" {
			c.Definition = v
		}
	}
	if needTranslit {
		if v := next(); v != "" {
			c.Transliteration = v
		}
	}
	return nil
}

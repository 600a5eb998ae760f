// Package request serializes user-triggered analysis: a monotonic
// staleness guard, a debouncer for rapid control changes, and a short
// dedup window for repeated identical selections.
package request

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bep/debounce"
)

// ErrStale marks work whose request was superseded before it finished.
// Callers drop it silently; it is never surfaced to the user.
var ErrStale = errors.New("request superseded")

const (
	// ControlDebounce coalesces rapid mode or language toggle bursts.
	ControlDebounce = 250 * time.Millisecond
	// DedupWindow suppresses re-processing an identical selection.
	DedupWindow = 600 * time.Millisecond
)

// Guard issues monotonically increasing request IDs. Only the most
// recently issued ID may render results; everything older aborts with
// ErrStale at its next checkpoint.
type Guard struct {
	active atomic.Uint64
}

// Next starts a new request, invalidating all earlier ones.
func (g *Guard) Next() uint64 {
	return g.active.Add(1)
}

// Active returns the currently valid request ID.
func (g *Guard) Active() uint64 {
	return g.active.Load()
}

// Check returns ErrStale when id is no longer the active request.
func (g *Guard) Check(id uint64) error {
	if g.active.Load() != id {
		return ErrStale
	}
	return nil
}

// Debouncer delays a callback until input has settled. Each Do replaces
// the pending callback; only the last one within the window fires.
type Debouncer struct {
	fire func(func())
}

func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = ControlDebounce
	}
	return &Debouncer{fire: debounce.New(d)}
}

func (d *Debouncer) Do(f func()) {
	d.fire(f)
}

// Key identifies a selection for dedup purposes.
type Key struct {
	Text       string
	Mode       string
	TargetLang string
}

// Deduper rejects a selection identical to the previous one when it
// arrives within the window. A different key resets the window.
type Deduper struct {
	mu     sync.Mutex
	window time.Duration
	last   Key
	at     time.Time
	now    func() time.Time
}

func NewDeduper(window time.Duration) *Deduper {
	if window <= 0 {
		window = DedupWindow
	}
	return &Deduper{window: window, now: time.Now}
}

// Duplicate reports whether key repeats the previous selection inside the
// window, recording key as the new baseline either way.
func (d *Deduper) Duplicate(key Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	dup := key == d.last && now.Sub(d.at) < d.window
	d.last = key
	d.at = now
	return dup
}

// Package capability abstracts the on-device language-capability
// providers (generation, translation, summarization, detection, writing,
// rewriting, proofreading) behind sessions created through a registry.
package capability

import "context"

// Kind identifies one capability family.
type Kind string

const (
	LanguageModel    Kind = "languageModel"
	Translator       Kind = "translator"
	Summarizer       Kind = "summarizer"
	Writer           Kind = "writer"
	Rewriter         Kind = "rewriter"
	Proofreader      Kind = "proofreader"
	LanguageDetector Kind = "languageDetector"
)

// Kinds lists every capability in status-report order.
var Kinds = []Kind{LanguageModel, Translator, Summarizer, Writer, Rewriter, Proofreader, LanguageDetector}

// Pair is a translator's fixed (source, target) language pair.
type Pair struct {
	Source string
	Target string
}

// Params configures session creation. Pair applies to translators only.
type Params struct {
	Pair         Pair
	SystemPrompt string
	SummaryType  string
}

// Session is a created, reusable handle to one capability instance.
type Session interface {
	Kind() Kind
}

// PromptOptions tune a single generation call.
type PromptOptions struct {
	OutputLanguage string
	Temperature    float64
}

// GenerateSession is the text-generation capability (prompt in, text out).
type GenerateSession interface {
	Session
	Prompt(ctx context.Context, prompt string, opts PromptOptions) (string, error)
}

// TranslateSession translates text for the pair it was created with.
// Streaming delivers chunks through fn as they arrive; implementations
// that cannot stream return ErrNoStreaming and callers fall back to
// Translate.
type TranslateSession interface {
	Session
	TranslatedPair() Pair
	Translate(ctx context.Context, text string) (string, error)
	TranslateStreaming(ctx context.Context, text string, fn func(chunk string)) (string, error)
}

// SummarizeSession produces a key-points summary in the input's language.
type SummarizeSession interface {
	Session
	Summarize(ctx context.Context, text, sharedContext string) (string, error)
}

// ProofreadSession returns correction suggestions for text.
type ProofreadSession interface {
	Session
	Proofread(ctx context.Context, text string) (string, error)
}

// WriteSession drafts new text from a writing task.
type WriteSession interface {
	Session
	Write(ctx context.Context, task string) (string, error)
}

// RewriteSession reformulates existing text.
type RewriteSession interface {
	Session
	Rewrite(ctx context.Context, text, instruction string) (string, error)
}

// Detection is one ranked language guess.
type Detection struct {
	Language   string
	Confidence float64
}

// DetectSession ranks candidate languages for a text, most confident first.
type DetectSession interface {
	Session
	Detect(ctx context.Context, text string) ([]Detection, error)
}

// Availability is a surface's provisioning state for a kind.
type Availability string

const (
	// AvailabilityReady means sessions can be created immediately.
	AvailabilityReady Availability = "readily"
	// AvailabilityAfterDownload means creation triggers a model download.
	AvailabilityAfterDownload Availability = "after-download"
	// AvailabilityNeedsGesture means creation must happen inside a user
	// gesture before a download may begin.
	AvailabilityNeedsGesture Availability = "needs-gesture"
	// AvailabilityUnavailable is terminal for this surface.
	AvailabilityUnavailable Availability = "unavailable"
)

// Surface is one generation of a provider API shape. The registry probes
// surfaces in order, preferring the newest.
type Surface interface {
	Name() string
	Availability(ctx context.Context, kind Kind) Availability
	Create(ctx context.Context, kind Kind, params Params) (Session, error)
}

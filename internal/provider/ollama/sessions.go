package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"polyglot_reader/internal/capability"
	"polyglot_reader/internal/jsonx"
	"polyglot_reader/internal/langid"
	"polyglot_reader/internal/prompts"
)

func newSession(b *backend, kind capability.Kind, params capability.Params) (capability.Session, error) {
	base := session{backend: b, kind: kind, system: params.SystemPrompt}
	switch kind {
	case capability.LanguageModel:
		return &lmSession{session: base}, nil
	case capability.Translator:
		return &translatorSession{session: base, pair: params.Pair}, nil
	case capability.Summarizer:
		return &summarizerSession{session: base}, nil
	case capability.Proofreader:
		return &proofreaderSession{session: base}, nil
	case capability.Writer:
		return &writerSession{session: base}, nil
	case capability.Rewriter:
		return &rewriterSession{session: base}, nil
	case capability.LanguageDetector:
		return &detectorSession{session: base}, nil
	default:
		return nil, fmt.Errorf("unknown capability kind %q", kind)
	}
}

type session struct {
	backend *backend
	kind    capability.Kind
	system  string
}

func (s *session) Kind() capability.Kind { return s.kind }

type lmSession struct{ session }

func (s *lmSession) Prompt(ctx context.Context, prompt string, opts capability.PromptOptions) (string, error) {
	system := s.system
	if opts.OutputLanguage != "" {
		system = joinSystem(system, "Respond in "+langid.Describe(opts.OutputLanguage).Name+".")
	}
	out, err := s.backend.complete(ctx, system, prompt, opts.Temperature, false)
	if err != nil {
		return "", &capability.CallError{Kind: s.kind, Op: "prompt", Err: err}
	}
	return out, nil
}

type translatorSession struct {
	session
	pair capability.Pair
}

func (s *translatorSession) TranslatedPair() capability.Pair { return s.pair }

func (s *translatorSession) Translate(ctx context.Context, text string) (string, error) {
	prompt := prompts.Translate(text, langid.Describe(s.pair.Target))
	out, err := s.backend.complete(ctx, s.system, prompt, 0, false)
	if err != nil {
		return "", &capability.CallError{Kind: s.kind, Op: "translate", Err: err}
	}
	return unquote(out), nil
}

func (s *translatorSession) TranslateStreaming(ctx context.Context, text string, fn func(string)) (string, error) {
	prompt := prompts.Translate(text, langid.Describe(s.pair.Target))
	out, err := s.backend.stream(ctx, s.system, prompt, fn)
	if err != nil {
		if err == capability.ErrNoStreaming {
			return "", err
		}
		return "", &capability.CallError{Kind: s.kind, Op: "translateStreaming", Err: err}
	}
	return out, nil
}

type summarizerSession struct{ session }

func (s *summarizerSession) Summarize(ctx context.Context, text, sharedContext string) (string, error) {
	lang := langid.Describe(langid.Detect(text))
	system := joinSystem(s.system, sharedContext)
	out, err := s.backend.complete(ctx, system, prompts.Summary(text, lang), 0, false)
	if err != nil {
		return "", &capability.CallError{Kind: s.kind, Op: "summarize", Err: err}
	}
	return out, nil
}

type proofreaderSession struct{ session }

func (s *proofreaderSession) Proofread(ctx context.Context, text string) (string, error) {
	out, err := s.backend.complete(ctx, s.system, prompts.Proofread(text), 0, false)
	if err != nil {
		return "", &capability.CallError{Kind: s.kind, Op: "proofread", Err: err}
	}
	return out, nil
}

type writerSession struct{ session }

func (s *writerSession) Write(ctx context.Context, task string) (string, error) {
	out, err := s.backend.complete(ctx, s.system, prompts.Write(task), 0.7, false)
	if err != nil {
		return "", &capability.CallError{Kind: s.kind, Op: "write", Err: err}
	}
	return out, nil
}

type rewriterSession struct{ session }

func (s *rewriterSession) Rewrite(ctx context.Context, text, instruction string) (string, error) {
	out, err := s.backend.complete(ctx, s.system, prompts.Rewrite(text, instruction), 0.3, false)
	if err != nil {
		return "", &capability.CallError{Kind: s.kind, Op: "rewrite", Err: err}
	}
	return out, nil
}

type detectorSession struct{ session }

func (s *detectorSession) Detect(ctx context.Context, text string) ([]capability.Detection, error) {
	out, err := s.backend.complete(ctx, s.system, prompts.DetectLanguage(text), 0, true)
	if err != nil {
		return nil, &capability.CallError{Kind: s.kind, Op: "detect", Err: err}
	}
	raw := jsonx.Extract(out)
	if raw == "" {
		return nil, &capability.CallError{Kind: s.kind, Op: "detect", Err: fmt.Errorf("no JSON in response")}
	}
	var parsed []struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		// Some models answer with a single object instead of an array.
		var one struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		}
		if err2 := json.Unmarshal([]byte(raw), &one); err2 != nil {
			return nil, &capability.CallError{Kind: s.kind, Op: "detect", Err: err}
		}
		parsed = append(parsed, one)
	}
	detections := make([]capability.Detection, 0, len(parsed))
	for _, p := range parsed {
		if p.Language == "" {
			continue
		}
		detections = append(detections, capability.Detection{Language: p.Language, Confidence: p.Confidence})
	}
	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})
	return detections, nil
}

func joinSystem(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "\n" + b
	}
}

// unquote strips one layer of surrounding quotes that models add when the
// prompt itself quoted the input.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

package ollama

import (
	"context"

	"polyglot_reader/internal/capability"
)

// backend abstracts over the two endpoint shapes so one session
// implementation serves both surfaces.
type backend struct {
	c    *Client
	chat bool
}

func (b *backend) complete(ctx context.Context, system, prompt string, temperature float64, jsonOut bool) (string, error) {
	if b.chat {
		return b.c.Chat(ctx, system, prompt, temperature, jsonOut)
	}
	if system != "" {
		prompt = system + "\n\n" + prompt
	}
	return b.c.Generate(ctx, prompt, temperature, jsonOut)
}

func (b *backend) stream(ctx context.Context, system, prompt string, fn func(string)) (string, error) {
	if !b.chat {
		return "", capability.ErrNoStreaming
	}
	return b.c.ChatStream(ctx, system, prompt, fn)
}

// ChatSurface exposes every capability kind over the chat endpoint. It is
// the preferred surface: sessions created here support streaming.
type ChatSurface struct {
	backend backend
}

func NewChatSurface(c *Client) *ChatSurface {
	return &ChatSurface{backend: backend{c: c, chat: true}}
}

func (s *ChatSurface) Name() string { return "ollama-chat" }

func (s *ChatSurface) Availability(ctx context.Context, kind capability.Kind) capability.Availability {
	return availability(ctx, s.backend.c)
}

func (s *ChatSurface) Create(ctx context.Context, kind capability.Kind, params capability.Params) (capability.Session, error) {
	return newSession(&s.backend, kind, params)
}

// GenerateSurface exposes the same kinds over the older completion
// endpoint. No streaming; the registry reaches it only when the chat
// surface is out.
type GenerateSurface struct {
	backend backend
}

func NewGenerateSurface(c *Client) *GenerateSurface {
	return &GenerateSurface{backend: backend{c: c, chat: false}}
}

func (s *GenerateSurface) Name() string { return "ollama-generate" }

func (s *GenerateSurface) Availability(ctx context.Context, kind capability.Kind) capability.Availability {
	return availability(ctx, s.backend.c)
}

func (s *GenerateSurface) Create(ctx context.Context, kind capability.Kind, params capability.Params) (capability.Session, error) {
	return newSession(&s.backend, kind, params)
}

// availability maps daemon state onto provisioning states: a missing
// model is a download away, a dead daemon is terminal.
func availability(ctx context.Context, c *Client) capability.Availability {
	reachable, hasModel := c.Probe(ctx)
	switch {
	case !reachable:
		return capability.AvailabilityUnavailable
	case !hasModel:
		return capability.AvailabilityAfterDownload
	default:
		return capability.AvailabilityReady
	}
}

// Surfaces builds the ordered surface list for a registry, newest shape
// first.
func Surfaces(c *Client) []capability.Surface {
	return []capability.Surface{NewChatSurface(c), NewGenerateSurface(c)}
}

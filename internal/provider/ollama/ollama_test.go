package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyglot_reader/internal/capability"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Model: "llama3.1:8b"}, nil)
}

func tagsHandler(models ...string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		type m struct {
			Name string `json:"name"`
		}
		out := struct {
			Models []m `json:"models"`
		}{}
		for _, name := range models {
			out.Models = append(out.Models, m{Name: name})
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func TestAvailabilityMapping(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			tagsHandler("llama3.1:8b")(w)
			return
		}
		http.NotFound(w, r)
	})
	surf := NewChatSurface(c)
	assert.Equal(t, capability.AvailabilityReady, surf.Availability(context.Background(), capability.LanguageModel))

	missing := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		tagsHandler("mistral:7b")(w)
	})
	assert.Equal(t, capability.AvailabilityAfterDownload,
		NewChatSurface(missing).Availability(context.Background(), capability.Translator))

	dead := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "x"}, nil)
	assert.Equal(t, capability.AvailabilityUnavailable,
		NewGenerateSurface(dead).Availability(context.Background(), capability.Summarizer))
}

func TestChatSurfacePrompt(t *testing.T) {
	var gotSystem string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		var req struct {
			Messages []chatMessage `json:"messages"`
			Stream   bool          `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		if req.Messages[0].Role == "system" {
			gotSystem = req.Messages[0].Content
		}
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: "hello back"}, Done: true})
	})

	sess, err := NewChatSurface(c).Create(context.Background(), capability.LanguageModel,
		capability.Params{SystemPrompt: "Be concise."})
	require.NoError(t, err)
	lm := sess.(capability.GenerateSession)

	out, err := lm.Prompt(context.Background(), "say hello", capability.PromptOptions{OutputLanguage: "es"})
	require.NoError(t, err)
	assert.Equal(t, "hello back", out)
	assert.Contains(t, gotSystem, "Be concise.")
	assert.Contains(t, gotSystem, "Respond in Spanish.")
}

func TestTranslatorStreaming(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		enc := json.NewEncoder(w)
		_ = enc.Encode(chatResponse{Message: chatMessage{Content: "Hola "}})
		_ = enc.Encode(chatResponse{Message: chatMessage{Content: "mundo"}})
		_ = enc.Encode(chatResponse{Done: true})
	})

	sess, err := NewChatSurface(c).Create(context.Background(), capability.Translator,
		capability.Params{Pair: capability.Pair{Source: "en", Target: "es"}})
	require.NoError(t, err)
	tr := sess.(capability.TranslateSession)

	var chunks []string
	full, err := tr.TranslateStreaming(context.Background(), "Hello world", func(chunk string) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", full)
	assert.Equal(t, []string{"Hola ", "mundo"}, chunks)
}

func TestGenerateSurfaceHasNoStreaming(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "Hola mundo"})
	})

	sess, err := NewGenerateSurface(c).Create(context.Background(), capability.Translator,
		capability.Params{Pair: capability.Pair{Source: "en", Target: "es"}})
	require.NoError(t, err)
	tr := sess.(capability.TranslateSession)

	_, err = tr.TranslateStreaming(context.Background(), "Hello world", nil)
	assert.ErrorIs(t, err, capability.ErrNoStreaming)

	out, err := tr.Translate(context.Background(), "Hello world")
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", out)
}

func TestDetectorParsesRankedJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Content: `Here you go: [{"language":"es","confidence":0.91},{"language":"pt","confidence":0.4}]`},
			Done:    true,
		})
	})

	sess, err := NewChatSurface(c).Create(context.Background(), capability.LanguageDetector, capability.Params{})
	require.NoError(t, err)
	det := sess.(capability.DetectSession)

	got, err := det.Detect(context.Background(), "hola mundo")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "es", got[0].Language)
	assert.InDelta(t, 0.91, got[0].Confidence, 1e-9)
}

func TestCallErrorOnServerFailure(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model runner crashed", http.StatusInternalServerError)
	})
	sess, err := NewChatSurface(c).Create(context.Background(), capability.Proofreader, capability.Params{})
	require.NoError(t, err)

	_, err = sess.(capability.ProofreadSession).Proofread(context.Background(), "teh cat")
	var callErr *capability.CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, capability.Proofreader, callErr.Kind)
}

func TestProbeCachesResult(t *testing.T) {
	calls := 0
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		tagsHandler("llama3.1:8b")(w)
	})
	for i := 0; i < 5; i++ {
		reachable, hasModel := c.Probe(context.Background())
		assert.True(t, reachable)
		assert.True(t, hasModel, fmt.Sprintf("iteration %d", i))
	}
	assert.Equal(t, 1, calls)
}

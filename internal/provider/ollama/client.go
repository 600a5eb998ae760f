// Package ollama provides capability surfaces backed by a local Ollama
// daemon. Two API shapes are exposed: the chat endpoint (streaming
// capable, probed first) and the older generate endpoint kept as a
// fallback for daemons that predate chat.
package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://127.0.0.1:11434"
	defaultModel   = "llama3.1:8b"

	probeTTL = 30 * time.Second
)

// Config holds connection settings for one daemon.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// ConfigFromEnv reads OLLAMA_URL and OLLAMA_MODEL with local defaults.
func ConfigFromEnv() Config {
	return Config{
		BaseURL: getenv("OLLAMA_URL", defaultBaseURL),
		Model:   getenv("OLLAMA_MODEL", defaultModel),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Client is a thin HTTP client for one Ollama daemon. Probe results are
// cached briefly so availability checks stay cheap.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	log     *zap.Logger

	mu       sync.Mutex
	probedAt time.Time
	probeOK  bool
	hasModel bool
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

func (c *Client) Model() string { return c.model }

// Probe reports whether the daemon answers and whether the configured
// model is present in its tag list.
func (c *Client) Probe(ctx context.Context) (reachable, hasModel bool) {
	c.mu.Lock()
	if time.Since(c.probedAt) < probeTTL {
		defer c.mu.Unlock()
		return c.probeOK, c.hasModel
	}
	c.mu.Unlock()

	reachable, hasModel = c.probeNow(ctx)

	c.mu.Lock()
	c.probedAt = time.Now()
	c.probeOK = reachable
	c.hasModel = hasModel
	c.mu.Unlock()
	return reachable, hasModel
}

func (c *Client) probeNow(ctx context.Context) (bool, bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false, false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("daemon unreachable", zap.String("url", c.baseURL), zap.Error(err))
		return false, false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, false
	}
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return true, false
	}
	want := c.model
	for _, m := range tags.Models {
		if m.Name == want || strings.SplitN(m.Name, ":", 2)[0] == strings.SplitN(want, ":", 2)[0] {
			return true, true
		}
	}
	return true, false
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate calls the legacy non-streaming completion endpoint.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64, jsonOut bool) (string, error) {
	payload := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": temperature,
		},
	}
	if jsonOut {
		payload["format"] = "json"
	}
	body, err := c.post(ctx, "/api/generate", payload)
	if err != nil {
		return "", err
	}
	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding generate response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Chat calls the chat endpoint without streaming.
func (c *Client) Chat(ctx context.Context, system, prompt string, temperature float64, jsonOut bool) (string, error) {
	body, err := c.post(ctx, "/api/chat", c.chatPayload(system, prompt, temperature, jsonOut, false))
	if err != nil {
		return "", err
	}
	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	return strings.TrimSpace(out.Message.Content), nil
}

// ChatStream calls the chat endpoint with streaming, invoking fn for each
// content chunk as it arrives and returning the assembled text.
func (c *Client) ChatStream(ctx context.Context, system, prompt string, fn func(chunk string)) (string, error) {
	payload := c.chatPayload(system, prompt, 0, false, true)
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat endpoint: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk chatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", fmt.Errorf("decoding stream chunk: %w", err)
		}
		if chunk.Message.Content != "" {
			full.WriteString(chunk.Message.Content)
			if fn != nil {
				fn(chunk.Message.Content)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stream: %w", err)
	}
	return strings.TrimSpace(full.String()), nil
}

func (c *Client) chatPayload(system, prompt string, temperature float64, jsonOut, stream bool) map[string]any {
	msgs := make([]chatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: prompt})
	payload := map[string]any{
		"model":    c.model,
		"messages": msgs,
		"stream":   stream,
		"options": map[string]any{
			"temperature": temperature,
		},
	}
	if jsonOut {
		payload["format"] = "json"
	}
	return payload
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

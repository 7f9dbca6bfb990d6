package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

// fakeLLM records the messages it receives and returns a canned response.
type fakeLLM struct {
	messages []llms.MessageContent
	resp     *llms.ContentResponse
	err      error
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	return f.resp, f.err
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func chat(llm llms.Model) *chatGenerator {
	return &chatGenerator{
		name:         "openai",
		model:        "gpt-4o-mini",
		systemPrompt: config.DefaultSystemPrompt,
		llm:          llm,
		logger:       logger.Nop(),
	}
}

func textOf(m llms.MessageContent) string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(llms.TextContent); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		text   string
		want   string
	}{
		{"with prompt", "Summarize.", "hello", "Summarize.\n\nTranscript:\nhello"},
		{"blank prompt", "  ", "hello", "Transcript:\nhello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.prompt, tt.text); got != tt.want {
				t.Errorf("userMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChatGenerate(t *testing.T) {
	llm := &fakeLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "# Notes\n- point"}}}}
	g := chat(llm)

	got, err := g.Generate(context.Background(), "Make notes.", "the transcript")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "# Notes\n- point" {
		t.Errorf("Generate() = %q", got)
	}

	if len(llm.messages) != 2 {
		t.Fatalf("sent %d messages, want 2", len(llm.messages))
	}
	if llm.messages[0].Role != llms.ChatMessageTypeSystem || textOf(llm.messages[0]) != config.DefaultSystemPrompt {
		t.Errorf("system message = %+v", llm.messages[0])
	}
	if llm.messages[1].Role != llms.ChatMessageTypeHuman || textOf(llm.messages[1]) != "Make notes.\n\nTranscript:\nthe transcript" {
		t.Errorf("user message = %q", textOf(llm.messages[1]))
	}
}

func TestChatGenerateEmptyCompletion(t *testing.T) {
	g := chat(&fakeLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: ""}}}})

	got, err := g.Generate(context.Background(), "p", "t")
	if err != nil {
		t.Fatalf("Generate() error = %v, want nil for empty completion", err)
	}
	if got != "" {
		t.Errorf("Generate() = %q, want empty", got)
	}
}

func TestChatGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		llm        *fakeLLM
		buildErr   error
		wantKind   Kind
		wantStatus int
	}{
		{"no choices", &fakeLLM{resp: &llms.ContentResponse{}}, nil, KindMalformed, 0},
		{"nil response", &fakeLLM{}, nil, KindMalformed, 0},
		{"missing key", nil, ErrMissingKey, KindAuth, 0},
		{"unauthorized", &fakeLLM{err: errors.New("API returned unexpected status code: 401: invalid key")}, nil, KindAuth, 401},
		{"rate limited", &fakeLLM{err: errors.New("API returned unexpected status code: 429: slow down")}, nil, KindProvider, 429},
		{"model missing", &fakeLLM{err: errors.New("API returned unexpected status code: 404: model not found")}, nil, KindUnavailable, 404},
		{"connection refused", &fakeLLM{err: errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")}, nil, KindTransport, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := chat(nil)
			if tt.llm != nil {
				g.llm = tt.llm
			}
			g.buildErr = tt.buildErr

			_, err := g.Generate(context.Background(), "p", "t")
			var gErr *Error
			if !errors.As(err, &gErr) {
				t.Fatalf("Generate() error = %v, want *Error", err)
			}
			if gErr.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", gErr.Kind, tt.wantKind)
			}
			if gErr.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", gErr.Status, tt.wantStatus)
			}
			if gErr.Provider != "openai" {
				t.Errorf("Provider = %q, want openai", gErr.Provider)
			}
		})
	}
}

func TestChatGenerateKeepsContextError(t *testing.T) {
	g := chat(&fakeLLM{err: context.DeadlineExceeded})

	_, err := g.Generate(context.Background(), "p", "t")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Generate() error = %v, want DeadlineExceeded in chain", err)
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	if got := strings.Join(r.Names(), ","); got != "deepseek,gemini,ollama,openai" {
		t.Errorf("Names() = %q", got)
	}
	if !r.Has("OpenAI") {
		t.Error("Has(OpenAI) = false, want true")
	}

	_, err := r.Build("claude", config.GeneratorConfig{}, Settings{})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Build(claude) error = %v, want ErrUnknownProvider", err)
	}

	var gotPrompt string
	r.Register("echo", func(pc config.ProviderConfig, s Settings) (Generator, error) {
		gotPrompt = s.SystemPrompt
		return chat(&fakeLLM{}), nil
	})
	if _, err := r.Build("echo", config.GeneratorConfig{}, Settings{}); err != nil {
		t.Fatalf("Build(echo) error = %v", err)
	}
	if gotPrompt != config.DefaultSystemPrompt {
		t.Errorf("system prompt = %q, want default", gotPrompt)
	}
}

func TestBuildWithoutKey(t *testing.T) {
	for _, name := range []string{"openai", "deepseek", "gemini"} {
		t.Run(name, func(t *testing.T) {
			g, err := DefaultRegistry().Build(name, config.GeneratorConfig{}, Settings{})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if g.Name() != name {
				t.Errorf("Name() = %q, want %q", g.Name(), name)
			}

			_, err = g.Generate(context.Background(), "p", "t")
			var gErr *Error
			if !errors.As(err, &gErr) || gErr.Kind != KindAuth {
				t.Errorf("Generate() error = %v, want auth", err)
			}
		})
	}
}

func TestDeepSeekDefaults(t *testing.T) {
	g := newDeepSeek(config.ProviderConfig{APIKey: "sk-ds"}, Settings{Logger: logger.Nop()})
	if g.model != "deepseek-chat" {
		t.Errorf("model = %q, want deepseek-chat", g.model)
	}
	if g.buildErr != nil {
		t.Errorf("buildErr = %v", g.buildErr)
	}
}

// geminiServer answers generateContent calls, failing with 429 for the keys
// in limited.
func geminiServer(t *testing.T, limited map[string]bool, reply string) (*httptest.Server, *[]string) {
	t.Helper()
	var (
		mu   sync.Mutex
		used []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-goog-api-key")
		mu.Lock()
		used = append(used, key)
		mu.Unlock()

		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if limited[key] {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`)
			return
		}
		body := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": reply}}}},
			},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &used
}

func TestGeminiGenerate(t *testing.T) {
	srv, used := geminiServer(t, nil, "gemini notes")
	g := newGemini(config.ProviderConfig{APIKey: "k1", BaseURL: srv.URL}, Settings{SystemPrompt: "sys", HTTPClient: srv.Client(), Logger: logger.Nop()})

	got, err := g.Generate(context.Background(), "p", "t")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "gemini notes" {
		t.Errorf("Generate() = %q", got)
	}
	if len(*used) != 1 || (*used)[0] != "k1" {
		t.Errorf("keys used = %v", *used)
	}
}

func TestGeminiRotatesKeys(t *testing.T) {
	srv, used := geminiServer(t, map[string]bool{"k1": true}, "from second key")
	pc := config.ProviderConfig{APIKeys: []string{"k1", "k2"}, BaseURL: srv.URL}
	g := newGemini(pc, Settings{SystemPrompt: "sys", HTTPClient: srv.Client(), Logger: logger.Nop()})

	got, err := g.Generate(context.Background(), "p", "t")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "from second key" {
		t.Errorf("Generate() = %q", got)
	}
	if last := (*used)[len(*used)-1]; last != "k2" {
		t.Errorf("last key used = %q, want k2", last)
	}
}

func TestGeminiAllKeysExhausted(t *testing.T) {
	srv, _ := geminiServer(t, map[string]bool{"k1": true, "k2": true}, "")
	pc := config.ProviderConfig{APIKeys: []string{"k1", "k2"}, BaseURL: srv.URL}
	g := newGemini(pc, Settings{SystemPrompt: "sys", HTTPClient: srv.Client(), Logger: logger.Nop()})

	_, err := g.Generate(context.Background(), "p", "t")
	var gErr *Error
	if !errors.As(err, &gErr) {
		t.Fatalf("Generate() error = %v, want *Error", err)
	}
	if gErr.Kind != KindProvider || gErr.Provider != "gemini" {
		t.Errorf("error = %+v", gErr)
	}
	if !strings.Contains(err.Error(), "all API keys exhausted") {
		t.Errorf("error %q does not mention exhaustion", err)
	}
}

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindAuth},
		{403, KindAuth},
		{404, KindUnavailable},
		{503, KindUnavailable},
		{429, KindProvider},
		{500, KindProvider},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := kindForStatus(tt.status); got != tt.want {
				t.Errorf("kindForStatus(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

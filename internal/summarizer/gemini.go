package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiGenerator calls the Gemini API, rotating through the configured
// keys when one is rate limited.
type geminiGenerator struct {
	apiKeys      []string
	model        string
	baseURL      string
	systemPrompt string
	httpClient   *http.Client
	logger       logger.Logger

	mu         sync.Mutex
	currentKey int
}

func newGemini(pc config.ProviderConfig, s Settings) *geminiGenerator {
	model := pc.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiGenerator{
		apiKeys:      pc.Keys(),
		model:        model,
		baseURL:      pc.BaseURL,
		systemPrompt: s.SystemPrompt,
		httpClient:   s.HTTPClient,
		logger:       s.Logger,
	}
}

func (g *geminiGenerator) Name() string {
	return "gemini"
}

// Generate sends the transcript to Gemini and returns the notes text.
// Rotates API keys on 429 / quota errors.
func (g *geminiGenerator) Generate(ctx context.Context, prompt, sourceText string) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", classify("gemini", ErrMissingKey)
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.systemPrompt, genai.RoleUser),
	}
	contents := genai.Text(userMessage(prompt, sourceText))

	var lastErr error
	for range len(g.apiKeys) {
		key, idx := g.key()

		client, err := genai.NewClient(ctx, g.clientConfig(key))
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		g.logger.Info(ctx, "Generating notes with gemini (%s), key %d/%d", g.model, idx+1, len(g.apiKeys))
		result, err := client.Models.GenerateContent(ctx, g.model, contents, genCfg)
		if err != nil {
			if ctx.Err() == nil && isQuotaError(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", g.classify(fmt.Errorf("generate content: %w", err))
		}

		if result == nil || len(result.Candidates) == 0 {
			return "", classify("gemini", ErrNoChoices)
		}

		var text strings.Builder
		if c := result.Candidates[0].Content; c != nil {
			for _, part := range c.Parts {
				if part != nil && part.Text != "" {
					text.WriteString(part.Text)
				}
			}
		}
		return text.String(), nil
	}

	return "", g.classify(fmt.Errorf("all API keys exhausted: %w", lastErr))
}

func (g *geminiGenerator) clientConfig(key string) *genai.ClientConfig {
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	if g.httpClient != nil {
		cc.HTTPClient = g.httpClient
	}
	return cc
}

func (g *geminiGenerator) key() (string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.apiKeys[g.currentKey], g.currentKey
}

func (g *geminiGenerator) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

// classify prefers the status code carried by genai.APIError.
func (g *geminiGenerator) classify(err error) *Error {
	if code := apiErrorCode(err); code != 0 {
		kind := kindForStatus(code)
		if code == http.StatusTooManyRequests {
			kind = KindProvider
		}
		return &Error{Kind: kind, Provider: "gemini", Status: code, Err: err}
	}
	return classify("gemini", err)
}

func apiErrorCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

func isQuotaError(err error) bool {
	if apiErrorCode(err) == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

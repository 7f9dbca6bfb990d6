package summarizer

import (
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
)

// newOllama talks to a local Ollama server; no credential is needed.
func newOllama(pc config.ProviderConfig, s Settings) *chatGenerator {
	g := &chatGenerator{
		name:         "ollama",
		model:        pc.Model,
		systemPrompt: s.SystemPrompt,
		logger:       s.Logger,
	}

	opts := []ollama.Option{ollama.WithModel(pc.Model)}
	if pc.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(pc.BaseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, ollama.WithHTTPClient(s.HTTPClient))
	}

	llm, err := ollama.New(opts...)
	if err != nil {
		g.buildErr = err
		return g
	}
	g.llm = llm
	return g
}

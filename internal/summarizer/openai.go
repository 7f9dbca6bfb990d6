package summarizer

import (
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
)

const deepSeekBaseURL = "https://api.deepseek.com"

// newOpenAICompatible builds a generator for OpenAI and for services that
// speak the same chat completions API, such as DeepSeek.
func newOpenAICompatible(name string, pc config.ProviderConfig, s Settings) *chatGenerator {
	g := &chatGenerator{
		name:         name,
		model:        pc.Model,
		systemPrompt: s.SystemPrompt,
		logger:       s.Logger,
	}

	keys := pc.Keys()
	if len(keys) == 0 {
		g.buildErr = ErrMissingKey
		return g
	}

	opts := []openai.Option{
		openai.WithToken(keys[0]),
		openai.WithModel(pc.Model),
	}
	if pc.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(pc.BaseURL))
	}
	if s.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(s.HTTPClient))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		g.buildErr = err
		return g
	}
	g.llm = llm
	return g
}

func newDeepSeek(pc config.ProviderConfig, s Settings) *chatGenerator {
	if pc.BaseURL == "" {
		pc.BaseURL = deepSeekBaseURL
	}
	if pc.Model == "" {
		pc.Model = "deepseek-chat"
	}
	return newOpenAICompatible("deepseek", pc, s)
}

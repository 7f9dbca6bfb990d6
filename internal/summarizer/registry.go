package summarizer

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

// Settings are the provider-independent inputs every factory receives.
type Settings struct {
	SystemPrompt string
	HTTPClient   *http.Client
	Logger       logger.Logger
}

// Factory builds a Generator from the provider's configuration block.
type Factory func(pc config.ProviderConfig, s Settings) (Generator, error)

// Registry maps provider names to factories. Adding a provider is one
// Register call.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every built-in provider.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("openai", func(pc config.ProviderConfig, s Settings) (Generator, error) {
		return newOpenAICompatible("openai", pc, s), nil
	})
	r.Register("deepseek", func(pc config.ProviderConfig, s Settings) (Generator, error) {
		return newDeepSeek(pc, s), nil
	})
	r.Register("gemini", func(pc config.ProviderConfig, s Settings) (Generator, error) {
		return newGemini(pc, s), nil
	})
	r.Register("ollama", func(pc config.ProviderConfig, s Settings) (Generator, error) {
		return newOllama(pc, s), nil
	})
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[strings.ToLower(name)]
	return ok
}

// Names lists registered providers in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named provider using its block in cfg.
func (r *Registry) Build(name string, cfg config.GeneratorConfig, s Settings) (Generator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}

	pc, _ := cfg.ProviderSettings(name)
	if s.SystemPrompt == "" {
		s.SystemPrompt = cfg.SystemPrompt
	}
	if s.SystemPrompt == "" {
		s.SystemPrompt = config.DefaultSystemPrompt
	}
	if s.Logger == nil {
		s.Logger = logger.Nop()
	}
	return f(pc, s)
}

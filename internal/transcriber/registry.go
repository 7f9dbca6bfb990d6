package transcriber

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/pkg/executor"
)

// Deps are the collaborators engines may need.
type Deps struct {
	Executor   executor.Executor
	Fs         afero.Fs
	Logger     logger.Logger
	HTTPClient *http.Client
}

// Factory builds a Transcriber from its configuration.
type Factory func(cfg config.TranscriberConfig, deps Deps) (Transcriber, error)

// Registry maps engine names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every built-in engine.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("whispercpp", func(cfg config.TranscriberConfig, d Deps) (Transcriber, error) {
		return newChecked("whispercpp", newWhisperCpp(cfg, d.Executor, d.Fs, d.Logger), d.Fs, d.Logger), nil
	})
	r.Register("whisperx", func(cfg config.TranscriberConfig, d Deps) (Transcriber, error) {
		return newChecked("whisperx", newWhisperX(cfg, d.Executor, d.Fs, d.Logger), d.Fs, d.Logger), nil
	})
	r.Register("openai", func(cfg config.TranscriberConfig, d Deps) (Transcriber, error) {
		return newChecked("openai", newOpenAIWhisper(cfg, d.Fs, d.HTTPClient), d.Fs, d.Logger), nil
	})
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Build constructs the named engine.
func (r *Registry) Build(name string, cfg config.TranscriberConfig, deps Deps) (Transcriber, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return f(cfg, deps)
}

// Names lists registered engines in sorted order.
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

// New builds the engine selected by cfg.Engine from the default registry.
func New(cfg config.TranscriberConfig, deps Deps) (Transcriber, error) {
	return DefaultRegistry().Build(cfg.Engine, cfg, deps)
}

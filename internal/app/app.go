// Package app wires configuration into ready-to-run pipeline components.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/acquire"
	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/export"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/internal/processor"
	"github.com/nguyentantai21042004/speech-notes/internal/summarizer"
	"github.com/nguyentantai21042004/speech-notes/internal/transcriber"
	"github.com/nguyentantai21042004/speech-notes/pkg/executor"
)

// App owns the long-lived adapters and builds a Processor per provider.
type App struct {
	cfg         *config.Config
	fs          afero.Fs
	logger      logger.Logger
	acquirer    acquire.Acquirer
	transcriber transcriber.Transcriber
	engines     *transcriber.Registry
	providers   *summarizer.Registry
	exporter    export.Writer
}

// New builds the adapters selected by cfg.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	return NewWith(cfg, log, executor.New(), afero.NewOsFs(), http.DefaultClient)
}

// NewWith is New with explicit collaborators.
func NewWith(cfg *config.Config, log logger.Logger, exec executor.Executor, fs afero.Fs, httpClient *http.Client) (*App, error) {
	engines := transcriber.DefaultRegistry()
	tr, err := engines.Build(cfg.Transcriber.Engine, cfg.Transcriber, transcriber.Deps{
		Executor:   exec,
		Fs:         fs,
		Logger:     log,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("build transcriber: %w", err)
	}

	a := &App{
		cfg:         cfg,
		fs:          fs,
		logger:      log,
		acquirer:    acquire.New(cfg, exec, fs, log),
		transcriber: tr,
		engines:     engines,
		providers:   summarizer.DefaultRegistry(),
	}
	if cfg.Export.Docx {
		a.exporter = export.NewDocx()
	}
	return a, nil
}

// Processor returns a pipeline that generates notes with provider, or the
// configured default when provider is empty.
func (a *App) Processor(provider string) (processor.Processor, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = a.cfg.Generator.Provider
	}

	gen, err := a.providers.Build(provider, a.cfg.Generator, summarizer.Settings{Logger: a.logger})
	if err != nil {
		return nil, err
	}

	return processor.New(a.cfg, processor.Deps{
		Acquirer:    a.acquirer,
		Transcriber: a.transcriber,
		Generator:   gen,
		Exporter:    a.exporter,
		Fs:          a.fs,
		Logger:      a.logger,
	}), nil
}

// Providers lists the registered text-generation providers.
func (a *App) Providers() []string {
	return a.providers.Names()
}

// Engines lists the registered transcription engines.
func (a *App) Engines() []string {
	return a.engines.Names()
}

// DefaultProvider is the provider used when a request names none.
func (a *App) DefaultProvider() string {
	return a.cfg.Generator.Provider
}

// Engine is the configured transcription engine.
func (a *App) Engine() string {
	return a.transcriber.Name()
}

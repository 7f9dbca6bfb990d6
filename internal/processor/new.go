package processor

import (
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/acquire"
	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/export"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/internal/summarizer"
	"github.com/nguyentantai21042004/speech-notes/internal/transcriber"
)

// Deps are the collaborators of a Processor. Exporter may be nil.
type Deps struct {
	Acquirer    acquire.Acquirer
	Transcriber transcriber.Transcriber
	Generator   summarizer.Generator
	Exporter    export.Writer
	Fs          afero.Fs
	Logger      logger.Logger
}

type implProcessor struct {
	cfg         *config.Config
	acquirer    acquire.Acquirer
	transcriber transcriber.Transcriber
	generator   summarizer.Generator
	exporter    export.Writer
	fs          afero.Fs
	logger      logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps) Processor {
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &implProcessor{
		cfg:         cfg,
		acquirer:    deps.Acquirer,
		transcriber: deps.Transcriber,
		generator:   deps.Generator,
		exporter:    deps.Exporter,
		fs:          fs,
		logger:      log,
	}
}

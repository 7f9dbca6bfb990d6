package httpapi

import (
	"context"
	"net/http"

	"github.com/nguyentantai21042004/speech-notes/internal/processor"
)

// Builder provides a pipeline for a provider name. An empty name selects
// the default provider.
type Builder interface {
	Processor(provider string) (processor.Processor, error)
	Providers() []string
	DefaultProvider() string
	Engine() string
}

// Server is the HTTP front end of the pipeline.
type Server interface {
	Handler() http.Handler
	Run(ctx context.Context) error
}

package summarizer

import "context"

// Generator turns source text into notes with a text-generation backend.
// An empty completion is returned as "" with a nil error.
type Generator interface {
	Generate(ctx context.Context, prompt, sourceText string) (string, error)
	Name() string
}

package processor

import "context"

// Options tune a single run.
type Options struct {
	// KeepAudio retains downloaded audio after the run.
	KeepAudio bool
	// Prompt replaces the configured notes prompt when set.
	Prompt string
	// Remote treats every source as a URL, even without a scheme, so it
	// is always downloaded and never read from disk.
	Remote bool
}

// Processor runs the acquire -> transcribe -> summarize pipeline.
// Neither method returns an error: every failure is reported in the result.
type Processor interface {
	Run(ctx context.Context, source string, opts Options) RunResult
	RunAll(ctx context.Context, sources []string, opts Options) BatchResult
}

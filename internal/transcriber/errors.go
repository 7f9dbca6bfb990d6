package transcriber

import (
	"errors"
	"fmt"
)

// Kind classifies transcription failures.
type Kind string

const (
	KindEngine            Kind = "engine"
	KindUnsupportedFormat Kind = "unsupported-format"
	KindEmptyOutput       Kind = "empty-output"
)

// ErrUnknownEngine is returned by the registry for unregistered names.
var ErrUnknownEngine = errors.New("unknown transcription engine")

// Error is returned by every Transcriber.
type Error struct {
	Kind   Kind
	Engine string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transcribe with %s (%s): %v", e.Engine, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

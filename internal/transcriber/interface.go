package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/speech-notes/internal/domain"
)

// Transcriber converts an audio asset into a transcript. An empty
// language means the engine should detect it.
type Transcriber interface {
	Transcribe(ctx context.Context, asset domain.AudioAsset, language string) (domain.Transcript, error)
	Name() string
}

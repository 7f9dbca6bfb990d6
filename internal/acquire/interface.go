package acquire

import (
	"context"

	"github.com/nguyentantai21042004/speech-notes/internal/domain"
)

// Acquirer turns a source locator into a local audio file.
type Acquirer interface {
	Fetch(ctx context.Context, src domain.Source) (domain.AudioAsset, error)
}

package export

import "github.com/nguyentantai21042004/speech-notes/internal/domain"

// Writer renders pipeline artifacts into documents.
type Writer interface {
	WriteNotes(path, title, markdown string) error
	WriteTranscript(path, title string, transcript domain.Transcript) error
}

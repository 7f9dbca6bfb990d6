package transcriber

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/domain"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

// output is what an engine produced before validation.
type output struct {
	Text     string
	Language string
	Segments []domain.Segment
}

// engine runs one recognizer against a checked file. lang is an ISO code or
// empty for auto-detection.
type engine interface {
	run(ctx context.Context, audioPath, lang string) (output, error)
}

// implTranscriber applies the shared asset check, language normalization
// and output validation around an engine.
type implTranscriber struct {
	name   string
	engine engine
	fs     afero.Fs
	logger logger.Logger
}

func newChecked(name string, e engine, fs afero.Fs, log logger.Logger) Transcriber {
	return &implTranscriber{name: name, engine: e, fs: fs, logger: log}
}

func (t *implTranscriber) Name() string {
	return t.name
}

func (t *implTranscriber) Transcribe(ctx context.Context, asset domain.AudioAsset, language string) (domain.Transcript, error) {
	mtype, err := checkAsset(t.fs, asset.Path)
	if err != nil {
		return domain.Transcript{}, &Error{Kind: KindUnsupportedFormat, Engine: t.name, Err: err}
	}

	lang := NormalizeLanguage(language)
	t.logger.Info(ctx, "Transcribing %s (%s) with %s, language=%q", asset.Path, mtype, t.name, lang)

	out, err := t.engine.run(ctx, asset.Path, lang)
	if err != nil {
		var tErr *Error
		if errors.As(err, &tErr) {
			return domain.Transcript{}, err
		}
		return domain.Transcript{}, &Error{Kind: KindEngine, Engine: t.name, Err: err}
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		text = domain.TextFromSegments(out.Segments)
	}
	if out.Language == "" {
		out.Language = lang
	}

	transcript, err := domain.NewTranscript(text, out.Language, out.Segments)
	if err != nil {
		return domain.Transcript{}, &Error{Kind: KindEmptyOutput, Engine: t.name, Err: err}
	}

	t.logger.Info(ctx, "Transcription completed: %d segments, %d chars", len(transcript.Segments), len(transcript.Text))
	return transcript, nil
}

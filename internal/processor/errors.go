package processor

import (
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/speech-notes/internal/acquire"
	"github.com/nguyentantai21042004/speech-notes/internal/summarizer"
	"github.com/nguyentantai21042004/speech-notes/internal/transcriber"
)

// stageError classifies err for stage. parent is the run context and
// stageCtx the budgeted context the stage ran under; their state decides
// between timeout and cancellation before the adapter's own kind is used.
func stageError(stage Stage, err error, parent, stageCtx context.Context) *StageError {
	se := &StageError{Stage: stage, Kind: KindInternal, Message: err.Error(), Err: err}

	switch {
	case parent.Err() != nil:
		se.Kind = KindCancelled
		return se
	case stageCtx != nil && errors.Is(stageCtx.Err(), context.DeadlineExceeded):
		se.Kind = KindTimeout
		return se
	}

	var (
		acqErr *acquire.Error
		trErr  *transcriber.Error
		genErr *summarizer.Error
	)
	switch {
	case errors.As(err, &acqErr):
		se.Kind = string(acqErr.Kind)
	case errors.As(err, &trErr):
		se.Kind = string(trErr.Kind)
	case errors.As(err, &genErr):
		se.Kind = string(genErr.Kind)
	case errors.Is(err, context.DeadlineExceeded):
		se.Kind = KindTimeout
	case errors.Is(err, context.Canceled):
		se.Kind = KindCancelled
	}
	return se
}

func cancelledError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindCancelled, Message: err.Error(), Err: err}
}

// budget bounds a stage by d. Zero or negative disables the deadline.
func budget(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

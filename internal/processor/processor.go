package processor

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/domain"
)

// Run orchestrates one source through the whole pipeline. Acquisition
// and transcription failures end the run; persistence and summarization
// failures are recorded and the remaining steps still run.
func (p *implProcessor) Run(ctx context.Context, source string, opts Options) (res RunResult) {
	startTime := time.Now()
	res = RunResult{Source: source}
	defer func() {
		res.settle()
		res.Duration = time.Since(startTime)
		p.logResult(ctx, res)
	}()

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting processing: %s", source)
	p.logger.Info(ctx, "========================================")

	parse := domain.ParseSource
	if opts.Remote {
		parse = domain.ParseRemoteSource
	}
	src, err := parse(source)
	if err != nil {
		res.record(&StageError{Stage: StageAcquisition, Kind: KindInvalid, Message: err.Error(), Err: err})
		return res
	}

	// Step 1: Acquire audio
	asset, se := p.acquire(ctx, src)
	if se != nil {
		res.record(se)
		return res
	}
	res.AudioPath = asset.Path
	res.AudioDigest = asset.Digest
	defer func() {
		if !p.releaseAsset(ctx, asset, opts.KeepAudio) {
			res.AudioPath = ""
		}
	}()

	// Step 2: Transcribe
	transcript, se := p.transcribe(ctx, asset)
	if se != nil {
		res.record(se)
		return res
	}
	res.Transcript = &transcript
	base := asset.BaseName()

	// Step 3: Persist transcript, keep going on failure
	if path, err := p.writeArtifact(ctx, p.cfg.Paths.Transcripts, base, transcriptSuffix, transcript.Text); err != nil {
		res.record(&StageError{Stage: StagePersistence, Kind: KindIO, Message: err.Error(), Err: err})
	} else {
		res.TranscriptPath = path
	}

	// Step 4: Summarize
	notes, se := p.summarize(ctx, transcript.Text, p.prompt(opts))
	if se != nil {
		res.record(se)
	} else {
		res.Notes = notes
		res.HasNotes = true

		// Step 5: Persist notes
		if path, err := p.writeArtifact(ctx, p.cfg.Paths.Notes, base, notesSuffix, notes); err != nil {
			res.record(&StageError{Stage: StagePersistence, Kind: KindIO, Message: err.Error(), Err: err})
		} else {
			res.NotesPath = path
		}
	}

	// Step 6: Optional document export
	p.exportDocx(ctx, base, &res)

	return res
}

func (p *implProcessor) acquire(ctx context.Context, src domain.Source) (domain.AudioAsset, *StageError) {
	if err := ctx.Err(); err != nil {
		return domain.AudioAsset{}, cancelledError(StageAcquisition, err)
	}

	sctx, cancel := budget(ctx, p.cfg.Timeouts.Acquisition)
	defer cancel()

	asset, err := p.acquirer.Fetch(sctx, src)
	if err != nil {
		return domain.AudioAsset{}, stageError(StageAcquisition, err, ctx, sctx)
	}
	return asset, nil
}

func (p *implProcessor) transcribe(ctx context.Context, asset domain.AudioAsset) (domain.Transcript, *StageError) {
	if err := ctx.Err(); err != nil {
		return domain.Transcript{}, cancelledError(StageTranscription, err)
	}

	sctx, cancel := budget(ctx, p.cfg.Timeouts.Transcription)
	defer cancel()

	transcript, err := p.transcriber.Transcribe(sctx, asset, p.cfg.Transcriber.Language)
	if err != nil {
		return domain.Transcript{}, stageError(StageTranscription, err, ctx, sctx)
	}
	return transcript, nil
}

func (p *implProcessor) summarize(ctx context.Context, text, prompt string) (string, *StageError) {
	if err := ctx.Err(); err != nil {
		return "", cancelledError(StageSummarization, err)
	}

	sctx, cancel := budget(ctx, p.cfg.Timeouts.Generation)
	defer cancel()

	notes, err := p.generator.Generate(sctx, prompt, text)
	if err != nil {
		return "", stageError(StageSummarization, err, ctx, sctx)
	}
	return notes, nil
}

func (p *implProcessor) prompt(opts Options) string {
	if opts.Prompt != "" {
		return opts.Prompt
	}
	if p.cfg.Generator.Prompt != "" {
		return p.cfg.Generator.Prompt
	}
	return config.DefaultPrompt
}

func (p *implProcessor) logResult(ctx context.Context, res RunResult) {
	p.logger.Info(ctx, "========================================")
	switch res.Status {
	case StatusSuccess:
		p.logger.Info(ctx, "Processing completed successfully!")
	case StatusPartial:
		p.logger.Warn(ctx, "Processing partially completed: %s failed (%s): %s", res.Stage, res.Kind, res.Message)
	default:
		p.logger.Error(ctx, "Processing failed at %s (%s): %s", res.Stage, res.Kind, res.Message)
	}
	if res.AudioDigest != "" {
		p.logger.Info(ctx, "Audio blake3: %s", res.AudioDigest)
	}
	if res.TranscriptPath != "" {
		p.logger.Info(ctx, "Transcript: %s", res.TranscriptPath)
	}
	if res.NotesPath != "" {
		p.logger.Info(ctx, "Notes: %s", res.NotesPath)
	}
	p.logger.Info(ctx, "Processing time: %s", res.Duration.Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")
}

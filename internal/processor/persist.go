package processor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	transcriptSuffix = "_transcription"
	notesSuffix      = "_notes"
)

// writeArtifact writes text to dir/base+suffix+ext as UTF-8, creating dir as
// needed. An existing file is overwritten.
func (p *implProcessor) writeArtifact(ctx context.Context, dir, base, suffix, text string) (string, error) {
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, base+suffix+".txt")
	if err := afero.WriteFile(p.fs, path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	p.logger.Info(ctx, "Saved %s (%d bytes)", path, len(text))
	return path, nil
}

// exportDocx renders the artifacts as .docx next to the text files.
// Failures are logged and never change the run status.
func (p *implProcessor) exportDocx(ctx context.Context, base string, res *RunResult) {
	if p.exporter == nil || !p.cfg.Export.Docx {
		return
	}

	if res.Transcript != nil {
		path := filepath.Join(p.cfg.Paths.Transcripts, base+transcriptSuffix+".docx")
		if err := p.exporter.WriteTranscript(path, base, *res.Transcript); err != nil {
			p.logger.Warn(ctx, "Failed to export transcript docx %s: %v", path, err)
		} else {
			res.ExportPaths = append(res.ExportPaths, path)
		}
	}

	if res.HasNotes {
		path := filepath.Join(p.cfg.Paths.Notes, base+notesSuffix+".docx")
		if err := p.exporter.WriteNotes(path, base, res.Notes); err != nil {
			p.logger.Warn(ctx, "Failed to export notes docx %s: %v", path, err)
		} else {
			res.ExportPaths = append(res.ExportPaths, path)
		}
	}
}

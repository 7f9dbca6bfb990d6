package processor

import (
	"context"

	"github.com/nguyentantai21042004/speech-notes/internal/domain"
)

// releaseAsset deletes a downloaded asset unless the caller keeps it.
// Caller-owned files are never touched. It reports whether the file remains.
func (p *implProcessor) releaseAsset(ctx context.Context, asset domain.AudioAsset, keep bool) bool {
	if !asset.Owned {
		return true
	}
	if keep {
		p.logger.Info(ctx, "Keeping audio: %s", asset.Path)
		return true
	}

	if err := p.fs.Remove(asset.Path); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup audio %s: %v", asset.Path, err)
		return true
	}
	p.logger.Debug(ctx, "Cleaned up audio: %s", asset.Path)
	return false
}

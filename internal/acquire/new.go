package acquire

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/domain"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/pkg/executor"
	"github.com/nguyentantai21042004/speech-notes/pkg/fingerprint"
)

type implAcquirer struct {
	local  Acquirer
	remote Acquirer
	fs     afero.Fs
	logger logger.Logger
}

// New creates an Acquirer that downloads remote URLs with yt-dlp and
// validates local paths in place.
func New(cfg *config.Config, exec executor.Executor, fs afero.Fs, log logger.Logger) Acquirer {
	return &implAcquirer{
		local:  newLocal(fs),
		remote: newYTDLP(cfg.Acquisition, cfg.Paths.Audio, exec, fs, log),
		fs:     fs,
		logger: log,
	}
}

func (a *implAcquirer) Fetch(ctx context.Context, src domain.Source) (domain.AudioAsset, error) {
	if src.Locator() == "" {
		return domain.AudioAsset{}, newError(KindInvalid, "", domain.ErrEmptySource)
	}

	var (
		asset domain.AudioAsset
		err   error
	)
	if src.IsRemote() {
		asset, err = a.remote.Fetch(ctx, src)
	} else {
		asset, err = a.local.Fetch(ctx, src)
	}
	if err != nil {
		return domain.AudioAsset{}, err
	}

	digest, err := fingerprint.Blake3File(a.fs, asset.Path)
	if err != nil {
		a.logger.Warn(ctx, "Failed to fingerprint %s: %v", asset.Path, err)
	} else {
		asset.Digest = digest
	}

	a.logger.Info(ctx, "Audio ready: %s (%s, blake3=%s, owned=%t)", asset.Path, humanize.Bytes(uint64(asset.Size)), shortDigest(asset.Digest), asset.Owned)
	return asset, nil
}

// shortDigest trims a hex digest for log lines.
func shortDigest(d string) string {
	if d == "" {
		return "-"
	}
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

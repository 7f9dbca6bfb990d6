package acquire

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/domain"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/pkg/executor"
)

const (
	// outputTemplate names downloads after the media title.
	outputTemplate = "%(title)s.%(ext)s"
	workDirPrefix  = "dl-"
)

// Markers in yt-dlp stderr that mean the media itself is gone.
var notFoundMarkers = []string{
	"video unavailable",
	"private video",
	"this video is not available",
	"this video has been removed",
	"does not exist",
	"http error 404",
	"unsupported url",
	"is not a valid url",
	"account associated with this video has been terminated",
}

// ytdlpAcquirer downloads remote media with yt-dlp and extracts its audio.
type ytdlpAcquirer struct {
	cfg      config.AcquisitionConfig
	audioDir string
	executor executor.Executor
	fs       afero.Fs
	logger   logger.Logger
}

func newYTDLP(cfg config.AcquisitionConfig, audioDir string, exec executor.Executor, fs afero.Fs, log logger.Logger) *ytdlpAcquirer {
	return &ytdlpAcquirer{
		cfg:      cfg,
		audioDir: audioDir,
		executor: exec,
		fs:       fs,
		logger:   log,
	}
}

func (a *ytdlpAcquirer) args(workDir, url string) []string {
	args := []string{
		"--no-playlist",
		"--no-progress",
		"-x",
		"--audio-format", a.cfg.AudioFormat,
		"-o", filepath.Join(workDir, outputTemplate),
		"--print", "after_move:filepath",
		"--no-simulate",
	}
	if a.cfg.RateLimit != "" {
		args = append(args, "--throttled-rate", a.cfg.RateLimit)
	}
	if a.cfg.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", a.cfg.CookiesFromBrowser)
	}
	return append(args, url)
}

// Fetch downloads into a per-run work dir under the audio dir and moves
// the finished file up next to it. The work dir, with any .part or
// pre-extraction leftovers, is removed on every path.
func (a *ytdlpAcquirer) Fetch(ctx context.Context, src domain.Source) (domain.AudioAsset, error) {
	if err := a.fs.MkdirAll(a.audioDir, 0o755); err != nil {
		return domain.AudioAsset{}, newError(KindInvalid, src.Locator(), fmt.Errorf("create audio dir: %w", err))
	}
	workDir, err := afero.TempDir(a.fs, a.audioDir, workDirPrefix)
	if err != nil {
		return domain.AudioAsset{}, newError(KindInvalid, src.Locator(), fmt.Errorf("create download dir: %w", err))
	}
	defer a.removeWorkDir(ctx, workDir)

	a.logger.Info(ctx, "Downloading audio: %s", src.Locator())
	stdout, err := a.executor.Execute(ctx, a.cfg.BinaryPath, a.args(workDir, src.Locator())...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.AudioAsset{}, newError(KindNetwork, src.Locator(), fmt.Errorf("yt-dlp: %w", ctxErr))
		}
		return domain.AudioAsset{}, newError(classifyStderr(err), src.Locator(), fmt.Errorf("yt-dlp: %w", err))
	}

	downloaded := lastLine(stdout)
	if downloaded == "" {
		return domain.AudioAsset{}, newError(KindNotFound, src.Locator(), errors.New("yt-dlp reported no output file"))
	}

	info, err := a.fs.Stat(downloaded)
	if err != nil {
		return domain.AudioAsset{}, newError(KindNetwork, src.Locator(), fmt.Errorf("stat download: %w", err))
	}
	if info.Size() == 0 {
		return domain.AudioAsset{}, newError(KindNetwork, src.Locator(), fmt.Errorf("download %s is empty", downloaded))
	}

	path := filepath.Join(a.audioDir, filepath.Base(downloaded))
	if err := a.fs.Rename(downloaded, path); err != nil {
		return domain.AudioAsset{}, newError(KindInvalid, src.Locator(), fmt.Errorf("move download: %w", err))
	}

	a.logger.Info(ctx, "Download completed: %s", path)
	return domain.AudioAsset{
		Path:  path,
		Owned: true,
		Size:  info.Size(),
	}, nil
}

func (a *ytdlpAcquirer) removeWorkDir(ctx context.Context, dir string) {
	if err := a.fs.RemoveAll(dir); err != nil {
		a.logger.Warn(ctx, "Failed to remove download dir %s: %v", dir, err)
	}
}

// classifyStderr separates unavailable media from transport failures.
func classifyStderr(err error) Kind {
	var exitErr *executor.ExitError
	if !errors.As(err, &exitErr) {
		return KindNetwork
	}
	stderr := strings.ToLower(exitErr.Stderr)
	for _, marker := range notFoundMarkers {
		if strings.Contains(stderr, marker) {
			return KindNotFound
		}
	}
	return KindNetwork
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

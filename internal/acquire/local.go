package acquire

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/domain"
)

// localAcquirer validates a caller-supplied file. The file is never owned.
type localAcquirer struct {
	fs afero.Fs
}

func newLocal(fs afero.Fs) *localAcquirer {
	return &localAcquirer{fs: fs}
}

func (a *localAcquirer) Fetch(ctx context.Context, src domain.Source) (domain.AudioAsset, error) {
	if err := ctx.Err(); err != nil {
		return domain.AudioAsset{}, err
	}

	path := filepath.Clean(src.Locator())
	info, err := a.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.AudioAsset{}, newError(KindLocalMissing, src.Locator(), err)
		}
		return domain.AudioAsset{}, newError(KindInvalid, src.Locator(), fmt.Errorf("stat file: %w", err))
	}
	if !info.Mode().IsRegular() {
		return domain.AudioAsset{}, newError(KindInvalid, src.Locator(), fmt.Errorf("%s is not a regular file", path))
	}
	if info.Size() == 0 {
		return domain.AudioAsset{}, newError(KindInvalid, src.Locator(), fmt.Errorf("%s is empty", path))
	}

	return domain.AudioAsset{
		Path:  path,
		Owned: false,
		Size:  info.Size(),
	}, nil
}

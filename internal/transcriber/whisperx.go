package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/domain"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/pkg/executor"
)

const (
	defaultWhisperXBinary = "whisperx"
	defaultWhisperXModel  = "large-v3"
)

var thousand = decimal.NewFromInt(1000)

type whisperXResult struct {
	Language string `json:"language"`
	Segments []struct {
		Text  string          `json:"text"`
		Start decimal.Decimal `json:"start"`
		End   decimal.Decimal `json:"end"`
	} `json:"segments"`
}

type whisperX struct {
	cfg      config.TranscriberConfig
	executor executor.Executor
	fs       afero.Fs
	logger   logger.Logger
}

func newWhisperX(cfg config.TranscriberConfig, exec executor.Executor, fs afero.Fs, log logger.Logger) *whisperX {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = defaultWhisperXBinary
	}
	if cfg.Model == "" {
		cfg.Model = defaultWhisperXModel
	}
	if cfg.Device == "" {
		cfg.Device = "cpu"
	}
	if cfg.ComputeType == "" {
		cfg.ComputeType = "int8"
	}
	return &whisperX{cfg: cfg, executor: exec, fs: fs, logger: log}
}

func (w *whisperX) run(ctx context.Context, audioPath, lang string) (output, error) {
	tmpDir, err := afero.TempDir(w.fs, "", "notes-whisperx-")
	if err != nil {
		return output{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := w.fs.RemoveAll(tmpDir); err != nil {
			w.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", tmpDir, err)
		}
	}()

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, w.args(audioPath, tmpDir, lang)...); err != nil {
		return output{}, fmt.Errorf("whisperx transcribe: %w", err)
	}

	base := filepath.Base(audioPath)
	resultPath := filepath.Join(tmpDir, strings.TrimSuffix(base, filepath.Ext(base))+".json")
	data, err := afero.ReadFile(w.fs, resultPath)
	if err != nil {
		return output{}, fmt.Errorf("opening whisperx transcribe result: %w", err)
	}
	return parseWhisperX(data)
}

func (w *whisperX) args(audioPath, outDir, lang string) []string {
	args := []string{
		audioPath,
		"--output_format", "json",
		"--output_dir", outDir,
		"--device", w.cfg.Device,
		"--model", w.cfg.Model,
		"--compute_type", w.cfg.ComputeType,
	}
	if lang != "" {
		args = append(args, "--language", lang)
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--initial_prompt", w.cfg.Prompt)
	}
	return args
}

func parseWhisperX(data []byte) (output, error) {
	var res whisperXResult
	if err := json.Unmarshal(data, &res); err != nil {
		return output{}, fmt.Errorf("decoding whisperx json result: %w", err)
	}

	segments := make([]domain.Segment, 0, len(res.Segments))
	for _, s := range res.Segments {
		segments = append(segments, domain.Segment{
			Start: secondsToDuration(s.Start),
			End:   secondsToDuration(s.End),
			Text:  strings.TrimSpace(s.Text),
		})
	}

	return output{
		Text:     domain.TextFromSegments(segments),
		Language: res.Language,
		Segments: segments,
	}, nil
}

func secondsToDuration(sec decimal.Decimal) time.Duration {
	return time.Duration(sec.Mul(thousand).IntPart()) * time.Millisecond
}

package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/domain"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/pkg/executor"
)

const defaultWhisperBinary = "whisper-cli"

// whisperCppResult is the document written by whisper-cli -oj.
type whisperCppResult struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

type whisperCpp struct {
	cfg      config.TranscriberConfig
	executor executor.Executor
	fs       afero.Fs
	logger   logger.Logger
}

func newWhisperCpp(cfg config.TranscriberConfig, exec executor.Executor, fs afero.Fs, log logger.Logger) *whisperCpp {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = defaultWhisperBinary
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	return &whisperCpp{cfg: cfg, executor: exec, fs: fs, logger: log}
}

func (w *whisperCpp) run(ctx context.Context, audioPath, lang string) (output, error) {
	tmpDir, err := afero.TempDir(w.fs, "", "notes-whisper-")
	if err != nil {
		return output{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer w.cleanupTempDir(ctx, tmpDir)

	wavPath := filepath.Join(tmpDir, "audio.wav")
	if _, err := w.executor.Execute(ctx, w.cfg.FFmpegPath, ffmpegArgs(audioPath, wavPath)...); err != nil {
		return output{}, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	prefix := filepath.Join(tmpDir, "transcript")
	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, w.args(wavPath, prefix, lang)...); err != nil {
		return output{}, fmt.Errorf("whisper transcribe: %w", err)
	}

	data, err := afero.ReadFile(w.fs, prefix+".json")
	if err != nil {
		return output{}, fmt.Errorf("read whisper output: %w", err)
	}
	return parseWhisperCpp(data)
}

// ffmpegArgs converts any input to 16kHz mono PCM WAV, the format whisper.cpp expects.
func ffmpegArgs(in, out string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		out,
	}
}

func (w *whisperCpp) args(wavPath, prefix, lang string) []string {
	if lang == "" {
		lang = "auto"
	}
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-oj",
		"-of", prefix,
		"-l", lang,
		"-t", strconv.Itoa(w.cfg.Threads),
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}
	if !w.cfg.UseGPU {
		args = append(args, "-ng")
	}
	return args
}

func parseWhisperCpp(data []byte) (output, error) {
	var res whisperCppResult
	if err := json.Unmarshal(data, &res); err != nil {
		return output{}, fmt.Errorf("decode whisper output: %w", err)
	}

	segments := make([]domain.Segment, 0, len(res.Transcription))
	for _, s := range res.Transcription {
		segments = append(segments, domain.Segment{
			Start: time.Duration(s.Offsets.From) * time.Millisecond,
			End:   time.Duration(s.Offsets.To) * time.Millisecond,
			Text:  strings.TrimSpace(s.Text),
		})
	}

	return output{
		Text:     domain.TextFromSegments(segments),
		Language: res.Result.Language,
		Segments: segments,
	}, nil
}

func (w *whisperCpp) cleanupTempDir(ctx context.Context, dir string) {
	if err := w.fs.RemoveAll(dir); err != nil {
		w.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	}
}

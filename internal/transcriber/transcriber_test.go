package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/domain"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/pkg/executor"
)

var mp3Bytes = []byte("ID3\x03\x00\x00\x00\x00\x00\x00 fake mpeg frames")

type call struct {
	name string
	args []string
}

type fakeExecutor struct {
	calls []call
	run   func(name string, args []string) (string, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.ExecuteInDir(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteInDir(_ context.Context, _ string, name string, args ...string) (string, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.run == nil {
		return "", nil
	}
	return f.run(name, args)
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func hasArg(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func deps(exec executor.Executor, fs afero.Fs) Deps {
	return Deps{Executor: exec, Fs: fs, Logger: logger.Nop()}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want string
	}{
		{"empty", "", ""},
		{"auto", "auto", ""},
		{"auto upper", " AUTO ", ""},
		{"chinese name", "chinese", "zh"},
		{"english name", "English", "en"},
		{"iso code", "vi", "vi"},
		{"bcp47 region", "en-US", "en"},
		{"script tag", "zh-Hant", "zh"},
		{"garbage", "!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLanguage(tt.hint); got != tt.want {
				t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.hint, got, tt.want)
			}
		})
	}
}

func TestCheckAsset(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "a.mp3", mp3Bytes, 0o644)
	_ = afero.WriteFile(fs, "notes.txt", []byte("just some text"), 0o644)
	_ = afero.WriteFile(fs, "empty.mp3", nil, 0o644)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"mp3", "a.mp3", false},
		{"text file", "notes.txt", true},
		{"empty", "empty.mp3", true},
		{"missing", "missing.mp3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checkAsset(fs, tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkAsset() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranscribeRejectsBadAsset(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "notes.txt", []byte("plain text, not audio"), 0o644)
	exec := &fakeExecutor{}

	tr, err := New(config.TranscriberConfig{Engine: "whispercpp"}, deps(exec, fs))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = tr.Transcribe(context.Background(), domain.AudioAsset{Path: "notes.txt"}, "")
	var tErr *Error
	if !errors.As(err, &tErr) || tErr.Kind != KindUnsupportedFormat {
		t.Fatalf("Transcribe() error = %v, want unsupported-format", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("ran %d commands on a rejected asset, want 0", len(exec.calls))
	}
}

const whisperCppJSON = `{
  "result": {"language": "zh"},
  "transcription": [
    {"offsets": {"from": 0, "to": 2500}, "text": " 你好"},
    {"offsets": {"from": 2500, "to": 4000}, "text": " 世界 "}
  ]
}`

func TestWhisperCpp(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "talk.mp3", mp3Bytes, 0o644)

	exec := &fakeExecutor{
		run: func(name string, args []string) (string, error) {
			if name == "whisper-cli" {
				prefix := argAfter(args, "-of")
				_ = afero.WriteFile(fs, prefix+".json", []byte(whisperCppJSON), 0o644)
			}
			return "", nil
		},
	}

	cfg := config.TranscriberConfig{Engine: "whispercpp", ModelPath: "models/m.bin", Threads: 8, Prompt: "lecture"}
	tr, err := New(cfg, deps(exec, fs))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := tr.Transcribe(context.Background(), domain.AudioAsset{Path: "talk.mp3"}, "chinese")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Text != "你好 世界" {
		t.Errorf("Text = %q, want %q", got.Text, "你好 世界")
	}
	if got.Language != "zh" {
		t.Errorf("Language = %q, want zh", got.Language)
	}
	if len(got.Segments) != 2 || got.Segments[1].Start != 2500*time.Millisecond {
		t.Errorf("Segments = %+v", got.Segments)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("ran %d commands, want 2", len(exec.calls))
	}
	ff := exec.calls[0]
	if ff.name != "ffmpeg" || argAfter(ff.args, "-ar") != "16000" || argAfter(ff.args, "-ac") != "1" {
		t.Errorf("ffmpeg call = %+v", ff)
	}
	wh := exec.calls[1]
	if argAfter(wh.args, "-l") != "zh" {
		t.Errorf("whisper -l = %q, want zh", argAfter(wh.args, "-l"))
	}
	if argAfter(wh.args, "-t") != "8" || argAfter(wh.args, "-m") != "models/m.bin" {
		t.Errorf("whisper args = %v", wh.args)
	}
	if !hasArg(wh.args, "-ng") || !hasArg(wh.args, "-oj") {
		t.Errorf("whisper args = %v, want -oj and -ng", wh.args)
	}

	tmpDir := filepath.Dir(argAfter(wh.args, "-of"))
	if ok, _ := afero.Exists(fs, tmpDir); ok {
		t.Errorf("temp dir %s was not removed", tmpDir)
	}
}

func TestWhisperCppArgs(t *testing.T) {
	w := newWhisperCpp(config.TranscriberConfig{UseGPU: true}, nil, nil, logger.Nop())
	args := w.args("a.wav", "out", "")

	if argAfter(args, "-l") != "auto" {
		t.Errorf("-l = %q, want auto", argAfter(args, "-l"))
	}
	if hasArg(args, "-ng") {
		t.Error("-ng must not be set when use_gpu is true")
	}
	if hasArg(args, "--prompt") {
		t.Error("--prompt must not be set without a prompt")
	}
}

func TestWhisperCppEngineErrors(t *testing.T) {
	tests := []struct {
		name     string
		run      func(string, []string) (string, error)
		wantKind Kind
	}{
		{
			name: "ffmpeg fails",
			run: func(name string, _ []string) (string, error) {
				if name == "ffmpeg" {
					return "", &executor.ExitError{Command: "ffmpeg", ExitCode: 1, Stderr: "Invalid data"}
				}
				return "", nil
			},
			wantKind: KindEngine,
		},
		{
			name:     "no json written",
			run:      func(string, []string) (string, error) { return "", nil },
			wantKind: KindEngine,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			_ = afero.WriteFile(fs, "talk.mp3", mp3Bytes, 0o644)
			tr, _ := New(config.TranscriberConfig{Engine: "whispercpp"}, deps(&fakeExecutor{run: tt.run}, fs))

			_, err := tr.Transcribe(context.Background(), domain.AudioAsset{Path: "talk.mp3"}, "")
			var tErr *Error
			if !errors.As(err, &tErr) || tErr.Kind != tt.wantKind {
				t.Fatalf("Transcribe() error = %v, want kind %v", err, tt.wantKind)
			}
			if tErr.Engine != "whispercpp" {
				t.Errorf("Engine = %q, want whispercpp", tErr.Engine)
			}
		})
	}
}

func TestWhisperCppEmptyOutput(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "silence.mp3", mp3Bytes, 0o644)
	exec := &fakeExecutor{
		run: func(name string, args []string) (string, error) {
			if name == "whisper-cli" {
				_ = afero.WriteFile(fs, argAfter(args, "-of")+".json", []byte(`{"transcription":[{"offsets":{"from":0,"to":1},"text":"  "}]}`), 0o644)
			}
			return "", nil
		},
	}
	tr, _ := New(config.TranscriberConfig{Engine: "whispercpp"}, deps(exec, fs))

	_, err := tr.Transcribe(context.Background(), domain.AudioAsset{Path: "silence.mp3"}, "")
	var tErr *Error
	if !errors.As(err, &tErr) || tErr.Kind != KindEmptyOutput {
		t.Fatalf("Transcribe() error = %v, want empty-output", err)
	}
}

func TestWhisperX(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "audio/lecture.mp3", mp3Bytes, 0o644)

	exec := &fakeExecutor{
		run: func(name string, args []string) (string, error) {
			out := filepath.Join(argAfter(args, "--output_dir"), "lecture.json")
			doc := `{"language":"en","segments":[{"text":" Hello","start":0.5,"end":1.25},{"text":"there.","start":1.25,"end":2.0}]}`
			_ = afero.WriteFile(fs, out, []byte(doc), 0o644)
			return "", nil
		},
	}

	tr, err := New(config.TranscriberConfig{Engine: "whisperx", Device: "cuda"}, deps(exec, fs))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := tr.Transcribe(context.Background(), domain.AudioAsset{Path: "audio/lecture.mp3"}, "auto")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Text != "Hello there." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Segments[0].Start != 500*time.Millisecond || got.Segments[0].End != 1250*time.Millisecond {
		t.Errorf("Segments[0] = %+v", got.Segments[0])
	}

	args := exec.calls[0].args
	if exec.calls[0].name != "whisperx" || args[0] != "audio/lecture.mp3" {
		t.Errorf("call = %+v", exec.calls[0])
	}
	if argAfter(args, "--device") != "cuda" || argAfter(args, "--model") != "large-v3" {
		t.Errorf("args = %v", args)
	}
	if hasArg(args, "--language") {
		t.Error("--language must be omitted for auto")
	}
}

func TestOpenAI(t *testing.T) {
	var gotAuth, gotModel, gotFormat, gotLang, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotLang = r.FormValue("language")
		if f, hdr, err := r.FormFile("file"); err == nil {
			b, _ := io.ReadAll(f)
			gotFile = fmt.Sprintf("%s:%d", hdr.Filename, len(b))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"Bonjour tout le monde","language":"french","segments":[{"start":0,"end":1.5,"text":"Bonjour tout le monde"}]}`)
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "fr.mp3", mp3Bytes, 0o644)

	cfg := config.TranscriberConfig{Engine: "openai", APIKey: "sk-test", BaseURL: srv.URL + "/v1"}
	tr, err := New(cfg, Deps{Fs: fs, Logger: logger.Nop(), HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := tr.Transcribe(context.Background(), domain.AudioAsset{Path: "fr.mp3"}, "french")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got.Text != "Bonjour tout le monde" || got.Language != "fr" {
		t.Errorf("Transcribe() = %+v", got)
	}
	if got.Segments[0].End != 1500*time.Millisecond {
		t.Errorf("Segments[0].End = %v", got.Segments[0].End)
	}
	if gotAuth != "Bearer sk-test" || gotModel != "whisper-1" || gotFormat != "verbose_json" || gotLang != "fr" {
		t.Errorf("request auth=%q model=%q format=%q lang=%q", gotAuth, gotModel, gotFormat, gotLang)
	}
	if gotFile != fmt.Sprintf("fr.mp3:%d", len(mp3Bytes)) {
		t.Errorf("uploaded file = %q", gotFile)
	}
}

func TestOpenAIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided"}}`)
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "a.mp3", mp3Bytes, 0o644)

	tests := []struct {
		name    string
		key     string
		wantMsg string
	}{
		{"rejected key", "sk-bad", "Incorrect API key"},
		{"missing key", "", "missing API key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.TranscriberConfig{Engine: "openai", APIKey: tt.key, BaseURL: srv.URL}
			tr, _ := New(cfg, Deps{Fs: fs, Logger: logger.Nop(), HTTPClient: srv.Client()})

			_, err := tr.Transcribe(context.Background(), domain.AudioAsset{Path: "a.mp3"}, "")
			var tErr *Error
			if !errors.As(err, &tErr) || tErr.Kind != KindEngine {
				t.Fatalf("Transcribe() error = %v, want engine", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	if got := strings.Join(r.Names(), ","); got != "openai,whispercpp,whisperx" {
		t.Errorf("Names() = %q", got)
	}

	_, err := r.Build("kaldi", config.TranscriberConfig{}, deps(&fakeExecutor{}, afero.NewMemMapFs()))
	if !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("Build(kaldi) error = %v, want ErrUnknownEngine", err)
	}

	r.Register("Stub", func(config.TranscriberConfig, Deps) (Transcriber, error) { return nil, nil })
	if _, err := r.Build("stub", config.TranscriberConfig{}, Deps{}); err != nil {
		t.Errorf("Build(stub) error = %v", err)
	}
}

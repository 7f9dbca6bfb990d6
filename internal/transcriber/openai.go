package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/domain"
)

const (
	defaultOpenAIBase  = "https://api.openai.com/v1"
	defaultOpenAIModel = "whisper-1"
)

type openAIResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		Start decimal.Decimal `json:"start"`
		End   decimal.Decimal `json:"end"`
		Text  string          `json:"text"`
	} `json:"segments"`
}

type openAIErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// openAIWhisper calls the hosted audio transcription endpoint.
type openAIWhisper struct {
	cfg        config.TranscriberConfig
	fs         afero.Fs
	httpClient *http.Client
}

func newOpenAIWhisper(cfg config.TranscriberConfig, fs afero.Fs, httpClient *http.Client) *openAIWhisper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBase
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &openAIWhisper{cfg: cfg, fs: fs, httpClient: httpClient}
}

func (o *openAIWhisper) url(relPath string) string {
	return strings.TrimRight(o.cfg.BaseURL, "/") + "/" + strings.TrimLeft(relPath, "/")
}

func (o *openAIWhisper) run(ctx context.Context, audioPath, lang string) (output, error) {
	if o.cfg.APIKey == "" {
		return output{}, errors.New("missing API key (set OPENAI_API_KEY or transcriber.api_key)")
	}

	body, contentType, err := o.form(audioPath, lang)
	if err != nil {
		return output{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url("audio/transcriptions"), body)
	if err != nil {
		return output{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return output{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var eb openAIErrorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &eb) == nil && eb.Error.Message != "" {
			return output{}, fmt.Errorf("unexpected response: %s: %s", resp.Status, eb.Error.Message)
		}
		return output{}, fmt.Errorf("unexpected response: %s", resp.Status)
	}

	var tr openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return output{}, fmt.Errorf("decode response: %w", err)
	}

	segments := make([]domain.Segment, 0, len(tr.Segments))
	for _, s := range tr.Segments {
		segments = append(segments, domain.Segment{
			Start: secondsToDuration(s.Start),
			End:   secondsToDuration(s.End),
			Text:  strings.TrimSpace(s.Text),
		})
	}

	return output{
		Text:     tr.Text,
		Language: NormalizeLanguage(tr.Language),
		Segments: segments,
	}, nil
}

func (o *openAIWhisper) form(audioPath, lang string) (io.Reader, string, error) {
	f, err := o.fs.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	b := &bytes.Buffer{}
	mp := multipart.NewWriter(b)

	fields := map[string]string{
		"model":           o.cfg.Model,
		"response_format": "verbose_json",
	}
	if lang != "" {
		fields["language"] = lang
	}
	if o.cfg.Prompt != "" {
		fields["prompt"] = o.cfg.Prompt
	}
	for k, v := range fields {
		if err := mp.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	fp, err := mp.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fp, f); err != nil {
		return nil, "", fmt.Errorf("copy audio: %w", err)
	}
	if err := mp.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return b, mp.FormDataContentType(), nil
}

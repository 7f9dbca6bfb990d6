package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Timeouts    TimeoutsConfig    `yaml:"timeouts"`
	Server      ServerConfig      `yaml:"server"`
	Watch       WatchConfig       `yaml:"watch"`
	Export      ExportConfig      `yaml:"export"`
}

// TranscriberConfig selects the speech recognition engine and its device.
type TranscriberConfig struct {
	Engine      string `yaml:"engine"`
	Language    string `yaml:"language"`
	BinaryPath  string `yaml:"binary_path"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	ModelPath   string `yaml:"model_path"`
	Model       string `yaml:"model"`
	Prompt      string `yaml:"prompt"`
	Threads     int    `yaml:"threads"`
	UseGPU      bool   `yaml:"use_gpu"`
	Device      string `yaml:"device"`
	ComputeType string `yaml:"compute_type"`
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
}

// GeneratorConfig selects the text-generation provider used for notes.
type GeneratorConfig struct {
	Provider     string         `yaml:"provider"`
	Prompt       string         `yaml:"prompt"`
	SystemPrompt string         `yaml:"system_prompt"`
	OpenAI       ProviderConfig `yaml:"openai"`
	DeepSeek     ProviderConfig `yaml:"deepseek"`
	Gemini       ProviderConfig `yaml:"gemini"`
	Ollama       ProviderConfig `yaml:"ollama"`
}

// ProviderConfig holds credentials and model for one provider.
type ProviderConfig struct {
	Model   string   `yaml:"model"`
	APIKey  string   `yaml:"api_key"`
	APIKeys []string `yaml:"api_keys"`
	BaseURL string   `yaml:"base_url"`
}

// Keys returns every configured key, APIKey first, without duplicates.
func (p ProviderConfig) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, k := range append([]string{p.APIKey}, p.APIKeys...) {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

type AcquisitionConfig struct {
	BinaryPath         string `yaml:"binary_path"`
	RateLimit          string `yaml:"rate_limit"`
	AudioFormat        string `yaml:"audio_format"`
	CookiesFromBrowser string `yaml:"cookies_from_browser"`
}

type PathsConfig struct {
	Audio       string `yaml:"audio"`
	Transcripts string `yaml:"transcripts"`
	Notes       string `yaml:"notes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TimeoutsConfig is the wall-clock budget per pipeline stage. Zero disables it.
type TimeoutsConfig struct {
	Acquisition   time.Duration `yaml:"acquisition"`
	Transcription time.Duration `yaml:"transcription"`
	Generation    time.Duration `yaml:"generation"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	AllowedHosts []string `yaml:"allowed_hosts"`
	CORSOrigins  []string `yaml:"cors_origins"`
}

type WatchConfig struct {
	Dir        string        `yaml:"dir"`
	Extensions []string      `yaml:"extensions"`
	Settle     time.Duration `yaml:"settle"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

// ProviderSettings returns the settings block for the named provider.
func (g GeneratorConfig) ProviderSettings(name string) (ProviderConfig, bool) {
	switch strings.ToLower(name) {
	case "openai":
		return g.OpenAI, true
	case "deepseek":
		return g.DeepSeek, true
	case "gemini":
		return g.Gemini, true
	case "ollama":
		return g.Ollama, true
	default:
		return ProviderConfig{}, false
	}
}

// SetAPIKey overrides the key of the named provider.
func (g *GeneratorConfig) SetAPIKey(name, key string) error {
	switch strings.ToLower(name) {
	case "openai":
		g.OpenAI.APIKey = key
	case "deepseek":
		g.DeepSeek.APIKey = key
	case "gemini":
		g.Gemini.APIKey = key
	case "ollama":
		g.Ollama.APIKey = key
	default:
		return fmt.Errorf("unknown provider %q", name)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Paths.Transcripts == "" {
		return fmt.Errorf("paths.transcripts is required")
	}
	if c.Paths.Notes == "" {
		return fmt.Errorf("paths.notes is required")
	}
	if c.Transcriber.Engine == "" {
		return fmt.Errorf("transcriber.engine is required")
	}
	if c.Generator.Provider == "" {
		return fmt.Errorf("generator.provider is required")
	}
	if c.Timeouts.Acquisition < 0 || c.Timeouts.Transcription < 0 || c.Timeouts.Generation < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	c.Transcriber.Engine = strings.ToLower(c.Transcriber.Engine)
	c.Generator.Provider = strings.ToLower(c.Generator.Provider)

	if c.Paths.Audio == "" {
		c.Paths.Audio = "data/audio"
	}
	if c.Transcriber.Language == "" {
		c.Transcriber.Language = DefaultLanguage
	}
	if c.Transcriber.FFmpegPath == "" {
		c.Transcriber.FFmpegPath = "ffmpeg"
	}
	if c.Transcriber.Threads == 0 {
		c.Transcriber.Threads = 8
	}
	if c.Transcriber.Device == "" {
		c.Transcriber.Device = "cpu"
	}
	if c.Acquisition.BinaryPath == "" {
		c.Acquisition.BinaryPath = "yt-dlp"
	}
	if c.Acquisition.RateLimit == "" {
		c.Acquisition.RateLimit = "100K"
	}
	if c.Acquisition.AudioFormat == "" {
		c.Acquisition.AudioFormat = "mp3"
	}
	if c.Generator.Prompt == "" {
		c.Generator.Prompt = DefaultPrompt
	}
	if c.Generator.SystemPrompt == "" {
		c.Generator.SystemPrompt = DefaultSystemPrompt
	}
	if c.Generator.OpenAI.Model == "" {
		c.Generator.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Generator.DeepSeek.Model == "" {
		c.Generator.DeepSeek.Model = "deepseek-chat"
	}
	if c.Generator.DeepSeek.BaseURL == "" {
		c.Generator.DeepSeek.BaseURL = "https://api.deepseek.com"
	}
	if c.Generator.Gemini.Model == "" {
		c.Generator.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Generator.Ollama.Model == "" {
		c.Generator.Ollama.Model = "llama3.1"
	}
	if c.Generator.Ollama.BaseURL == "" {
		c.Generator.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if len(c.Server.AllowedHosts) == 0 {
		c.Server.AllowedHosts = []string{"youtube.com", "youtu.be"}
	}
	if c.Watch.Dir == "" {
		c.Watch.Dir = "data/inbox"
	}
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".mp3", ".wav", ".m4a", ".flac", ".ogg", ".opus", ".webm", ".mp4"}
	}
	if c.Watch.Settle == 0 {
		c.Watch.Settle = 2 * time.Second
	}

	return nil
}

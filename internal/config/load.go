package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigRelPath is the path searched under the XDG config directories.
const ConfigRelPath = "speech-notes/config.yaml"

// envOverrides are bound from the process environment after the file is read.
type envOverrides struct {
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	DeepSeekKey string `env:"DEEPSEEK_API_KEY"`
	GeminiKey   string `env:"GEMINI_API_KEY"`
	ModelChoice string `env:"MODEL_CHOICE"`
	OllamaHost  string `env:"OLLAMA_HOST"`
	LogLevel    string `env:"NOTES_LOG_LEVEL"`
}

// Load reads a YAML config file, applies .env and environment overrides,
// then validates and fills defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Resolve finds a config file: explicit path, ./config.yaml, then the XDG
// config dirs. With nothing found it returns defaults plus env overrides.
func Resolve(explicit string) (*Config, string, error) {
	loadDotEnv(".env")

	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		cfg, err := Load("config.yaml")
		return cfg, "config.yaml", err
	}

	if path, err := xdg.SearchConfigFile(ConfigRelPath); err == nil {
		cfg, err := Load(path)
		return cfg, path, err
	}

	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("validate config: %w", err)
	}
	return cfg, "", nil
}

// loadDotEnv loads KEY=VALUE pairs without overriding variables already set.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: load %s: %v\n", path, err)
	}
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if o.OpenAIKey != "" && cfg.Generator.OpenAI.APIKey == "" {
		cfg.Generator.OpenAI.APIKey = o.OpenAIKey
	}
	if o.OpenAIKey != "" && cfg.Transcriber.APIKey == "" {
		cfg.Transcriber.APIKey = o.OpenAIKey
	}
	if o.DeepSeekKey != "" && cfg.Generator.DeepSeek.APIKey == "" {
		cfg.Generator.DeepSeek.APIKey = o.DeepSeekKey
	}
	if o.GeminiKey != "" {
		cfg.Generator.Gemini.APIKeys = append(cfg.Generator.Gemini.APIKeys, splitKeys(o.GeminiKey)...)
	}
	if o.ModelChoice != "" {
		cfg.Generator.Provider = strings.ToLower(o.ModelChoice)
	}
	if o.OllamaHost != "" {
		cfg.Generator.Ollama.BaseURL = o.OllamaHost
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}

	return nil
}

// splitKeys accepts a comma separated key list.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

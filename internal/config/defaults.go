package config

import "time"

const (
	DefaultLanguage     = "chinese"
	DefaultProvider     = "ollama"
	DefaultEngine       = "whispercpp"
	DefaultSystemPrompt = "You are a professional note-taking assistant."
	DefaultPrompt       = "This is the transcript of a talk. Please organize it into detailed, well-structured notes of about 6000 words."
)

// Default returns a configuration usable without any config file.
func Default() *Config {
	cfg := &Config{
		Transcriber: TranscriberConfig{
			Engine:    DefaultEngine,
			ModelPath: "models/ggml-large-v3.bin",
		},
		Generator: GeneratorConfig{
			Provider: DefaultProvider,
		},
		Paths: PathsConfig{
			Audio:       "data/audio",
			Transcripts: "data/transcripts",
			Notes:       "data/notes",
		},
		Timeouts: TimeoutsConfig{
			Acquisition:   15 * time.Minute,
			Transcription: 2 * time.Hour,
			Generation:    10 * time.Minute,
		},
	}
	_ = cfg.Validate()
	return cfg
}

// Package cli is the command-line front end.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speech-notes/internal/app"
	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/logger"
	"github.com/nguyentantai21042004/speech-notes/internal/processor"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitPartial = 2
)

// Builder is what the commands need from the wired application.
type Builder interface {
	Processor(provider string) (processor.Processor, error)
	Providers() []string
	Engines() []string
	DefaultProvider() string
	Engine() string
}

// BuilderFunc constructs a Builder from the resolved configuration.
type BuilderFunc func(cfg *config.Config, log logger.Logger) (Builder, error)

func defaultBuilder(cfg *config.Config, log logger.Logger) (Builder, error) {
	return app.New(cfg, log)
}

// exitError carries a non-zero exit code out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// globalOptions are shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer
	build      BuilderFunc
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return execute(ctx, args, stdout, stderr, defaultBuilder)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, build BuilderFunc) int {
	g := &globalOptions{stdout: stdout, stderr: stderr, build: build}
	cmd := newRootCommand(g)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	var exitErr *exitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.code
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	case ctx.Err() != nil:
		return ExitFailure
	}
	return ExitOK
}

type runOptions struct {
	youtube   string
	audio     string
	batch     []string
	model     string
	apiKey    string
	keepAudio bool
	language  string
	prompt    string
}

// newRootCommand returns the root command with all subcommands attached
func newRootCommand(g *globalOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Turn videos and recordings into transcripts and notes.",
		Long: `notes downloads or reads spoken-word media, transcribes it with a speech
recognition engine and condenses the transcript into notes with a text-generation
provider. Transcripts and notes are written as plain text files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Extra positional URLs continue --batch, so "-b URL URL" works.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if len(opts.batch) == 0 {
					return fmt.Errorf("unexpected arguments %q: extra URLs are only accepted after --batch", args)
				}
				opts.batch = append(opts.batch, args...)
			}
			return runPipeline(cmd.Context(), g, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Path to config.yaml")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	f := cmd.Flags()
	f.StringVarP(&opts.youtube, "youtube", "y", "", "YouTube (or other remote) URL to process")
	f.StringVarP(&opts.audio, "audio", "a", "", "Local audio file to process")
	f.StringArrayVarP(&opts.batch, "batch", "b", nil, "URLs to process one after another (-b URL URL... or repeated -b)")
	f.StringVarP(&opts.model, "model", "m", "", "Text-generation provider (openai, deepseek, gemini, ollama)")
	f.StringVar(&opts.apiKey, "api-key", "", "API key for the selected provider")
	f.BoolVar(&opts.keepAudio, "keep-audio", false, "Keep downloaded audio after processing")
	f.StringVar(&opts.language, "language", "", `Language hint for transcription (default "chinese", "auto" to detect)`)
	f.StringVar(&opts.prompt, "prompt", "", "Instruction sent with the transcript instead of the default")
	cmd.MarkFlagsMutuallyExclusive("youtube", "audio", "batch")
	cmd.MarkFlagsOneRequired("youtube", "audio", "batch")

	cmd.AddCommand(newServeCommand(g))
	cmd.AddCommand(newWatchCommand(g))
	cmd.AddCommand(newProvidersCommand(g))
	return cmd
}

// setup resolves configuration and builds the logger and application.
func (g *globalOptions) setup(mutate func(cfg *config.Config) error) (*config.Config, logger.Logger, Builder, error) {
	cfg, path, err := config.Resolve(g.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	if mutate != nil {
		if err := mutate(cfg); err != nil {
			return nil, nil, nil, err
		}
	}

	log := logger.NewWithWriter(g.stderr, cfg.Logging.Level)
	if path != "" {
		log.Debug(context.Background(), "Configuration loaded from %s", path)
	}

	b, err := g.build(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, b, nil
}

func runPipeline(ctx context.Context, g *globalOptions, opts *runOptions) error {
	cfg, _, b, err := g.setup(func(cfg *config.Config) error {
		if opts.language != "" {
			cfg.Transcriber.Language = opts.language
		}
		if opts.model != "" {
			cfg.Generator.Provider = strings.ToLower(opts.model)
		}
		if opts.apiKey != "" {
			if err := cfg.Generator.SetAPIKey(cfg.Generator.Provider, opts.apiKey); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	proc, err := b.Processor(cfg.Generator.Provider)
	if err != nil {
		return err
	}

	runOpts := processor.Options{KeepAudio: opts.keepAudio, Prompt: opts.prompt, Remote: opts.audio == ""}
	var batch processor.BatchResult
	switch {
	case len(opts.batch) > 0:
		batch = proc.RunAll(ctx, opts.batch, runOpts)
		renderBatch(g.stdout, batch)
	case opts.youtube != "":
		batch = single(proc.Run(ctx, opts.youtube, runOpts))
		renderRun(g.stdout, batch.Results[0])
	default:
		batch = single(proc.Run(ctx, opts.audio, runOpts))
		renderRun(g.stdout, batch.Results[0])
	}

	code := exitCode(batch)
	if ctx.Err() != nil {
		code = ExitFailure
	}
	if code != ExitOK {
		return &exitError{code: code}
	}
	return nil
}

func single(r processor.RunResult) processor.BatchResult {
	var b processor.BatchResult
	b.Add(r)
	return b
}

// exitCode is 1 when any item failed, 2 when none failed but some were
// partial, else 0.
func exitCode(b processor.BatchResult) int {
	switch {
	case b.Failed > 0:
		return ExitFailure
	case b.Partial > 0:
		return ExitPartial
	default:
		return ExitOK
	}
}

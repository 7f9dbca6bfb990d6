package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/processor"
	"github.com/nguyentantai21042004/speech-notes/internal/watcher"
)

// newWatchCommand processes audio files dropped into a folder.
func newWatchCommand(g *globalOptions) *cobra.Command {
	var (
		dir   string
		model string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a folder and process new audio files one at a time.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, b, err := g.setup(func(cfg *config.Config) error {
				if dir != "" {
					cfg.Watch.Dir = dir
				}
				if model != "" {
					cfg.Generator.Provider = model
				}
				return nil
			})
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.Watch.Dir, 0o755); err != nil {
				return fmt.Errorf("create watch dir: %w", err)
			}

			proc, err := b.Processor(cfg.Generator.Provider)
			if err != nil {
				return err
			}

			// Dropped files are local inputs; the pipeline never deletes them.
			opts := processor.Options{}
			handler := func(ctx context.Context, path string) error {
				res := proc.Run(ctx, path, opts)
				renderRun(g.stdout, res)
				return res.Err()
			}

			w, err := watcher.New(cfg.Watch, handler, log)
			if err != nil {
				return err
			}
			defer w.Stop()

			err = w.Start(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Folder to watch (default data/inbox)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Text-generation provider")
	return cmd
}

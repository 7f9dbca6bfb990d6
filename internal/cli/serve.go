package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/speech-notes/internal/config"
	"github.com/nguyentantai21042004/speech-notes/internal/httpapi"
)

// newServeCommand starts the HTTP API.
func newServeCommand(g *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP (POST /process).",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, b, err := g.setup(func(cfg *config.Config) error {
				if addr != "" {
					cfg.Server.Addr = addr
				}
				return nil
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			log.Info(ctx, "Engine: %s, default provider: %s", b.Engine(), b.DefaultProvider())
			err = httpapi.New(cfg.Server, b, log).Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :5000)")
	return cmd
}

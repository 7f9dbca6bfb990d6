package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newProvidersCommand lists registered providers and engines.
func newProvidersCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List text-generation providers and transcription engines.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, b, err := g.setup(nil)
			if err != nil {
				return err
			}

			fmt.Fprintln(g.stdout, labelStyle.Render("providers:"))
			for _, p := range b.Providers() {
				marker := " "
				if p == b.DefaultProvider() {
					marker = "*"
				}
				fmt.Fprintf(g.stdout, "  %s %s\n", marker, p)
			}
			fmt.Fprintln(g.stdout, labelStyle.Render("engines:"))
			for _, e := range b.Engines() {
				marker := " "
				if e == b.Engine() {
					marker = "*"
				}
				fmt.Fprintf(g.stdout, "  %s %s\n", marker, e)
			}
			return nil
		},
	}
}

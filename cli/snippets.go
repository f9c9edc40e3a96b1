package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/snipfmt/snippet"
)

func newSnippetsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "Inspect the snippet directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List snippets with their language and size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			repo, err := snippet.NewFileRepository(cfg.Snippets.Dir, cfg.Snippets.Ignore...)
			if err != nil {
				return err
			}
			cards, err := snippet.Cards(cmd.Context(), repo)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tLANGUAGE\tSIZE")
			for _, c := range cards {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Title, c.Language.Label, humanize.IBytes(uint64(max(c.Size, 0))))
			}
			return w.Flush()
		},
	})
	return cmd
}

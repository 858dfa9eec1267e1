package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sdvillal/ffb2fs2ffb/pkg/service"
)

func NewIndexCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <source>",
		Short: "Rebuild the bookmark search index",
		Long: `Rebuild the search index from a source, which may be either a
bookmarks backup JSON file or a mirror directory.

Examples:
  ffb index bookmarks.json
  ffb index ~/bookmarks-mirror`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*svc).RebuildIndex(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed bookmarks from %s\n", args[0])
			return nil
		},
	}

	return cmd
}

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the bookmark index",
		Long: `Search indexed bookmarks by title, URI, keyword or tag.
Run "ffb index" first to build the index.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := (*svc).Search(args[0], limit)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks found")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tURI\tTAGS")
			for _, hit := range hits {
				fmt.Fprintf(w, "%s\t%s\t%s\n", hit.Title, hit.URI, hit.Tags)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of results")

	return cmd
}

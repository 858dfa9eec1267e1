package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdvillal/ffb2fs2ffb/pkg/service"
)

func NewImportCmd(svc **service.Service) *cobra.Command {
	var strayPolicy string

	cmd := &cobra.Command{
		Use:   "import <src-dir> <bookmarks.json>",
		Short: "Rebuild a bookmarks backup from a directory tree",
		Long: `Walk a mirror directory and rebuild a Firefox bookmarks backup JSON
file from it. Sibling order is taken from the order prefix in entry
names, never from directory listing order. Files that cannot be decoded
are skipped and reported; the rest of the tree still imports.

Directories created directly at the first level, next to the fixed
roots (menu, toolbar, unfiled, tags, mobile), cannot be represented in
the browser. The stray policy decides their fate: "unfiled" folds them
into the unfiled root, "reject" fails the import.

Examples:
  ffb import ~/bookmarks-mirror bookmarks-rebuilt.json
  ffb import --stray-policy reject ~/bookmarks-mirror out.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if cmd.Flags().Changed("stray-policy") {
				s.Config.StrayPolicy = strayPolicy
			}
			result, err := s.Import(args[0], args[1])
			if err != nil {
				return err
			}
			if len(result.Skipped) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %d entries:\n", len(result.Skipped))
				for _, skip := range result.Skipped {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", skip.Path, skip.Reason)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt %s from %s\n", args[1], args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&strayPolicy, "stray-policy", "", `first-level stray handling: "unfiled" or "reject"`)

	return cmd
}

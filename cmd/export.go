package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdvillal/ffb2fs2ffb/pkg/service"
)

func NewExportCmd(svc **service.Service) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export <bookmarks.json> <dest-dir>",
		Short: "Mirror a bookmarks backup into a directory tree",
		Long: `Mirror a Firefox bookmarks backup JSON file into the file system:
one directory per folder, one .ffurl file per bookmark, one .ffsep file
per separator. Entry names carry an order prefix (001__, 002__, ...) so
you can reorder bookmarks by renaming files.

Examples:
  ffb export bookmarks-2024-05-01.json ~/bookmarks-mirror
  ffb export --overwrite bookmarks.json ~/bookmarks-mirror`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if cmd.Flags().Changed("overwrite") {
				s.Config.Overwrite = overwrite
			}
			if err := s.Export(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %s into %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "write into a non-empty destination directory")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdvillal/ffb2fs2ffb/cmd"
	"github.com/sdvillal/ffb2fs2ffb/cmd/config"
	"github.com/sdvillal/ffb2fs2ffb/pkg/service"
)

var svc *service.Service

func main() {
	rootCmd := &cobra.Command{
		Use:   "ffb",
		Short: "Firefox bookmarks to the file system and back",
		Long: `ffb mirrors a Firefox bookmarks backup into a directory hierarchy so
you can reorganize your bookmarks with ordinary file-management tools,
then rebuilds a backup file the browser can restore.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// This runs once before any subcommand
		config.InitConfig()

		var err error
		svc, err = config.InitService()
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewExportCmd(&svc))
	rootCmd.AddCommand(cmd.NewImportCmd(&svc))
	rootCmd.AddCommand(cmd.NewOpenCmd(&svc))
	rootCmd.AddCommand(cmd.NewIndexCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cmd.ExitCode(err))
	}
}

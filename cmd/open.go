package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sdvillal/ffb2fs2ffb/pkg/service"
)

func NewOpenCmd(svc **service.Service) *cobra.Command {
	var browser string

	cmd := &cobra.Command{
		Use:   "open <file.ffurl>",
		Short: "Open the bookmark inside a marker file in the browser",
		Long: `Decode one .ffurl marker file and open its URI in the browser.
Associating .ffurl files with this command in your file manager makes
any bookmark in the mirror launchable with a double click.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			if cmd.Flags().Changed("browser") {
				s.Config.BrowserCommand = browser
			}
			return s.Open(args[0])
		},
	}

	cmd.Flags().StringVar(&browser, "browser", "", "browser command to launch (default from config)")

	return cmd
}

package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sdvillal/ffb2fs2ffb/pkg/service"
)

var (
	cfgFile string
	Verbose bool
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "ffb")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FFB")

	// Set defaults
	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "ffb"))
	viper.SetDefault("browser_command", "firefox")
	viper.SetDefault("import.stray_policy", "unfiled")
	viper.SetDefault("export.overwrite", false)

	// Missing config file is fine, defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func InitService() (*service.Service, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel) // Keep it quiet unless there are issues.
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	config := &service.Config{
		DataDir:        viper.GetString("data_dir"),
		BrowserCommand: viper.GetString("browser_command"),
		StrayPolicy:    viper.GetString("import.stray_policy"),
		Overwrite:      viper.GetBool("export.overwrite"),
	}

	return service.New(config, logger)
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ffb/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable debug logging")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"redimaq/internal/domain/config"
)

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	envFile string
	appCfg  config.Config
)

var rootCmd = &cobra.Command{
	Use:           "redimaq",
	Short:         "Redimaq site server and static exporter",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "redimaq", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $"+config.EnvConfig+" or ./site.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.AddCommand(serveCmd, buildCmd, versionCmd)
}

// initializeConfig resolves the config path from the flag, then the
// environment, then ./site.yaml. A missing default file means defaults.
func initializeConfig() error {
	if err := config.LoadEnv(envFile); err != nil {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	path := cfgFile
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	var (
		cfg config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadOrDefault("site.yaml")
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cfg = config.ApplyEnv(cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return err
	}
	appCfg = cfg
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

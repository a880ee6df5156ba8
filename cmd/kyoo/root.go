package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "kyoo",
	Short: "Manage a local kyoo episode library",
	Long: `kyoo - manage shows, seasons and episodes in a local library database

Episodes are addressed by slug: {show}-s{season}-e{episode}.
The database location and logging are read from config.toml
(see 'kyoo init').`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("kyoo {{.Version}}\n")
}

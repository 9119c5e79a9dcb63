package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/wordcloud/internal/config"
)

var writeConfig bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where the configuration lives",
	Long: `Prints the config file path. With --write the effective configuration,
defaults and environment overrides included, is written to that path.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&writeConfig, "write", false, "write the effective configuration to the config path")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !writeConfig {
		fmt.Fprintln(out, path)
		return nil
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ec/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintf(out, "# no %s found, built-in defaults\n", config.FileName)
		} else {
			fmt.Fprintf(out, "# %s\n", path)
		}
		return config.Encode(out, cfg)
	},
}

// Package config implements the nxtrace "config" subcommand group.
package config

import (
	"github.com/spf13/cobra"
)

// Cmd is the config subcommand.
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Inspect nxtrace configuration.

Use 'nxtrace init' to create a new configuration file.

Subcommands:
  show      Display the resolved configuration`,
}

func init() {
	Cmd.AddCommand(showCmd)
}

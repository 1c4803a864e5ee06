package config

import (
	"os"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/config"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/output"
	"github.com/spf13/cobra"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the resolved configuration",
	Long: `Display the configuration nxtrace would use: config file values layered
with NXTRACE_* environment overrides and built-in defaults.

Examples:
  # Show the default config as YAML
  nxtrace config show

  # Show as JSON
  nxtrace config show --output json

  # Show a specific config file
  nxtrace config show --config /etc/nxtrace/config.yaml`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, cfg)
	default:
		return output.PrintYAML(os.Stdout, cfg)
	}
}

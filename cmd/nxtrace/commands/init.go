package commands

import (
	"fmt"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample nxtrace configuration file.

By default, the configuration file is created at
$XDG_CONFIG_HOME/nxtrace/config.yaml. Use --config to specify a custom path.

Examples:
  # Initialize with default location
  nxtrace init

  # Initialize with custom path
  nxtrace init --config /etc/nxtrace/config.yaml

  # Force overwrite an existing config
  nxtrace init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file: set paths.elf_path to your target binary")
	fmt.Println("  2. Decode a capture: nxtrace decode --in trace.cap")
	fmt.Printf("  3. Or specify custom config: nxtrace decode --config %s --in trace.cap\n", configPath)

	return nil
}

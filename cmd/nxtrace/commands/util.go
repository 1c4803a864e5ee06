package commands

import (
	"fmt"

	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/config"
	"github.com/AshlingMicrosystems/sifive-trace-profiler-sub001/internal/logger"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

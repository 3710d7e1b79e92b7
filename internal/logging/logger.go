package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/llmgate/promptimprover/internal/config"
)

// New builds the process logger. Production config writes JSON to stderr,
// development config writes colored console lines.
func New(loggingConfig config.LoggingConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if loggingConfig.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if loggingConfig.Level != "" {
		level, err := zapcore.ParseLevel(loggingConfig.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", loggingConfig.Level, err)
		}
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

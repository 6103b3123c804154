package logutils

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/romashorodok/html-parser/pkg/envutils"
)

type LoggerConfig struct {
	ServiceName string
	Development bool
}

func NewLogger(config LoggerConfig) (*zap.Logger, error) {
	var zapConfig zap.Config
	if config.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", config.ServiceName)), nil
}

func NewLoggerFromEnv(serviceName string) (*zap.Logger, error) {
	return NewLogger(LoggerConfig{
		ServiceName: serviceName,
		Development: envutils.EnvBool("DEVELOPMENT", false),
	})
}

// FxLogger routes fx lifecycle events into the application logger.
func FxLogger(logger *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx")}
}

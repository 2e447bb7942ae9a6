package logger

import (
	"log"
	"medmarket-service/internal/app/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds the JSON logger shared by the HTTP server and the expiry worker.
// Production writes to the configured files and samples repeated entries; an unknown level
// falls back to info.
func NewZapLogger(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) *zap.Logger {
	zapLogger, err := zapConfig(driverConfig, internalConfig).Build()
	if err != nil {
		log.Fatalf("Error while initializing zap logger: %v", err)
	}
	return zapLogger
}

func zapConfig(driverConfig *config.DriverConfig, internalConfig *config.InternalConfig) zap.Config {
	level := zapcore.InfoLevel
	if driverConfig.Logger.Level != "" {
		if parsed, err := zapcore.ParseLevel(driverConfig.Logger.Level); err == nil {
			level = parsed
		}
	}

	production := internalConfig.App.Env == "production"
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      internalConfig.App.Env == "development",
		Encoding:         "json",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		InitialFields: map[string]interface{}{
			"service": internalConfig.Telemetry.ServiceName,
			"version": internalConfig.App.Version,
			"env":     internalConfig.App.Env,
		},
	}

	if production {
		if driverConfig.Logger.OutputFileName != "" {
			cfg.OutputPaths = []string{driverConfig.Logger.OutputFileName}
		}
		if driverConfig.Logger.OutputErrorFileName != "" {
			cfg.ErrorOutputPaths = append(cfg.ErrorOutputPaths, driverConfig.Logger.OutputErrorFileName)
		}
		// per second and message: the first 100 entries, then every 100th
		cfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}
	return cfg
}

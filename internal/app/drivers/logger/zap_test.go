package logger

import (
	"testing"

	"medmarket-service/internal/app/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestZapConfig(t *testing.T) {
	t.Run("development logs to stdout", func(t *testing.T) {
		driverConfig := &config.DriverConfig{}
		driverConfig.Logger.Level = "debug"
		internalConfig := &config.InternalConfig{}
		internalConfig.App.Env = "development"

		cfg := zapConfig(driverConfig, internalConfig)
		assert.Equal(t, zapcore.DebugLevel, cfg.Level.Level())
		assert.True(t, cfg.Development)
		assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
		assert.Nil(t, cfg.Sampling)
		assert.Equal(t, "development", cfg.InitialFields["env"])
	})

	t.Run("production writes files and samples", func(t *testing.T) {
		driverConfig := &config.DriverConfig{}
		driverConfig.Logger.Level = "verbose"
		driverConfig.Logger.OutputFileName = "/var/log/medmarket/app.log"
		driverConfig.Logger.OutputErrorFileName = "/var/log/medmarket/error.log"
		internalConfig := &config.InternalConfig{}
		internalConfig.App.Env = "production"

		cfg := zapConfig(driverConfig, internalConfig)
		assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
		assert.False(t, cfg.Development)
		assert.Equal(t, []string{"/var/log/medmarket/app.log"}, cfg.OutputPaths)
		assert.Equal(t, []string{"stderr", "/var/log/medmarket/error.log"}, cfg.ErrorOutputPaths)
		if assert.NotNil(t, cfg.Sampling) {
			assert.Equal(t, 100, cfg.Sampling.Thereafter)
		}
	})
}

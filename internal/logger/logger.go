// Package logger holds the process-wide zap logger used by the meanval CLI.
// Library packages never read it; they receive a *zap.Logger through their
// WithLogger options.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global sugared logger.
	Logger *zap.SugaredLogger
	// JSONOutput records whether Initialize selected the JSON encoder.
	JSONOutput bool
)

func init() {
	// Safe no-op until Initialize runs.
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger: JSON for machines, a compact
// console encoder on stderr otherwise. verbose lowers the level to debug.
func Initialize(jsonOutput, verbose bool) error {
	JSONOutput = jsonOutput

	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	var (
		zapLogger *zap.Logger
		err       error
	)
	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		zapLogger, err = config.Build()
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapLogger = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}
	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()

	return nil
}

// Base returns the unsugared global logger for WithLogger options.
func Base() *zap.Logger {
	return Logger.Desugar()
}

// Sync flushes the global logger, ignoring the EINVAL some terminals return.
func Sync() {
	_ = Logger.Sync()
}

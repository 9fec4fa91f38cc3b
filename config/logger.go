package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required,oneof=none debug normal"`
}

type LoggingConfig struct {
	ConsoleLogger LoggerConfig `yaml:"console"`
}

// Prepare returns the program logger. It writes to w, or to STDERR when w
// is nil, so that STDOUT only carries results.
func (conf *LoggingConfig) Prepare(w zapcore.WriteSyncer) *zap.Logger {
	if w == nil {
		w = zapcore.Lock(os.Stderr)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(ec)

	var core zapcore.Core
	switch conf.ConsoleLogger.Level {
	case "normal":
		core = zapcore.NewCore(encoder, w, zapcore.InfoLevel)
	case "debug":
		core = zapcore.NewCore(encoder, w, zapcore.DebugLevel)
	default:
		core = zapcore.NewNopCore()
	}
	return zap.New(core).Named("htmlq")
}

// Debug raises the console level to debug unless logging is turned off.
func (conf *LoggingConfig) Debug() {
	if conf.ConsoleLogger.Level != "none" {
		conf.ConsoleLogger.Level = "debug"
	}
}

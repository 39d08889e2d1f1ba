// Package logging is a thin wrapper of zap logging library.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvFormat is the environment variable that selects log encoding.
// "console" selects human-readable output; anything else selects JSON.
const EnvFormat = "CMNPROBE_LOG_FORMAT"

func newEncoder(format string) zapcore.Encoder {
	if format == "console" {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// perf output goes to stdout when streamed, so logs always go to stderr.
var root = zap.New(zapcore.NewCore(newEncoder(os.Getenv(EnvFormat)), zapcore.Lock(os.Stderr), zap.DebugLevel))

// New creates a logger for a package, filtered by that package's configured level.
//
// By convention, this should appear in the same .go file as the package docstring:
//  var logger = logging.New("discovery")
func New(pkg string) *zap.Logger {
	return root.Named(pkg).WithOptions(zap.IncreaseLevel(GetLevel(pkg).al))
}

// Sync flushes buffered log entries.
func Sync() error {
	return root.Sync()
}

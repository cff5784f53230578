package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vanshika/datafaker/internal/config"
)

// New builds a zap.Logger writing to stderr, keeping stdout free for interactive prompts.
func New(cfg config.LoggingConfig) *zap.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter builds the logger on an arbitrary sink.
func NewWithWriter(cfg config.LoggingConfig, w io.Writer) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if err := level.Set(strings.TrimSpace(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Encoding) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	default:
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core, zap.AddCaller())
}

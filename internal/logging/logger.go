package logging

import (
	"fmt"
	"os"

	"freightdesk/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the service logger: console output plus a rotated file
// under the configured logs directory. In development the file sink is the
// only difference from zap's stock development logger.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if err := os.MkdirAll(cfg.Logs.Directory, 0o755); err != nil {
		return nil, err
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   fmt.Sprintf("%s/freightdesk.log", cfg.Logs.Directory),
		MaxSize:    100, // MB before it rolls
		MaxBackups: 7,
		MaxAge:     30, // days
		Compress:   true,
	})

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}

	level := zap.InfoLevel
	if cfg.Server.Env == "development" {
		level = zap.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), fileSink, level),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// Package logging builds the application logger. Console output is always
// on; errors are additionally written to a rotating file so they survive
// restarts.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level       string
	Environment string
	ErrorFile   string // path of the rotating error log, empty disables it
}

// New constructs a zap logger from the given options.
func New(opt Options) *zap.Logger {
	level := parseLevel(opt.Level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	if opt.Environment == "production" {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	} else {
		devCfg := zap.NewDevelopmentEncoderConfig()
		devCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.AddSync(os.Stdout), level),
	}

	if opt.ErrorFile != "" {
		sink := &lumberjack.Logger{
			Filename:   filepath.Clean(opt.ErrorFile),
			MaxSize:    100, // MB
			MaxBackups: 10,
			MaxAge:     7, // days
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(sink),
			zapcore.ErrorLevel,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// ErrorID logs err with a fresh correlation id and returns the id.
// The id is what callers hand back to the client instead of the stack.
func ErrorID(log *zap.Logger, err error) string {
	id := uuid.NewString()
	log.Error(err.Error(), zap.String("errorId", id))
	return id
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

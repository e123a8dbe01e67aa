// Package logger configures the process-wide zap logger used by the CLI.
// Library packages take a *zap.Logger directly and default to zap.NewNop();
// this package only wires the global instance for binary entrypoints.
package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var global atomic.Pointer[zap.Logger]

// Init builds the global logger. Console output goes to stderr with a
// console encoder; when file is non-empty a JSON core writing through
// lumberjack rotation is teed in. Unknown levels fall back to info.
func Init(level, file string) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	cores := []zapcore.Core{consoleCore}

	if file != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		})
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			fileWriter,
			lvl,
		)
		cores = append(cores, fileCore)
	}

	l := zap.New(zapcore.NewTee(cores...))
	global.Store(l)
	zap.ReplaceGlobals(l)
}

// L returns the global logger, or a no-op logger before Init.
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// Sync flushes buffered log entries. Safe to call without Init.
func Sync() {
	if l := global.Load(); l != nil {
		_ = l.Sync()
	}
}

package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/shaunstanislauslau/xls/config"
)

// newLogger builds the CLI logger. Console output is used on a terminal
// and JSON otherwise, unless format forces one of them. Logs go to stderr.
func newLogger(format string, level zapcore.Level) *zap.Logger {
	if format == config.FormatAuto {
		format = config.FormatJSON
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = config.FormatConsole
		}
	}

	var enc zapcore.Encoder
	if format == config.FormatConsole {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc = zapcore.NewConsoleEncoder(ec)
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}

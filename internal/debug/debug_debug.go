//go:build debug

package debug

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Traces go to stderr whatever the log level of the program.
var tracer = zap.New(zapcore.NewCore(
	zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
	zapcore.Lock(os.Stderr),
	zapcore.DebugLevel,
)).Sugar().Named("trace")

func Printf(msg string, args ...any) {
	tracer.Debugf(msg, args...)
}

const On = true

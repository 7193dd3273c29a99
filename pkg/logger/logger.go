package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log   *zap.Logger
	Sugar *zap.SugaredLogger
)

func init() {
	// Nop until Init so the client library and tests can log safely
	// without any setup.
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}

// Init initializes the global logger configuration.
func Init() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	writer := zapcore.AddSync(os.Stdout)

	core := zapcore.NewCore(encoder, writer, zapcore.InfoLevel)

	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()
}

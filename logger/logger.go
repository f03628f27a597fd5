package logger

import (
	"go.uber.org/zap"
)

var Log *zap.SugaredLogger

// Log is safe to use before Init; entries are dropped until a real logger
// is installed.
func init() {
	Log = zap.NewNop().Sugar()
}

func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

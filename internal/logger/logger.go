package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/screa/fixpoint-miner/pkg/types"
)

// Logger wraps a zap sugared logger
type Logger struct {
	*zap.SugaredLogger
}

// New creates a console logger writing to stderr
func New(level zapcore.Level) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

// NewWriter creates a JSON logger that writes to the provided writer
func NewWriter(w io.Writer, level zapcore.Level) *Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// LevelFor maps output verbosity to a log level
func LevelFor(v types.Verbosity) zapcore.Level {
	switch v {
	case types.Silent:
		return zapcore.WarnLevel
	case types.Detailed:
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

package Logger

import (
	"go.uber.org/zap"
)

// Logger is the single process-wide logging handle. It is built once at
// startup and passed by reference to every component; call sites never
// reconfigure it.
type Logger struct {
	*zap.SugaredLogger
}

func BuildLogger(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.LevelKey = "level"
		cfg.EncoderConfig.MessageKey = "msg"
		cfg.EncoderConfig.CallerKey = "caller"
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.LevelKey = "level"
		cfg.EncoderConfig.MessageKey = "msg"
		cfg.EncoderConfig.CallerKey = "caller"
		cfg.Encoding = "json"
	}

	logger, _ := cfg.Build(zap.AddCaller())
	return &Logger{logger.Sugar()}
}

func New(debug bool) *Logger {
	return BuildLogger(debug)
}

// Named returns a child handle scoped to a component name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{l.SugaredLogger.Named(name)}
}

package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin key/value wrapper over a zap sugared logger.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// Options controls how New builds the underlying zap logger.
type Options struct {
	// Mode is "development" (console encoder) or "production" (JSON encoder).
	Mode string
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
}

// New builds a logger writing to stderr.
func New(opts Options) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(opts.Mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(opts.Level))
	if DebugEnabled() {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return FromZap(zap.NewNop())
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// DebugEnabled returns true if debug mode is enabled via the HB_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("HB_DEBUG") != ""
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, keysAndValues...)
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.SugaredLogger.Debugf(format, args...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, keysAndValues...)
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}

package logger

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the zap logger shared by every layer. Request handlers derive a
// scoped child with With and store it in the request context via NewContext.
type Logger struct {
	*zap.Logger
}

// Field is a structured log field.
type Field = zap.Field

type contextKey struct{}

// New builds a logger for level ("debug", "info", ...) and encoding
// ("console" for local runs, anything else means json).
func New(level, encoding string) (*Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	zapCfg := encoderConfig(encoding)
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)

	base, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{base}, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func encoderConfig(encoding string) zap.Config {
	if encoding == "console" {
		c := zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return c
	}

	c := zap.NewProductionConfig()
	c.Sampling = nil
	c.EncoderConfig.TimeKey = "ts"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	return c
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{zap.NewNop()}
}

func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l.Logger.With(fields...)}
}

// NewContext stores a request-scoped logger, typically one already carrying
// the session id, so the *Context methods pick it up downstream.
func NewContext(ctx context.Context, scoped *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, scoped)
}

// FromContext returns the request-scoped logger stored by NewContext, or l.
func (l *Logger) FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if scoped, ok := ctx.Value(contextKey{}).(*Logger); ok && scoped != nil {
		return scoped
	}
	return l
}

func (l *Logger) Debug(msg string, fields ...Field) { l.Logger.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.Logger.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.Logger.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.Logger.Error(msg, fields...) }

// Fatal logs and exits the process.
func (l *Logger) Fatal(msg string, fields ...Field) { l.Logger.Fatal(msg, fields...) }

func (l *Logger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.FromContext(ctx).Logger.Debug(msg, fields...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.FromContext(ctx).Logger.Info(msg, fields...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	l.FromContext(ctx).Logger.Warn(msg, fields...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.FromContext(ctx).Logger.Error(msg, fields...)
}

func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

func StringField(key, value string) Field                 { return zap.String(key, value) }
func IntField(key string, value int) Field                { return zap.Int(key, value) }
func UintField(key string, value uint) Field              { return zap.Uint(key, value) }
func DurationField(key string, value time.Duration) Field { return zap.Duration(key, value) }
func ErrorField(err error) Field                          { return zap.Error(err) }

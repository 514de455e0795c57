// Package logger provides a zap-based application logger whose entries carry
// the active trace ID so logs can be joined with traces.
package logger

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level sets the minimum level the logger emits.
type Level zapcore.Level

// Log levels.
const (
	LevelDebug = Level(zapcore.DebugLevel)
	LevelInfo  = Level(zapcore.InfoLevel)
	LevelWarn  = Level(zapcore.WarnLevel)
	LevelError = Level(zapcore.ErrorLevel)
)

// TraceIDFn resolves the trace ID for the given context.
type TraceIDFn func(ctx context.Context) string

// Logger writes structured JSON log lines.
type Logger struct {
	log       *zap.SugaredLogger
	traceIDFn TraceIDFn
}

// New constructs a Logger writing to w at the given level. traceIDFn may be
// nil, in which case entries carry no trace ID.
func New(w io.Writer, level Level, service string, traceIDFn TraceIDFn) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.AddSync(w),
		zapcore.Level(level),
	)
	log := zap.New(core).Sugar().With("service", service)
	return &Logger{log: log, traceIDFn: traceIDFn}
}

// NewStdout is a convenience constructor for the common case.
func NewStdout(level Level, service string, traceIDFn TraceIDFn) *Logger {
	return New(os.Stdout, level, service, traceIDFn)
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.write(ctx, l.log.Debugw, msg, keysAndValues)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.write(ctx, l.log.Infow, msg, keysAndValues)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	l.write(ctx, l.log.Warnw, msg, keysAndValues)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.write(ctx, l.log.Errorw, msg, keysAndValues)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.log.Sync()
}

func (l *Logger) write(ctx context.Context, fn func(string, ...any), msg string, keysAndValues []any) {
	if l.traceIDFn != nil {
		if id := l.traceIDFn(ctx); id != "" {
			keysAndValues = append(keysAndValues, "trace_id", id)
		}
	}
	fn(msg, keysAndValues...)
}

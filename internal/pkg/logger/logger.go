package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	global   *zap.SugaredLogger
	globalMx sync.RWMutex
)

func init() {
	global = zap.NewNop().Sugar()
}

// Init builds the process logger. level is one of debug, info, warn, error.
func Init(level string, development bool) error {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	SetLogger(l)
	return nil
}

func SetLogger(l *zap.Logger) {
	globalMx.Lock()
	defer globalMx.Unlock()
	global = l.Sugar()
}

func Sync() {
	_ = get(context.Background()).Sync()
}

// WithFields returns a context whose log lines carry the given key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	fields, _ := ctx.Value(ctxKey{}).([]any)
	merged := make([]any, 0, len(fields)+len(keysAndValues))
	merged = append(merged, fields...)
	merged = append(merged, keysAndValues...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func get(ctx context.Context) *zap.SugaredLogger {
	globalMx.RLock()
	l := global
	globalMx.RUnlock()

	if ctx == nil {
		return l
	}
	if fields, ok := ctx.Value(ctxKey{}).([]any); ok && len(fields) > 0 {
		return l.With(fields...)
	}
	return l
}

func Debugf(ctx context.Context, format string, args ...any) {
	get(ctx).Debugf(format, args...)
}

func Info(ctx context.Context, msg string) {
	get(ctx).Info(msg)
}

func Infof(ctx context.Context, format string, args ...any) {
	get(ctx).Infof(format, args...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...any) {
	get(ctx).Infow(msg, keysAndValues...)
}

func Warn(ctx context.Context, msg string) {
	get(ctx).Warn(msg)
}

func Warnf(ctx context.Context, format string, args ...any) {
	get(ctx).Warnf(format, args...)
}

func Warnw(ctx context.Context, msg string, keysAndValues ...any) {
	get(ctx).Warnw(msg, keysAndValues...)
}

func Error(ctx context.Context, msg string) {
	get(ctx).Error(msg)
}

func Errorf(ctx context.Context, format string, args ...any) {
	get(ctx).Errorf(format, args...)
}

func Fatal(ctx context.Context, args ...any) {
	get(ctx).Fatal(args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	get(ctx).Fatalf(format, args...)
}

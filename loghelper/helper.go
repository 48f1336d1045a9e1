// Package loghelper connects reports to slog and zap loggers.
package loghelper

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vovanec/report"
	"github.com/vovanec/report/internal"
)

// Attr parses log args and returns a either a single log attribute or unnamed group.
func Attr(args ...any) slog.Attr {

	var attrs []slog.Attr
	internal.ParseLogArgs(args, func(a slog.Attr) {
		attrs = append(attrs, a)
	})

	if len(attrs) < 1 {
		return slog.Attr{}
	} else if len(attrs) < 2 {
		return attrs[0]
	}

	return slog.Attr{
		Key:   "",
		Value: slog.GroupValue(attrs...),
	}
}

// Context returns a copy of parent context with attached log args.
func Context(ctx context.Context, args ...any) context.Context {
	return internal.ContextWithLogArgs(ctx, args...)
}

// ZapField returns err as a zap field. Reports, and errors wrapping one,
// are logged as an object carrying their attributes and causes.
func ZapField(err error) zap.Field {
	var r *report.Report
	if errors.As(err, &r) {
		return zap.Object("error", r)
	}
	return zap.Error(err)
}

type LogOption func(c *logConfig)

// WithLevel sets default logger log level.
func WithLevel(level slog.Level) LogOption {
	return func(c *logConfig) {
		c.level = level
	}
}

// WithOutput sets default logger log output.
func WithOutput(w io.Writer) LogOption {
	return func(c *logConfig) {
		c.output = w
	}
}

// InitLogging initializes default slog logger instance
// with info log level and stderr as a log output.
func InitLogging(opts ...LogOption) {
	conf := newLogConfig(opts)

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(conf.output, &slog.HandlerOptions{
				Level: conf.level,
			}),
		),
	)
}

// NewZapLogger builds a JSON zap logger from the same options as
// InitLogging.
func NewZapLogger(opts ...LogOption) *zap.Logger {
	conf := newLogConfig(opts)

	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(conf.output), zapLevel(conf.level))
	return zap.New(core)
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l < slog.LevelInfo:
		return zapcore.DebugLevel
	case l < slog.LevelWarn:
		return zapcore.InfoLevel
	case l < slog.LevelError:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

type logConfig struct {
	level  slog.Level
	output io.Writer
}

func newLogConfig(opts []LogOption) logConfig {
	conf := logConfig{
		level:  slog.LevelInfo,
		output: os.Stderr,
	}

	for _, opt := range opts {
		opt(&conf)
	}
	return conf
}

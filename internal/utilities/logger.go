package utilities

import (
	"context"
	"strings"

	"github.com/antonio-alexander/go-employee-manager/internal"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level int

const (
	Error Level = 1
	Info  Level = 2
	Debug Level = 3
	Trace Level = 4
)

func (l Level) String() string {
	switch l {
	default:
		return ""
	case Error:
		return "error"
	case Info:
		return "info"
	case Debug:
		return "debug"
	case Trace:
		return "trace"
	}
}

type Logger interface {
	Error(ctx context.Context, format string, v ...any)
	Info(ctx context.Context, format string, v ...any)
	Debug(ctx context.Context, format string, v ...any)
	Trace(ctx context.Context, format string, v ...any)
}

type logger struct {
	zapLogger *zap.SugaredLogger
	config    struct {
		level  Level
		prefix string
	}
}

func atoLogLevel(a string) Level {
	switch strings.ToLower(a) {
	default:
		return Error
	case "info":
		return Info
	case "debug":
		return Debug
	case "trace":
		return Trace
	}
}

func NewLogger() interface {
	internal.Configurer
	internal.Closer
	Logger
} {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	//levels are gated here rather than in zap so trace can exist
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.DisableCaller = true
	zapLogger, err := config.Build()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	l := &logger{zapLogger: zapLogger.Sugar()}
	l.config.level = Error
	return l
}

func (l *logger) log(ctx context.Context) *zap.SugaredLogger {
	zapLogger := l.zapLogger
	if l.config.prefix != "" {
		zapLogger = zapLogger.Named(l.config.prefix)
	}
	if correlationId := internal.CorrelationIdFromCtx(ctx); correlationId != "" {
		zapLogger = zapLogger.With("correlation_id", correlationId)
	}
	return zapLogger
}

func (l *logger) Configure(envs map[string]string) error {
	l.config.level = Error
	if logLevel, ok := envs["LOG_LEVEL"]; ok {
		l.config.level = atoLogLevel(logLevel)
	}
	if logPrefix, ok := envs["LOG_PREFIX"]; ok {
		l.config.prefix = logPrefix
	}
	return nil
}

func (l *logger) Close(ctx context.Context) error {
	//stdout sync failures aren't actionable
	_ = l.zapLogger.Sync()
	return nil
}

func (l *logger) Error(ctx context.Context, format string, v ...any) {
	if l.config.level < Error {
		return
	}
	l.log(ctx).Errorf(format, v...)
}

func (l *logger) Info(ctx context.Context, format string, v ...any) {
	if l.config.level < Info {
		return
	}
	l.log(ctx).Infof(format, v...)
}

func (l *logger) Debug(ctx context.Context, format string, v ...any) {
	if l.config.level < Debug {
		return
	}
	l.log(ctx).Debugf(format, v...)
}

func (l *logger) Trace(ctx context.Context, format string, v ...any) {
	if l.config.level < Trace {
		return
	}
	l.log(ctx).Debugf(format, v...)
}

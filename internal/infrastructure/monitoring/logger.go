// Package monitoring provides the zap logger, Prometheus batch metrics,
// and the OpenTelemetry tracing setup.
package monitoring

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aera-platform/riskengine/internal/config"
	"github.com/aera-platform/riskengine/pkg/constants"
	"github.com/aera-platform/riskengine/pkg/logger"
)

type zapLogger struct {
	*zap.Logger
}

// NewZapLogger builds the JSON logger writing to stdout. An unknown level
// string falls back to info.
func NewZapLogger(cfg *config.LogConfig) (logger.Logger, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	return &zapLogger{zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))}, nil
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...logger.Fields) {
	l.Logger.Debug(msg, l.convertFields(ctx, fields...)...)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...logger.Fields) {
	l.Logger.Info(msg, l.convertFields(ctx, fields...)...)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...logger.Fields) {
	l.Logger.Warn(msg, l.convertFields(ctx, fields...)...)
}

func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...logger.Fields) {
	allFields := append(fields, logger.Fields{"error": err})
	l.Logger.Error(msg, l.convertFields(ctx, allFields...)...)
}

func (l *zapLogger) WithFields(fields logger.Fields) logger.Logger {
	return &zapLogger{l.Logger.With(l.convertFields(context.Background(), fields)...)}
}

func (l *zapLogger) WithComponent(component string) logger.Logger {
	return &zapLogger{l.Logger.With(zap.String("component", component))}
}

func (l *zapLogger) convertFields(ctx context.Context, fields ...logger.Fields) []zap.Field {
	zapFields := make([]zap.Field, 0)
	if runID, ok := ctx.Value(constants.ContextKeyRunID).(string); ok {
		zapFields = append(zapFields, zap.String("run_id", runID))
	}

	for _, f := range fields {
		for k, v := range f {
			zapFields = append(zapFields, zap.Any(k, v))
		}
	}
	return zapFields
}

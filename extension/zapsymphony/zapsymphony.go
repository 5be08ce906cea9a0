// Package zapsymphony integrates go.uber.org/zap with the mediator: a
// logger.Logger adapter for engine diagnostics and a pipeline behavior
// logging every request dispatch.
package zapsymphony

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jarviisha/symphony"
	"github.com/jarviisha/symphony/logger"
)

var _ logger.Logger = &Logger{}

// Logger is a zap wrapper that implements the symphony logger.Logger
// interface.
type Logger zap.Logger

// Wrap wraps a zap.Logger into a zapsymphony.Logger instance.
func Wrap(l *zap.Logger) *Logger {
	return (*Logger)(l)
}

func adaptFields(fields []logger.Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))

	for _, field := range fields {
		zapFields = append(zapFields, zap.Any(field.Key, field.Value))
	}

	return zapFields
}

// Debug prints a debug log message.
func (l *Logger) Debug(msg string, fields ...logger.Field) {
	(*zap.Logger)(l).Debug(msg, adaptFields(fields)...)
}

// Info prints an info log message.
func (l *Logger) Info(msg string, fields ...logger.Field) {
	(*zap.Logger)(l).Info(msg, adaptFields(fields)...)
}

// Error prints an error log message.
func (l *Logger) Error(msg string, fields ...logger.Field) {
	(*zap.Logger)(l).Error(msg, adaptFields(fields)...)
}

var _ symphony.Pipeline = Behavior{}

// Behavior is an untyped pipeline stage logging the type, duration and
// outcome of every request dispatched through it.
type Behavior struct {
	Log *zap.Logger
}

// Handle implements symphony.Pipeline.
func (b Behavior) Handle(ctx context.Context, req any, next symphony.Next[any]) (any, error) {
	start := time.Now()

	response, err := next(ctx)
	elapsed := time.Since(start)

	if err != nil {
		b.Log.Error("request failed",
			zap.String("request", fmt.Sprintf("%T", req)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)

		return nil, err
	}

	b.Log.Debug("request handled",
		zap.String("request", fmt.Sprintf("%T", req)),
		zap.Duration("elapsed", elapsed),
	)

	return response, nil
}

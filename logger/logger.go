// Package logger defines the minimal structured logging contract consumed by
// the dispatcher. Adapters for concrete logging backends live under the
// extension packages.
package logger

// Field is a structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// With builds a Field in a functional way.
func With(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is a structured logger capable of reporting the execution of a
// component at various levels.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Debug delegates the debug log call to the provided logger, if not nil.
func Debug(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Debug(msg, fields...)
	}
}

// Info delegates the info log call to the provided logger, if not nil.
func Info(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Info(msg, fields...)
	}
}

// Error delegates the error log call to the provided logger, if not nil.
func Error(l Logger, msg string, fields ...Field) {
	if l != nil {
		l.Error(msg, fields...)
	}
}

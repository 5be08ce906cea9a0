package logger

import "testing"

var _ Logger = Test{}

// Test is a Logger implementation backed by a testing.T instance.
type Test struct{ t *testing.T }

// NewTest returns a new logger using the provided testing.T instance.
func NewTest(t *testing.T) Test {
	return Test{t: t}
}

// Debug uses t.Logf to print a debug message.
func (l Test) Debug(msg string, fields ...Field) {
	l.t.Logf("[debug] %s %+v", msg, fields)
}

// Info uses t.Logf to print an info message.
func (l Test) Info(msg string, fields ...Field) {
	l.t.Logf("[info] %s %+v", msg, fields)
}

// Error uses t.Logf to print an error message.
func (l Test) Error(msg string, fields ...Field) {
	l.t.Logf("[error] %s %+v", msg, fields)
}

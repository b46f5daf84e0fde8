package log

import "github.com/bft-labs/docship/internal/ports"

// NoopLogger drops every entry. Tests use it where log output is irrelevant.
type NoopLogger struct{}

var _ ports.Logger = NoopLogger{}

// NewNoopLogger returns a logger that writes nothing.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(string, ...ports.Field) {}
func (NoopLogger) Info(string, ...ports.Field)  {}
func (NoopLogger) Warn(string, ...ports.Field)  {}
func (NoopLogger) Error(string, ...ports.Field) {}

package logger

import (
	"context"
)

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	// With 返回带固定字段的日志器
	With(args ...any) Logger
	// WithGroup 返回把后续字段归入 name 分组的日志器
	WithGroup(name string) Logger
}

// nopLogger 丢弃所有日志
type nopLogger struct{}

// Nop 返回一个丢弃所有日志的 Logger
func Nop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any)                         {}
func (nopLogger) Info(string, ...any)                          {}
func (nopLogger) Warn(string, ...any)                          {}
func (nopLogger) Error(string, ...any)                         {}
func (nopLogger) DebugContext(context.Context, string, ...any) {}
func (nopLogger) InfoContext(context.Context, string, ...any)  {}
func (nopLogger) WarnContext(context.Context, string, ...any)  {}
func (nopLogger) ErrorContext(context.Context, string, ...any) {}
func (n nopLogger) With(...any) Logger                         { return n }
func (n nopLogger) WithGroup(string) Logger                    { return n }

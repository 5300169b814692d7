package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// NewZerolog returns a Logger that writes through a zerolog.Logger. The
// command-line tool uses it for its console and JSON output.
func NewZerolog(zl zerolog.Logger) Logger {
	return &zeroLogger{zl: zl}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.emit(l.zl.Debug(), msg, args)
}

func (l *zeroLogger) Info(ctx context.Context, msg string, args ...any) {
	l.emit(l.zl.Info(), msg, args)
}

func (l *zeroLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.emit(l.zl.Warn(), msg, args)
}

func (l *zeroLogger) Error(ctx context.Context, msg string, args ...any) {
	l.emit(l.zl.Error(), msg, args)
}

func (l *zeroLogger) With(args ...any) Logger {
	return &zeroLogger{zl: l.zl.With().Fields(pairs(args)).Logger()}
}

func (l *zeroLogger) emit(e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	e.Fields(pairs(args)).Msg(msg)
}

// pairs flattens slog-style arguments (alternating key/value, or slog.Attr)
// into the key/value slice zerolog accepts.
func pairs(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		switch a := args[i].(type) {
		case slog.Attr:
			out = append(out, a.Key, a.Value.Resolve().Any())
		case string:
			if i+1 < len(args) {
				out = append(out, a, args[i+1])
				i++
			} else {
				out = append(out, "!BADKEY", a)
			}
		default:
			out = append(out, "!BADKEY", a)
		}
	}
	return out
}

package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogFile is where the JSON log stream goes unless overridden.
const DefaultLogFile = "/var/log/webapp.log"

// Options configures New.
type Options struct {
	// Console receives human-readable output. Defaults to os.Stdout.
	Console io.Writer
	// File is the path of the JSON log file. Empty disables file output.
	File  string
	Level zerolog.Level
}

type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps an already configured zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// New builds a logger writing to the console and, if possible, to opts.File.
// The returned closer releases the file; it is never nil.
// A file that cannot be opened is reported through the console logger
// instead of failing startup.
func New(opts Options) (*ZerologLogger, io.Closer) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}

	var (
		closer  io.Closer = nopCloser{}
		fileErr error
	)
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fileErr = err
		} else {
			writers = append(writers, f)
			closer = f
		}
	}

	l := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(opts.Level).
		With().Timestamp().Logger()

	logger := NewZerologLogger(l)
	if fileErr != nil {
		logger.Warn(context.Background(), "log file unavailable, logging to console only",
			"file", opts.File, "error", fileErr)
	}
	return logger, closer
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.write(ctx, z.l.Debug(), msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.write(ctx, z.l.Info(), msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.write(ctx, z.l.Warn(), msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.write(ctx, z.l.Error(), msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(pairs(args)).Logger()}
}

func (z *ZerologLogger) write(ctx context.Context, e *zerolog.Event, msg string, args []any) {
	if e == nil {
		return
	}
	e.Ctx(ctx).Fields(pairs(args)).Msg(msg)
}

// pairs turns k1, v1, k2, v2 into a map. A dangling key is kept under
// "!BADKEY" the same way slog reports it.
func pairs(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		if err, ok := args[i+1].(error); ok {
			fields[key] = err.Error()
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

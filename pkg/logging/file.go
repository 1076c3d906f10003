package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 7
)

// NewRotatingWriter returns a size-rotated log file writer.
func NewRotatingWriter(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
	}
}

// Setup installs the default logger: colored CLI output on stderr and,
// when logFile is set, JSON records in a rotating file. The returned
// closer releases the file and is never nil.
func Setup(level, logFile string) io.Closer {
	return setup(os.Stderr, level, logFile)
}

func setup(console io.Writer, level, logFile string) io.Closer {
	lev := ParseLogLevel(level)
	cli := NewCLIHandler(console, lev)
	if logFile == "" {
		slog.SetDefault(slog.New(cli))
		return nopCloser{}
	}

	w := NewRotatingWriter(logFile)
	file := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lev})
	slog.SetDefault(slog.New(NewFanoutHandler(cli, file)))
	return w
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FanoutHandler sends each record to every handler that accepts its level.
type FanoutHandler struct {
	handlers []slog.Handler
}

func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: handlers}
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, x := range h.handlers {
		if x.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, x := range h.handlers {
		if !x.Enabled(ctx, r.Level) {
			continue
		}
		if err := x.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	list := make([]slog.Handler, len(h.handlers))
	for i, x := range h.handlers {
		list[i] = x.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: list}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	list := make([]slog.Handler, len(h.handlers))
	for i, x := range h.handlers {
		list[i] = x.WithGroup(name)
	}
	return &FanoutHandler{handlers: list}
}

package cli

import (
	"io"
	"log/slog"
)

// newLogger returns a text logger writing to w, at debug level when verbose.
// It also becomes the process default so library code using slog follows
// the same settings.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

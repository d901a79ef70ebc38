package logger

import (
	"io"
	"log/slog"
	"path/filepath"
)

type Format string

const (
	TextFormat Format = "text"
	JsonFormat Format = "json"
)

type Options struct {
	Level  slog.Level
	Format Format
	// AddSource adds the file and line of the log call, trimmed to the file name.
	AddSource bool
}

// New creates a slog logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}

	if opts.Format == JsonFormat {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

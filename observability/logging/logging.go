package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// New builds a structured JSON logger writing to w. All log lines carry the
// service name and, when provided, the environment. It has no global side
// effects; Setup installs the result as the process default.
func New(w io.Writer, service, env string) *slog.Logger {
	handler := newHandler(w)
	return slog.New(handler.WithAttrs(serviceAttrs(service, env)))
}

// Setup configures the standard library logger to emit structured JSON and
// returns the slog.Logger for richer logging within the node.
func Setup(service, env string) *slog.Logger {
	handler := newHandler(os.Stdout)
	attrs := serviceAttrs(service, env)

	withArgs := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		withArgs = append(withArgs, attr)
	}

	base := slog.New(handler).With(withArgs...)
	slog.SetDefault(base)

	// Bridge the standard library logger so existing packages keep working.
	stdBridge := slog.NewLogLogger(handler.WithAttrs(attrs), slog.LevelInfo)
	stdBridge.SetFlags(0)
	log.SetOutput(stdBridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base
}

func newHandler(w io.Writer) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			case slog.LevelKey:
				return slog.String("severity", strings.ToUpper(attr.Value.String()))
			case slog.MessageKey:
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})
}

func serviceAttrs(service, env string) []slog.Attr {
	attrs := []slog.Attr{slog.String("service", strings.TrimSpace(service))}
	if env = strings.TrimSpace(env); env != "" {
		attrs = append(attrs, slog.String("env", env))
	}
	return attrs
}

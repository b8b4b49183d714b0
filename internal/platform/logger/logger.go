package logger

import (
	"log/slog"
	"os"
)

// New returns a text slog logger tagged with the service name.
func New(service string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil)).With("service", service)
}

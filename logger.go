package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// nopCloser is a closer without resources to release.
type nopCloser struct{}

// Close implements the io.Closer interface.
func (nopCloser) Close() error { return nil }

// newLogger creates the root service logger writing to the terminal and, when a
// filepath is provided, to the log file as well. The returned closer releases the log file.
func newLogger(level string, filepath string, terminal io.Writer) (zerolog.Logger, io.Closer, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("parsing log level: %w", err)
		}
		lvl = parsed
	}

	console := zerolog.ConsoleWriter{Out: terminal, TimeFormat: time.RFC3339}
	var writer io.Writer = console
	var closer io.Closer = nopCloser{}

	if filepath != "" {
		file, err := os.OpenFile(filepath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("opening log file: %w", err)
		}
		writer = zerolog.MultiLevelWriter(console, file)
		closer = file
	}

	logger := zerolog.New(writer).Level(lvl).With().Timestamp().
		Str("service", "setupwatch").Logger()

	return logger, closer, nil
}

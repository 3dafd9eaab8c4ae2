// Package logging builds the process logger: leveled text output on the
// console plus an optional rotated file under the configured log directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level      string
	Dir        string
	MaxAgeDays int
	// Console defaults to os.Stdout.
	Console io.Writer
}

// New returns a logger writing to the console and, when Dir is set, to
// Dir/application.log. Rotated files are compressed and pruned after MaxAgeDays.
// The returned closer closes the file sink.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}
	logger.SetLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	if opts.Dir == "" {
		logger.SetOutput(console)
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename: filepath.Join(opts.Dir, "application.log"),
		MaxSize:  100, // megabytes
		MaxAge:   opts.MaxAgeDays,
		Compress: true,
	}
	logger.SetOutput(io.MultiWriter(console, file))
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package logger provides the process-wide structured logger. Output goes
// to a rotating file under the workspace home; verbose mode mirrors it to
// stderr with console formatting.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.Mutex
	log    = zerolog.New(io.Discard)
	sink   *lumberjack.Logger
	writer io.Writer = io.Discard
)

// Init initializes the global logger with the specified log file path.
func Init(logPath string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	if sink != nil {
		sink.Close()
	}

	sink = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	}

	writer = sink
	if verbose {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		writer = zerolog.MultiLevelWriter(sink, console)
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(writer).Level(level).With().Timestamp().Logger()

	return nil
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if sink != nil {
		sink.Close()
		sink = nil
	}
	writer = io.Discard
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

// GetWriter returns the underlying writer for subprocess output.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return writer
}

// Package logger provides leveled printf-style logging for the pipeline.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls which messages are emitted.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var (
	mu       sync.Mutex
	level    = LevelInfo
	out      io.Writer = os.Stderr
	logFile  *os.File
	baseLog  = log.New(os.Stderr, "", log.LstdFlags)
	levelTag = map[Level]string{
		LevelTrace: "TRACE",
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		LevelFatal: "FATAL",
	}
)

// ParseLevel converts a level name into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}

// SetLevel sets the minimum emitted level.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetLogFile mirrors log output to the given file in addition to stderr.
func SetLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	out = io.MultiWriter(os.Stderr, f)
	baseLog.SetOutput(out)
	return nil
}

// Close releases the log file sink if one was set.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		out = os.Stderr
		baseLog.SetOutput(out)
	}
}

func emit(l Level, format string, args ...any) {
	mu.Lock()
	min := level
	mu.Unlock()
	if l < min {
		return
	}
	baseLog.Printf("[%s] %s", levelTag[l], fmt.Sprintf(format, args...))
}

func Trace(format string, args ...any) { emit(LevelTrace, format, args...) }
func Debug(format string, args ...any) { emit(LevelDebug, format, args...) }
func Info(format string, args ...any)  { emit(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { emit(LevelWarn, format, args...) }
func Error(format string, args ...any) { emit(LevelError, format, args...) }

// Fatal logs and exits.
func Fatal(format string, args ...any) {
	emit(LevelFatal, format, args...)
	os.Exit(1)
}

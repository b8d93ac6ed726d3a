// Package logging provides the client's leveled logger. The TUI owns the
// terminal, so log output goes to a rotating file instead of stdout.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging surface used across the client.
type Logger interface {
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
}

// Options tune the rotating file sink.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	Debug      bool
}

type stdLogger struct {
	errorLogger *log.Logger
	warnLogger  *log.Logger
	infoLogger  *log.Logger
	debugLogger *log.Logger
}

// New opens a rotating log file at opt.Path. Close the returned closer on exit.
func New(opt Options) (Logger, io.Closer, error) {
	if opt.Path == "" {
		return nil, nil, fmt.Errorf("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("mkdir: %w", err)
	}
	if opt.MaxSizeMB <= 0 {
		opt.MaxSizeMB = 5
	}
	if opt.MaxBackups <= 0 {
		opt.MaxBackups = 3
	}
	w := &lumberjack.Logger{
		Filename:   opt.Path,
		MaxSize:    opt.MaxSizeMB,
		MaxBackups: opt.MaxBackups,
		Compress:   true,
	}
	return NewWriter(w, opt.Debug), w, nil
}

// NewWriter logs to w. Debug lines are dropped unless debug is set.
func NewWriter(w io.Writer, debug bool) Logger {
	dw := io.Discard
	if debug {
		dw = w
	}
	flags := log.LstdFlags | log.Lshortfile
	return &stdLogger{
		errorLogger: log.New(w, "[ERROR] ", flags),
		warnLogger:  log.New(w, "[WARN] ", flags),
		infoLogger:  log.New(w, "[INFO] ", flags),
		debugLogger: log.New(dw, "[DEBUG] ", flags),
	}
}

// Nop discards everything.
func Nop() Logger { return NewWriter(io.Discard, false) }

func (l *stdLogger) Error(args ...interface{}) { l.errorLogger.Output(2, fmt.Sprint(args...)) }
func (l *stdLogger) Errorf(format string, args ...interface{}) {
	l.errorLogger.Output(2, fmt.Sprintf(format, args...))
}
func (l *stdLogger) Warn(args ...interface{}) { l.warnLogger.Output(2, fmt.Sprint(args...)) }
func (l *stdLogger) Warnf(format string, args ...interface{}) {
	l.warnLogger.Output(2, fmt.Sprintf(format, args...))
}
func (l *stdLogger) Info(args ...interface{}) { l.infoLogger.Output(2, fmt.Sprint(args...)) }
func (l *stdLogger) Infof(format string, args ...interface{}) {
	l.infoLogger.Output(2, fmt.Sprintf(format, args...))
}
func (l *stdLogger) Debug(args ...interface{}) { l.debugLogger.Output(2, fmt.Sprint(args...)) }
func (l *stdLogger) Debugf(format string, args ...interface{}) {
	l.debugLogger.Output(2, fmt.Sprintf(format, args...))
}

// Package logging provides leveled, component-tagged logging to a rotating
// file, optionally echoed to the console.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Nomadcxx/jellyctl/internal/paths"
)

// Level represents a logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Config holds logger configuration
type Config struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`

	// Console receives a copy of every line when set. The interactive
	// commands leave it nil so prompts stay readable.
	Console io.Writer `mapstructure:"-"`
}

// Logger writes log lines to a size-rotated file.
type Logger struct {
	level      Level
	mu         sync.Mutex
	file       *os.File
	filePath   string
	maxSize    int64
	maxBackups int
	console    io.Writer
	now        func() time.Time
}

// New creates a Logger. An empty File resolves to the default log location
// under the jellyctl config directory.
func New(cfg Config) (*Logger, error) {
	l := &Logger{
		level:      ParseLevel(cfg.Level),
		maxSize:    int64(cfg.MaxSizeMB) * 1024 * 1024,
		maxBackups: cfg.MaxBackups,
		console:    cfg.Console,
		now:        time.Now,
	}
	if l.maxSize <= 0 {
		l.maxSize = 10 * 1024 * 1024
	}
	if l.maxBackups <= 0 {
		l.maxBackups = 5
	}

	file := cfg.File
	if file == "" {
		dir, err := paths.LogDir()
		if err != nil {
			return nil, fmt.Errorf("unable to resolve log dir: %w", err)
		}
		file = filepath.Join(dir, "jellyctl.log")
	}
	if strings.HasPrefix(file, "~") {
		home, err := paths.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("unable to get home dir: %w", err)
		}
		file = filepath.Join(home, file[1:])
	}
	l.filePath = file

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	if err := l.openFile(); err != nil {
		return nil, err
	}

	return l, nil
}

func (l *Logger) openFile() error {
	f, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	l.file = f
	return nil
}

func (l *Logger) rotateIfNeeded() error {
	if l.file == nil {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxSize {
		return nil
	}

	l.file.Close()
	l.file = nil
	if err := rotateFiles(l.filePath, l.maxBackups); err != nil {
		return err
	}
	return l.openFile()
}

func (l *Logger) log(level Level, component, msg string, err error, fields ...Field) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if rotErr := l.rotateIfNeeded(); rotErr != nil {
		fmt.Fprintf(os.Stderr, "log rotation error: %v\n", rotErr)
	}

	var sb strings.Builder
	sb.WriteString(l.now().Format(time.RFC3339))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] [")
	sb.WriteString(component)
	sb.WriteString("] ")
	sb.WriteString(msg)
	if err != nil {
		sb.WriteString(" | error=")
		sb.WriteString(err.Error())
	}
	for _, f := range fields {
		fmt.Fprintf(&sb, " | %s=%v", f.Key, f.Value)
	}
	sb.WriteString("\n")
	line := sb.String()

	if l.file != nil {
		l.file.WriteString(line)
	}
	if l.console != nil {
		io.WriteString(l.console, line)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(component, msg string, fields ...Field) {
	l.log(LevelDebug, component, msg, nil, fields...)
}

// Info logs an info message
func (l *Logger) Info(component, msg string, fields ...Field) {
	l.log(LevelInfo, component, msg, nil, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, msg string, fields ...Field) {
	l.log(LevelWarn, component, msg, nil, fields...)
}

// Error logs an error message with an error
func (l *Logger) Error(component, msg string, err error, fields ...Field) {
	l.log(LevelError, component, msg, err, fields...)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// FilePath returns the log file path
func (l *Logger) FilePath() string {
	return l.filePath
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{level: LevelError + 1, now: time.Now}
}

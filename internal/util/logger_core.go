package util

import (
	"fmt"
	"log"
	"maps"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel orders log severities; a logger drops entries below its level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel maps a config string to a level. Unknown names mean info.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Field is one structured key/value attached to an entry
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogFormat selects how outputs render entries
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// LogEntry is what outputs receive
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Output is a log sink
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LoggerInterface is the logging surface used across the module
type LoggerInterface interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(format string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(format string, args ...interface{})
	With(fields ...Field) LoggerInterface
	SetLevel(level LogLevel)
	AddOutput(output Output)
	Close() error
}

// Logger fans entries out to its outputs. Loggers made by With share the
// parent's outputs and carry extra fields.
type Logger struct {
	mu      sync.RWMutex
	level   LogLevel
	outputs []Output
	fields  map[string]interface{}
}

// NewLogger builds a logger for logFile. debugToConsole adds a stderr output.
// A logger with no outputs discards everything.
func NewLogger(level, logFile string, format LogFormat, debugToConsole bool) (*Logger, error) {
	l := &Logger{level: ParseLogLevel(level), fields: map[string]interface{}{}}

	if debugToConsole {
		l.AddOutput(NewConsoleOutput(os.Stderr, format))
	}
	if logFile == "" {
		return l, nil
	}

	out, err := NewFileOutput(logFile, format)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	l.AddOutput(out)
	return l, nil
}

func (l *Logger) emit(level LogLevel, msg string, fields []Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level || len(l.outputs) == 0 {
		return
	}

	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = make(map[string]interface{}, len(fields))
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	entry := LogEntry{Timestamp: time.Now(), Level: level.String(), Message: msg, Fields: merged}
	for _, out := range l.outputs {
		if err := out.Write(entry); err != nil {
			log.Printf("log output failed: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.emit(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.emit(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.emit(LevelError, msg, fields) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.emit(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.emit(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(LevelError, fmt.Sprintf(format, args...), nil)
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields ...Field) LoggerInterface {
	l.mu.RLock()
	defer l.mu.RUnlock()

	child := &Logger{
		level:   l.level,
		outputs: l.outputs,
		fields:  make(map[string]interface{}, len(l.fields)+len(fields)),
	}
	maps.Copy(child.fields, l.fields)
	for _, f := range fields {
		child.fields[f.Key] = f.Value
	}
	return child
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) AddOutput(output Output) {
	l.mu.Lock()
	l.outputs = append(l.outputs, output)
	l.mu.Unlock()
}

// Close closes and detaches every output and returns the first error
func (l *Logger) Close() error {
	l.mu.Lock()
	outputs := l.outputs
	l.outputs = nil
	l.mu.Unlock()

	var first error
	for _, out := range outputs {
		if err := out.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

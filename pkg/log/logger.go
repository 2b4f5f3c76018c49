// Package log wraps go-logging with named loggers sharing one leveled backend.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is the minimum severity a logger emits.
type Level int

// The levels that can be passed to SetLevel.
const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[Level]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Error:   "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel maps a level name such as "debug" or "WARNING" to a Level.
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for level, levelName := range levelNames {
		if levelName == name {
			return level, nil
		}
	}
	return Notice, fmt.Errorf("log: unknown level %q", name)
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var plainFormat = logging.MustStringFormatter(
	`[%{time:15:04:05.000}] [%{module}] [%{level}] %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is the subset of go-logging used by the renderer.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger. The name shows up as the module column.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink redirects all loggers to sink. Terminals get colored output.
func SetSink(sink io.Writer) {
	formatter := plainFormat
	if f, ok := sink.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
		formatter = format
	}

	mu.Lock()
	defer mu.Unlock()

	backend := logging.NewLogBackend(sink, "", 0)
	leveledBackend = logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveledBackend.SetLevel(toBackendLevel(currentLevel), "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity of every logger.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()

	currentLevel = level
	leveledBackend.SetLevel(toBackendLevel(level), "")
}

// GetLevel returns the current verbosity.
func GetLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

func toBackendLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
	SetLevel(Notice)
}

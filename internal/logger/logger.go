package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var (
	levelNames = map[Level]string{
		DEBUG: "DEBUG",
		INFO:  "INFO",
		WARN:  "WARN",
		ERROR: "ERROR",
		FATAL: "FATAL",
	}

	levelColors = map[Level]string{
		DEBUG: "\033[36m", // Cyan
		INFO:  "\033[32m", // Green
		WARN:  "\033[33m", // Yellow
		ERROR: "\033[31m", // Red
		FATAL: "\033[35m", // Magenta
	}

	reset = "\033[0m"
	gray  = "\033[90m"
)

// Config controls how a Logger renders lines. The zero value writes every
// level, uncolored, to stdout.
type Config struct {
	Level  Level
	Colors bool
	Out    io.Writer
}

type Logger struct {
	level     Level
	out       io.Writer
	mu        *sync.Mutex
	service   string
	fields    map[string]string
	useColors bool
	showTime  bool
	exit      func(int)
}

// New builds a logger for service using LOG_LEVEL and LOG_COLORS from the
// environment.
func New(service string) *Logger {
	return NewWithConfig(service, Config{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Colors: os.Getenv("LOG_COLORS") != "false",
	})
}

func NewWithConfig(service string, cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	return &Logger{
		level:     cfg.Level,
		out:       out,
		mu:        &sync.Mutex{},
		service:   service,
		useColors: cfg.Colors,
		showTime:  true,
		exit:      os.Exit,
	}
}

// ParseLevel maps a level name to a Level. Unknown names resolve to INFO.
func ParseLevel(name string) Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Named returns a child logger tagged with a different service name that
// shares the parent's output and settings.
func (l *Logger) Named(service string) *Logger {
	child := *l
	child.service = service
	return &child
}

// With returns a child logger that appends key=value to every line.
func (l *Logger) With(key, value string) *Logger {
	child := *l
	child.fields = make(map[string]string, len(l.fields)+1)
	for k, v := range l.fields {
		child.fields[k] = v
	}
	child.fields[key] = value
	return &child
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	var buf strings.Builder

	if l.showTime {
		buf.WriteString(time.Now().Format("15:04:05"))
		buf.WriteString(" ")
	}

	if l.useColors {
		buf.WriteString(levelColors[level])
	}
	buf.WriteString(fmt.Sprintf("%-5s", levelNames[level]))
	if l.useColors {
		buf.WriteString(reset)
	}
	buf.WriteString(" ")

	if l.service != "" {
		if l.useColors {
			buf.WriteString(gray)
		}
		buf.WriteString("[")
		buf.WriteString(l.service)
		buf.WriteString("]")
		if l.useColors {
			buf.WriteString(reset)
		}
		buf.WriteString(" ")
	}

	buf.WriteString(fmt.Sprintf(format, args...))

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteString(" ")
			buf.WriteString(k)
			buf.WriteString("=")
			buf.WriteString(l.fields[k])
		}
	}

	l.mu.Lock()
	fmt.Fprintln(l.out, buf.String())
	l.mu.Unlock()

	if level == FATAL {
		l.exit(1)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}

// SetStdLog redirects standard log package to use this logger
func (l *Logger) SetStdLog() {
	log.SetOutput(&stdLogWriter{logger: l, level: INFO})
	log.SetFlags(0)
}

// StdLogger adapts l for APIs that want a *log.Logger, such as
// http.Server.ErrorLog.
func (l *Logger) StdLogger(level Level) *log.Logger {
	return log.New(&stdLogWriter{logger: l, level: level}, "", 0)
}

type stdLogWriter struct {
	logger *Logger
	level  Level
}

func (w *stdLogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	w.logger.log(w.level, "%s", msg)
	return len(p), nil
}

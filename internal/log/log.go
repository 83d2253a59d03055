// Package log writes leveled, categorized debug logs for advcomment.
// Nothing is written until Init, InitWithTeaLog or InitWriter is called;
// the CLI does that when --debug or ADVCOMMENT_DEBUG is set.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel converts a level name such as "warn" to a Level.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(name, n) {
			return Level(i), nil
		}
	}
	return LevelDebug, fmt.Errorf("unknown log level %q (must be debug, info, warn, or error)", name)
}

// Category groups related log messages.
type Category string

const (
	CatToggle    Category = "toggle"
	CatBlock     Category = "block"
	CatSelection Category = "selection"
	CatTrim      Category = "trim"
	CatConfig    Category = "config"
	CatWatcher   Category = "watcher"
	CatCache     Category = "cache" // section index
	CatUI        Category = "ui"    // playground
	CatEvents    Category = "events"
)

type logger struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel Level
}

var (
	mu     sync.RWMutex
	active *logger
)

func install(w io.Writer) {
	mu.Lock()
	active = &logger{w: w, minLevel: LevelDebug}
	mu.Unlock()
}

// Init appends log entries to the file at path. The returned func closes it.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user-chosen debug log path
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	install(f)
	return func() { _ = f.Close() }, nil
}

// InitWithTeaLog opens path through tea.LogToFile so Bubble Tea's own
// output lands in the same file.
func InitWithTeaLog(path string, prefix string) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, err
	}
	install(f)
	return func() { _ = f.Close() }, nil
}

// InitWriter sends log entries to w.
func InitWriter(w io.Writer) { install(w) }

// Reset stops logging.
func Reset() {
	mu.Lock()
	active = nil
	mu.Unlock()
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	mu.RLock()
	l := active
	mu.RUnlock()
	if l == nil {
		return
	}
	l.mu.Lock()
	l.minLevel = level
	l.mu.Unlock()
}

func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }

func Info(cat Category, msg string, fields ...any) { write(LevelInfo, cat, msg, fields) }

func Warn(cat Category, msg string, fields ...any) { write(LevelWarn, cat, msg, fields) }

func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs at error level with err appended as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	text := "<nil>"
	if err != nil {
		text = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", text))
}

// write formats one entry as
//
//	2006-01-02T15:04:05 [LEVEL] [category] message k=v k2=v2
func write(level Level, cat Category, msg string, fields []any) {
	mu.RLock()
	l := active
	mu.RUnlock()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.minLevel {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", time.Now().Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i < len(fields); i += 2 {
		if i+1 == len(fields) {
			fmt.Fprintf(&b, " %v=<missing>", fields[i])
			break
		}
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	b.WriteByte('\n')
	_, _ = io.WriteString(l.w, b.String())
}

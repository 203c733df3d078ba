// Package logging is the shared structured logger used by the opc, schema and
// drawingml packages.
package logging

import (
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// LevelOff silences a logger entirely.
const LevelOff = log.Level(math.MaxInt32)

type Fields map[string]any

var (
	globalLogger *log.Logger
	globalMu     sync.RWMutex
)

func init() {
	globalLogger = New(os.Stderr, log.InfoLevel)
}

// ParseLevel maps a configuration string to a level. Unknown values fall back to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "off", "none":
		return LevelOff
	default:
		return log.InfoLevel
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error", "off", "none":
		return true
	}
	return false
}

func New(w io.Writer, level log.Level) *log.Logger {
	if w == nil {
		w = io.Discard
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "ooxml",
	})
}

func SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = New(io.Discard, LevelOff)
	}
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

func GetLogger() *log.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// SetLevel changes the level of the global logger.
func SetLevel(level string) {
	GetLogger().SetLevel(ParseLevel(level))
}

func Debug(msg string, keyvals ...any) { GetLogger().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { GetLogger().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { GetLogger().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { GetLogger().Error(msg, keyvals...) }

func WithField(key string, value any) *log.Logger {
	return GetLogger().With(key, value)
}

// WithFields returns a child logger carrying fields, sorted by key so output is stable.
func WithFields(fields Fields) *log.Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return GetLogger().With(kv...)
}

// Size renders a byte count for log output.
func Size(n int64) string {
	if n < 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(n))
}

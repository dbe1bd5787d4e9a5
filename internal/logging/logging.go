// Package logging is a thin wrapper over the standard logger, matching the
// logInfo/logError helpers the rest of this codebase has always used.
package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger prints leveled messages with an optional field map, in the same
// "[LEVEL] message | fields" shape as websocket.logInfo/logError.
type Logger struct {
	prefix string
	out    *log.Logger
}

// New returns a Logger that tags every line with prefix (e.g. a component
// name like "channel" or "transport").
func New(prefix string) *Logger {
	return &Logger{prefix: prefix, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) Info(msg string, fields ...any) {
	l.out.Printf("[INFO] %s: %s%s", l.prefix, msg, formatFields(fields))
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.out.Printf("[WARN] %s: %s%s", l.prefix, msg, formatFields(fields))
}

func (l *Logger) Error(msg string, err error, fields ...any) {
	l.out.Printf("[ERROR] %s: %s: %v%s", l.prefix, msg, err, formatFields(fields))
}

// formatFields renders an even list of key, value, key, value... pairs.
// An odd-length list is printed as-is rather than panicking.
func formatFields(fields []any) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(" |")
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
		} else {
			fmt.Fprintf(&b, " %v", fields[i])
		}
	}
	return b.String()
}

// Package audit records mutating operations in a rotated log file.
// Auditing is best effort: a broken or unwritable audit log never
// fails the operation it records.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
)

// Rotation settings for the audit log.
const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 90
)

// Logger appends audit lines to a rotated file.
type Logger struct {
	out     io.Writer
	path    string
	enabled bool
}

// New builds the audit logger. A disabled config or an undeterminable
// default path yields a no-op logger.
func New(cfg config.AuditConfig) *Logger {
	if !cfg.Enabled {
		return &Logger{}
	}

	path := cfg.Path
	if path == "" {
		path = defaultPath()
		if path == "" {
			return &Logger{}
		}
	}

	return &Logger{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		},
		path:    path,
		enabled: true,
	}
}

// Path returns the audit log location, or the empty string for a no-op
// logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record appends one audit line for the given action. Fields are
// rendered sorted as key=value pairs. Write failures are swallowed.
func (l *Logger) Record(action string, fields map[string]string) {
	if l == nil || !l.enabled || l.out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(time.Now().UTC().Format(time.RFC3339))
	sb.WriteString(" action=")
	sb.WriteString(action)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := fields[k]
		if strings.ContainsAny(value, " \t") {
			value = fmt.Sprintf("%q", value)
		}
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(value)
	}
	sb.WriteString("\n")

	_, _ = io.WriteString(l.out, sb.String())
}

// Close flushes the underlying log file.
func (l *Logger) Close() {
	if l == nil || !l.enabled {
		return
	}
	if closer, ok := l.out.(io.Closer); ok {
		_ = closer.Close()
	}
}

// defaultPath places the audit log in the XDG state directory.
func defaultPath() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "snippyctl", "audit.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "snippyctl", "audit.log")
}

// Package logging is the line-oriented log side channel: leveled, icon
// prefixed console output with mandatory secret redaction.
//
// Every message passes through Redact before it is written. A message that
// mentions password-like keywords is replaced wholesale with a fixed marker;
// this is deliberately blunt so that no code path can leak a secret by
// stitching it into a log line. Structured fields carrying secret.Secret
// values additionally mask themselves.
package logging

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// RedactionMarker replaces any message that trips the secret keyword filter.
const RedactionMarker = "*** redacted ***"

var secretKeywords = regexp.MustCompile(`(?i)\b(password|passwd|passphrase|secret|credential|api[_ -]?key)`)

// Redact returns the message unchanged unless it matches a secret-related
// keyword, in which case the whole message is replaced with RedactionMarker.
func Redact(msg string) string {
	if secretKeywords.MatchString(msg) {
		return RedactionMarker
	}
	return msg
}

const iconField = "icon"

var (
	iconDebug   = color.New(color.FgWhite).Sprint("·")
	iconInfo    = color.New(color.FgBlue).Sprint("ℹ")
	iconSuccess = color.New(color.FgGreen).Sprint("✔")
	iconWarn    = color.New(color.FgYellow).Sprint("⚠")
	iconError   = color.New(color.FgRed).Sprint("✖")
)

// Logger wraps zerolog with the icon and redaction conventions of the CLI.
type Logger struct {
	zl zerolog.Logger
}

// New builds a console logger on out at the given level. Unknown level
// strings fall back to info.
func New(out io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    color.NoColor,
		TimeFormat: "15:04:05",
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			iconField,
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{iconField},
	}

	zl := zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// WithRun returns a child logger carrying the run identifier on every line.
func (l *Logger) WithRun(runID string) *Logger {
	return &Logger{zl: l.zl.With().Str("run_id", runID).Logger()}
}

// WithField returns a child logger with a fixed key/value pair.
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *Logger) emit(e *zerolog.Event, icon, msg string) {
	e.Str(iconField, icon).Msg(Redact(msg))
}

// Debug logs at debug level with the debug icon.
func (l *Logger) Debug(msg string) { l.emit(l.zl.Debug(), iconDebug, msg) }

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...))
}

// Info logs at info level with the info icon.
func (l *Logger) Info(msg string) { l.emit(l.zl.Info(), iconInfo, msg) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// Success logs an info-level line with the success icon. Used for
// already-exists and verified outcomes.
func (l *Logger) Success(msg string) { l.emit(l.zl.Info(), iconSuccess, msg) }

// Successf logs a formatted success line.
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

// Warn logs at warn level with the warning icon.
func (l *Logger) Warn(msg string) { l.emit(l.zl.Warn(), iconWarn, msg) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Error logs at error level with the error icon.
func (l *Logger) Error(msg string) { l.emit(l.zl.Error(), iconError, msg) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

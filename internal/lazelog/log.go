// Package lazelog is a small leveled logger centralizing the warn/info
// output spec.md §7's error-handling policy requires ("logged and
// skipped"), in the style of the teacher's plain fmt-to-stderr
// convention, but routed through one place so `laze build --verbose` can
// raise the level.
package lazelog

import (
	"fmt"
	"io"
	"os"
)

type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelVerbose
)

type Logger struct {
	out   io.Writer
	level Level
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level}
}

func (l *Logger) SetLevel(level Level) { l.level = level }

func (l *Logger) log(level Level, prefix, format string, args ...any) {
	if level > l.level {
		return
	}
	fmt.Fprintf(l.out, "laze: %s: %s\n", prefix, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any)   { l.log(LevelError, "error", format, args...) }
func (l *Logger) Warnf(format string, args ...any)    { l.log(LevelWarn, "WARNING", format, args...) }
func (l *Logger) Infof(format string, args ...any)    { l.log(LevelInfo, "info", format, args...) }
func (l *Logger) Verbosef(format string, args ...any) { l.log(LevelVerbose, "verbose", format, args...) }

// Default is the package-level logger used by callers that don't carry
// their own Logger through (mirrors the teacher's package-global loggers).
var Default = New(os.Stderr, LevelInfo)

func SetLevel(level Level) { Default.SetLevel(level) }
func Errorf(format string, args ...any)   { Default.Errorf(format, args...) }
func Warnf(format string, args ...any)    { Default.Warnf(format, args...) }
func Infof(format string, args ...any)    { Default.Infof(format, args...) }
func Verbosef(format string, args ...any) { Default.Verbosef(format, args...) }

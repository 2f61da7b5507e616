// Package logger is the service's leveled logger. Packages log through a
// Component so every line names where it came from.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var (
	mu     sync.RWMutex
	logger = log.New(os.Stdout, "", 0)
	level  = LevelInfo
	now    = time.Now
)

// Init sets the global level from LOG_LEVEL style text. Unknown values mean
// info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// ParseLevel is case-insensitive and accepts "warning" for warn.
func ParseLevel(l string) Level {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	}
	return LevelInfo
}

// SetOutput redirects all log lines to w and returns a func restoring the
// previous writer.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev := logger
	logger = log.New(w, "", 0)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		logger = prev
	}
}

func output(l Level, component, format string, v ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	var b strings.Builder
	b.WriteString(now().UTC().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(strings.ToUpper(levelNames[l]))
	b.WriteString("] ")
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	b.WriteString(fmt.Sprintf(format, v...))
	logger.Print(b.String())
}

func Debugf(format string, v ...interface{}) { output(LevelDebug, "", format, v...) }
func Infof(format string, v ...interface{})  { output(LevelInfo, "", format, v...) }
func Warnf(format string, v ...interface{})  { output(LevelWarn, "", format, v...) }
func Errorf(format string, v ...interface{}) { output(LevelError, "", format, v...) }

func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, "", format, v...)
	os.Exit(1)
}

func Warn(v string) { Warnf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[level]
}

// Component logs with a fixed "name: " prefix.
type Component struct {
	name string
}

func For(name string) Component { return Component{name: name} }

func (c Component) Debugf(format string, v ...interface{}) { output(LevelDebug, c.name, format, v...) }
func (c Component) Infof(format string, v ...interface{})  { output(LevelInfo, c.name, format, v...) }
func (c Component) Warnf(format string, v ...interface{})  { output(LevelWarn, c.name, format, v...) }
func (c Component) Errorf(format string, v ...interface{}) { output(LevelError, c.name, format, v...) }

// MaskEmail keeps the first letter of the local part and the domain, so
// recipients stay traceable in logs without being readable:
// "ann@x.com" becomes "a**@x.com".
func MaskEmail(addr string) string {
	addr = strings.TrimSpace(addr)
	at := strings.LastIndex(addr, "@")
	if at < 1 || at == len(addr)-1 {
		return "***"
	}
	local := []rune(addr[:at])
	return string(local[0]) + strings.Repeat("*", len(local)-1) + addr[at:]
}

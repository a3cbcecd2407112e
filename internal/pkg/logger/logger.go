// Package logger is the process-wide structured logger.
//
// Call sites use the package functions with alternating key/value pairs:
//
//	logger.Info("import finished", "source", src, "imported", n)
//
// Output is JSON from zap's production encoder on stderr. Values under keys
// that identify a person (names, phone numbers, email) are masked unless
// redaction is turned off.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) zap() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Anything
// else is INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	}
	return INFO
}

// Logger wraps a zap SugaredLogger with PII redaction.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	mu        sync.RWMutex
	level     = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	redactPII = true
	std       = build(level)
)

func build(lvl zap.AtomicLevel) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.DisableStacktrace = true
	z, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{sugar: z.Sugar()}
}

// SetLevel sets the minimum log level.
func SetLevel(l Level) { level.SetLevel(l.zap()) }

// SetRedactPII enables or disables PII redaction.
func SetRedactPII(r bool) {
	mu.Lock()
	redactPII = r
	mu.Unlock()
}

// Use replaces the underlying zap logger, e.g. with zaptest or an observer
// core in tests.
func Use(z *zap.Logger) {
	mu.Lock()
	std = &Logger{sugar: z.WithOptions(zap.AddCallerSkip(2)).Sugar()}
	mu.Unlock()
}

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = std.sugar.Sync()
}

// With returns a logger that adds kv to every entry.
func With(kv ...interface{}) *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &Logger{sugar: std.sugar.With(sanitize(kv)...)}
}

// Debug emits a DEBUG-level structured log entry.
func Debug(msg string, kv ...interface{}) { current().log(DEBUG, msg, kv) }

// Info emits an INFO-level structured log entry.
func Info(msg string, kv ...interface{}) { current().log(INFO, msg, kv) }

// Warn emits a WARN-level structured log entry.
func Warn(msg string, kv ...interface{}) { current().log(WARN, msg, kv) }

// Error emits an ERROR-level structured log entry.
func Error(msg string, kv ...interface{}) { current().log(ERROR, msg, kv) }

func (l *Logger) Debug(msg string, kv ...interface{}) { l.log(DEBUG, msg, kv) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.log(INFO, msg, kv) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.log(WARN, msg, kv) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.log(ERROR, msg, kv) }

func current() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

func (l *Logger) log(lvl Level, msg string, kv []interface{}) {
	kv = sanitize(kv)
	switch lvl {
	case DEBUG:
		l.sugar.Debugw(msg, kv...)
	case WARN:
		l.sugar.Warnw(msg, kv...)
	case ERROR:
		l.sugar.Errorw(msg, kv...)
	default:
		l.sugar.Infow(msg, kv...)
	}
}

func sanitize(kv []interface{}) []interface{} {
	mu.RLock()
	on := redactPII
	mu.RUnlock()
	if !on || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key, _ := kv[i].(string)
		out = append(out, kv[i], redactValue(key, kv[i+1]))
	}
	return out
}

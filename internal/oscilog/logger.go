// Package oscilog provides structured logging for osciemu using zap.
package oscilog

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oscimu/osciemu/internal/trace"
)

// Logger wraps zap.Logger with osciemu-specific helpers.
type Logger struct {
	*zap.Logger
	onTrace func(*trace.Event) // trace sink for step/flag/halt/bios events
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// SetOnTrace sets the trace event sink. Every Step/FlagChange/Halt/BiosMap
// call builds a *trace.Event (enriched via trace.DefaultEnricher) and
// passes it to fn, in addition to the zap log line.
func (l *Logger) SetOnTrace(fn func(*trace.Event)) {
	l.onTrace = fn
}

func (l *Logger) emit(e *trace.Event) {
	trace.DefaultEnricher(e)
	if l.onTrace != nil {
		l.onTrace(e)
	}
}

// Step logs one executed instruction and emits a trace.Event for it. This
// is the primary method the emulator uses to report its activity.
func (l *Logger) Step(ip uint32, diff int32) {
	l.emit(trace.NewEvent(ip, string(trace.Step), diff))
	l.Debug("step",
		Addr("ip", ip),
		zap.Int32("diff", diff),
	)
}

// FlagChange logs a write into the flag region and its resulting value.
func (l *Logger) FlagChange(addr uint32, value uint8) {
	l.emit(trace.NewEvent(addr, string(trace.FlagWrite), int32(value)))
	l.Debug("flag-write",
		Addr("addr", addr),
		zap.Uint8("value", value),
	)
}

// BiosMap logs a BIOS image map/unmap transition.
func (l *Logger) BiosMap(mapped bool) {
	tag := trace.BiosUnmap
	if mapped {
		tag = trace.BiosMap
	}
	l.emit(trace.NewEvent(0, string(tag), 0))
	l.Info(string(tag))
}

// Halt logs the CPU reaching the halt state.
func (l *Logger) Halt(ip uint32) {
	l.emit(trace.NewEvent(ip, string(trace.Halt), 0))
	l.Info("halt", Addr("ip", ip))
}

// WithCategory returns a logger with the category field preset.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(zap.String("cat", category)),
		onTrace: l.onTrace,
	}
}

// With returns a logger with the given zap fields preset, preserving the
// trace sink. Used to attach per-invocation fields (e.g. a session id)
// without losing the *Logger type, unlike the embedded *zap.Logger.With.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		Logger:  l.Logger.With(fields...),
		onTrace: l.onTrace,
	}
}

// Hex formats a uint64 as a 0x-prefixed hex string for logging.
func Hex(v uint64) string {
	return "0x" + hexString(v)
}

func hexString(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 16)
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}

// Field helpers for common patterns.

// Addr creates a named address field rendered as hex.
func Addr(name string, addr uint32) zap.Field {
	return zap.String(name, Hex(uint64(addr)))
}

// Size creates a size field.
func Size(size uint32) zap.Field {
	return zap.Uint32("size", size)
}

// Ptr creates a named pointer field rendered as hex.
func Ptr(name string, ptr uint32) zap.Field {
	return zap.String(name, Hex(uint64(ptr)))
}

// Fn creates a function/component name field.
func Fn(name string) zap.Field {
	return zap.String("fn", name)
}

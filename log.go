package dongle

import (
	"fmt"
)

type Logger interface {
	Debug(msg string)
	Debugf(format string, v ...any)
	Info(msg string)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
}

type Level uint8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "INVALID"
	}
}

// printLogger outputs to whatever println is hooked up to, which on a board is usually the USB serial console.
// Messages below min are dropped.
type printLogger struct {
	min Level
}

// NewLogger returns the println-backed logger used when Config.Logger is nil.
func NewLogger(min Level) Logger {
	return printLogger{min: min}
}

func (p printLogger) print(l Level, msg string) {
	if l < p.min {
		return
	}
	println(l.String() + " " + msg)
}

func (p printLogger) Debug(msg string) {
	p.print(LevelDebug, msg)
}

func (p printLogger) Debugf(format string, v ...any) {
	if p.min > LevelDebug {
		return
	}
	p.print(LevelDebug, fmt.Sprintf(format, v...))
}

func (p printLogger) Info(msg string) {
	p.print(LevelInfo, msg)
}

func (p printLogger) Infof(format string, v ...any) {
	p.print(LevelInfo, fmt.Sprintf(format, v...))
}

func (p printLogger) Warnf(format string, v ...any) {
	p.print(LevelWarn, fmt.Sprintf(format, v...))
}

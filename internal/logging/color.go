package logging

import (
	"regexp"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI escapes used by the console encoder.
const (
	ansiReset       = "\033[0m"
	ansiFaint       = "\033[2m"
	ansiNegative    = "\033[7m"
	ansiYellow      = "\033[0;33m"
	ansiBlue        = "\033[0;94m"
	ansiLightRed    = "\033[1;31m"
	ansiLightGreen  = "\033[1;32m"
	ansiLightYellow = "\033[1;33m"
	ansiLightBlue   = "\033[1;34m"
)

const timeLayout = "2006-01-02 15:04:05,000"

func paint(color, text string) string {
	return color + text + ansiReset
}

func consoleEncoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.CallerKey = zapcore.OmitKey
	cfg.ConsoleSeparator = " - "
	if !color {
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncodeName = zapcore.FullNameEncoder
		return cfg
	}
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(paint(ansiFaint, t.Format(timeLayout)))
	}
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(paint(levelColor(l), l.CapitalString()))
	}
	cfg.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(paint(ansiYellow, name))
	}
	return cfg
}

func levelColor(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return ansiLightBlue
	case zapcore.InfoLevel:
		return ansiLightGreen
	case zapcore.WarnLevel:
		return ansiLightYellow
	case zapcore.ErrorLevel:
		return ansiLightRed
	default:
		return ansiNegative
	}
}

var highlightPattern = regexp.MustCompile(`localhost|port \d+`)

// highlightCore colors host and port mentions in log messages.
type highlightCore struct {
	zapcore.Core
}

func (c highlightCore) With(fields []zapcore.Field) zapcore.Core {
	return highlightCore{Core: c.Core.With(fields)}
}

func (c highlightCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c highlightCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = highlightPattern.ReplaceAllStringFunc(ent.Message, func(m string) string {
		return paint(ansiBlue, m)
	})
	return c.Core.Write(ent, fields)
}

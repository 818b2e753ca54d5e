// Package logging owns the process-wide log sink.
//
// Nothing is installed until Init runs. Until then zap's global logger is a
// no-op, so packages may log through zap.L() or Named unconditionally and the
// output only appears once a command opts in. Init installs the sink at most
// once per process; later calls hand back the existing logger together with
// ErrAlreadyInitialized, which callers are expected to treat as non-fatal.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrAlreadyInitialized is returned by Init once a sink has been installed.
var ErrAlreadyInitialized = errors.New("logging: sink already initialized")

// Format selects the encoder used by the sink.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures the sink built by Init and New.
type Options struct {
	Level  zapcore.Level
	Format Format
	// Color enables ANSI colors in console output. Ignored for JSON.
	Color bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Name, when set, names the root logger.
	Name string
}

var sink struct {
	mu      sync.Mutex
	logger  *zap.Logger
	restore func()
}

// Init builds the sink described by opts and installs it as zap's global
// logger. Only the first call has an effect.
func Init(opts Options) (*zap.Logger, error) {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	if sink.logger != nil {
		return sink.logger, ErrAlreadyInitialized
	}

	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	sink.restore = zap.ReplaceGlobals(logger)
	sink.logger = logger
	return logger, nil
}

// New builds a logger without touching the global state.
func New(opts Options) (*zap.Logger, error) {
	format := opts.Format
	if format == "" {
		format = FormatConsole
	}

	var enc zapcore.Encoder
	switch format {
	case FormatConsole:
		enc = zapcore.NewConsoleEncoder(consoleEncoderConfig(opts.Color))
	case FormatJSON:
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		enc = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, fmt.Errorf("build logger: unknown format %q", format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	var core zapcore.Core = zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(out)), zap.NewAtomicLevelAt(opts.Level))
	if opts.Color && format == FormatConsole {
		core = highlightCore{Core: core}
	}

	logger := zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	if opts.Name != "" {
		logger = logger.Named(opts.Name)
	}
	return logger, nil
}

// Initialized reports whether Init has installed a sink.
func Initialized() bool {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return sink.logger != nil
}

// IsTerminal reports whether w is a character device such as a TTY.
// Pipes, regular files and in-memory writers are not.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// Named returns a child of the global logger.
func Named(name string) *zap.Logger {
	return zap.L().Named(name)
}

// Sync flushes the installed sink, if any.
func Sync() error {
	sink.mu.Lock()
	logger := sink.logger
	sink.mu.Unlock()

	if logger == nil {
		return nil
	}
	// Terminals and pipes reject fsync; that is not a lost write.
	if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		return fmt.Errorf("sync logger: %w", err)
	}
	return nil
}

// ParseLevel parses a level name. Besides zap's names it accepts "warning"
// and "critical".
func ParseLevel(s string) (zapcore.Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "warning":
		return zapcore.WarnLevel, nil
	case "critical":
		return zapcore.FatalLevel, nil
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return lvl, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return lvl, nil
}

// ParseFormat parses a sink format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatConsole, FormatJSON:
		return f, nil
	case "":
		return FormatConsole, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want console or json)", s)
	}
}

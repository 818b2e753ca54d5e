package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/autoply/autoply/internal/config"
	"github.com/autoply/autoply/internal/logging"
	"github.com/autoply/autoply/internal/version"
)

// initLogging is a variable so tests can count sink installs.
var initLogging = logging.Init

// RunCmd starts autoply
type RunCmd struct {
	Verbose   bool   `short:"v" help:"Enable printing logs to stdout"`
	LogLevel  string `short:"l" placeholder:"LEVEL" help:"Log level when verbose: debug, info, warn, error (default from config, else debug)."`
	LogFormat string `placeholder:"FORMAT" help:"Log format when verbose: console or json (default from config)."`
	NoColor   bool   `help:"Disable colored console logs."`
}

// Run executes the run command
func (c *RunCmd) Run(cmdCtx *Context) error {
	if !c.Verbose {
		return nil
	}

	path := cmdCtx.configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := c.logOptions(cfg, cmdCtx.Stdout)
	if err != nil {
		return err
	}
	logger, err := initLogging(opts)
	switch {
	case errors.Is(err, logging.ErrAlreadyInitialized):
		logger.Debug("log sink already installed; keeping it")
	case err != nil:
		return fmt.Errorf("init logging: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger = logger.Named("run").With(zap.String("run_id", id.String()))

	logger.Info("autoply started",
		zap.String("version", version.Short()),
		zap.String("config", path))
	logger.Debug("search parameters",
		zap.String("job", cfg.Search.Job),
		zap.String("location", cfg.Search.Location),
		zap.Strings("sites", cfg.Search.Sites))
	logger.Info("no automation engine attached; nothing to do")
	return nil
}

// logOptions merges flags over the config file. Flags win.
func (c *RunCmd) logOptions(cfg *config.Config, out io.Writer) (logging.Options, error) {
	opts := logging.Options{
		Level:  zapcore.DebugLevel,
		Color:  cfg.Log.Color && !c.NoColor && logging.IsTerminal(out),
		Output: out,
		Name:   Name,
	}

	level := cfg.Log.Level
	if c.LogLevel != "" {
		level = c.LogLevel
	}
	if level != "" {
		lvl, err := logging.ParseLevel(level)
		if err != nil {
			return opts, err
		}
		opts.Level = lvl
	}

	format := cfg.Log.Format
	if c.LogFormat != "" {
		format = c.LogFormat
	}
	f, err := logging.ParseFormat(format)
	if err != nil {
		return opts, err
	}
	opts.Format = f
	return opts, nil
}

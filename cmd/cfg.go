package cmd

import (
	"fmt"
	"strings"

	"github.com/autoply/autoply/internal/config"
	"github.com/autoply/autoply/internal/logging"
)

// CfgCmd manages configuration
type CfgCmd struct {
	Show     CfgShowCmd     `cmd:"" default:"1" help:"Show current configuration (default)"`
	Path     CfgPathCmd     `cmd:"" help:"Print the config file path"`
	Level    CfgLevelCmd    `cmd:"" help:"Set log level"`
	Format   CfgFormatCmd   `cmd:"" help:"Set log format (console/json)"`
	Color    CfgColorCmd    `cmd:"" help:"Enable/disable colored logs"`
	Job      CfgJobCmd      `cmd:"" help:"Set job title to search for"`
	Location CfgLocationCmd `cmd:"" help:"Set search location"`
	Sites    CfgSitesCmd    `cmd:"" help:"Set job boards to search"`
}

// CfgShowCmd shows the resolved configuration
type CfgShowCmd struct{}

func (c *CfgShowCmd) Run(cmdCtx *Context) error {
	path := cmdCtx.configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.Log.Level
	if level == "" {
		level = "debug (default)"
	}

	w := cmdCtx.Stdout
	fmt.Fprintf(w, "Current configuration (%s):\n\n", path)
	fmt.Fprintf(w, "Log Level:   %s\n", level)
	fmt.Fprintf(w, "Log Format:  %s\n", cfg.Log.Format)
	fmt.Fprintf(w, "Log Color:   %v\n", cfg.Log.Color)
	fmt.Fprintf(w, "Job:         %s\n", cfg.Search.Job)
	fmt.Fprintf(w, "Location:    %s\n", cfg.Search.Location)
	fmt.Fprintf(w, "Sites:       %s\n", strings.Join(cfg.Search.Sites, ", "))
	return nil
}

// CfgPathCmd prints the config file path
type CfgPathCmd struct{}

func (c *CfgPathCmd) Run(cmdCtx *Context) error {
	_, err := fmt.Fprintln(cmdCtx.Stdout, cmdCtx.configPath())
	return err
}

// CfgLevelCmd sets the log level
type CfgLevelCmd struct {
	Level string `arg:"" help:"Log level (debug/info/warn/error), or 'default' to clear"`
}

func (c *CfgLevelCmd) Run(cmdCtx *Context) error {
	level := strings.ToLower(strings.TrimSpace(c.Level))
	if level == "default" {
		level = ""
	} else if _, err := logging.ParseLevel(level); err != nil {
		return err
	}
	return updateConfig(cmdCtx, func(cfg *config.Config) {
		cfg.Log.Level = level
	}, "Log level set to: %s", c.Level)
}

// CfgFormatCmd sets the log format
type CfgFormatCmd struct {
	Format string `arg:"" help:"Log format: console or json"`
}

func (c *CfgFormatCmd) Run(cmdCtx *Context) error {
	format, err := logging.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	return updateConfig(cmdCtx, func(cfg *config.Config) {
		cfg.Log.Format = string(format)
	}, "Log format set to: %s", format)
}

// CfgColorCmd enables/disables colored console logs
type CfgColorCmd struct {
	Enable string `arg:"" help:"Enable color: on/off/true/false"`
}

func (c *CfgColorCmd) Run(cmdCtx *Context) error {
	enable := false
	switch strings.ToLower(c.Enable) {
	case "on", "true", "yes", "1":
		enable = true
	case "off", "false", "no", "0":
		enable = false
	default:
		return fmt.Errorf("invalid value: use on/off or true/false")
	}
	return updateConfig(cmdCtx, func(cfg *config.Config) {
		cfg.Log.Color = enable
	}, "Log color: %v", enable)
}

// CfgJobCmd sets the job title
type CfgJobCmd struct {
	Job string `arg:"" help:"Job title, e.g. \"Entry Level Software Engineer\""`
}

func (c *CfgJobCmd) Run(cmdCtx *Context) error {
	job := strings.TrimSpace(c.Job)
	return updateConfig(cmdCtx, func(cfg *config.Config) {
		cfg.Search.Job = job
	}, "Job set to: %s", job)
}

// CfgLocationCmd sets the search location
type CfgLocationCmd struct {
	Location string `arg:"" help:"Location, e.g. \"San Diego, CA\""`
}

func (c *CfgLocationCmd) Run(cmdCtx *Context) error {
	location := strings.TrimSpace(c.Location)
	return updateConfig(cmdCtx, func(cfg *config.Config) {
		cfg.Search.Location = location
	}, "Location set to: %s", location)
}

// CfgSitesCmd sets the job boards to search
type CfgSitesCmd struct {
	Sites []string `arg:"" help:"One or more of: indeed, glassdoor, ycombinator"`
}

func (c *CfgSitesCmd) Run(cmdCtx *Context) error {
	sites := make([]string, 0, len(c.Sites))
	for _, s := range c.Sites {
		sites = append(sites, strings.ToLower(strings.TrimSpace(s)))
	}
	return updateConfig(cmdCtx, func(cfg *config.Config) {
		cfg.Search.Sites = sites
	}, "Sites set to: %s", strings.Join(sites, ", "))
}

// updateConfig loads the config, applies edit, validates and saves it, then
// prints the confirmation message.
func updateConfig(cmdCtx *Context, edit func(*config.Config), format string, args ...any) error {
	path := cmdCtx.configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	edit(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	_, err = fmt.Fprintf(cmdCtx.Stdout, format+"\n", args...)
	return err
}

package cmd

import (
	"context"
	"io"

	"github.com/alecthomas/kong"

	"github.com/autoply/autoply/internal/config"
)

const (
	// Name is the program name shown in help and error output.
	Name = "autoply"
	// Description is the one-line summary shown in help output.
	Description = "Autoply - A tool for automating job applications"
)

// CLI represents the command-line interface
type CLI struct {
	Config      string           `help:"Config file path (default ~/.autoply/cfg.toml)." type:"path" env:"AUTOPLY_CONFIG" placeholder:"PATH"`
	VersionFlag kong.VersionFlag `name:"version" help:"Print version information and quit."`

	Run     RunCmd     `cmd:"" help:"Start Autoply"`
	Version VersionCmd `cmd:"" help:"Show version information"`
	Cfg     CfgCmd     `cmd:"" help:"Manage configuration"`
}

// Context carries process-wide handles into command Run methods.
type Context struct {
	context.Context
	Stdout io.Writer
	Stderr io.Writer
	// ConfigPath is the --config value; empty means config.Path().
	ConfigPath string
}

func (c *Context) configPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.Path()
}

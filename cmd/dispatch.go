package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/autoply/autoply/internal/logging"
	"github.com/autoply/autoply/internal/version"
)

// Exit statuses returned by Execute. Usage errors use kong's own status.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInternal = 70
)

// Command is implemented by every leaf of the grammar.
type Command interface {
	Run(cmdCtx *Context) error
}

var (
	_ Command = (*RunCmd)(nil)
	_ Command = (*VersionCmd)(nil)
	_ Command = (*CfgShowCmd)(nil)
	_ Command = (*CfgPathCmd)(nil)
	_ Command = (*CfgLevelCmd)(nil)
	_ Command = (*CfgFormatCmd)(nil)
	_ Command = (*CfgColorCmd)(nil)
	_ Command = (*CfgJobCmd)(nil)
	_ Command = (*CfgLocationCmd)(nil)
	_ Command = (*CfgSitesCmd)(nil)
)

// InternalError reports a command the grammar accepted but nothing can run.
// It is a programming error, never a usage error.
type InternalError struct {
	Command string
	Reason  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("command %q: %s", e.Command, e.Reason)
}

// exitSignal carries a kong exit status out of Parse.
type exitSignal struct{ code int }

// dispatch is a variable so tests can observe handler invocations.
var dispatch = Dispatch

// NewParser builds the command grammar around cli.
func NewParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	opts := append([]kong.Option{
		kong.Name(Name),
		kong.Description(Description),
		kong.UsageOnError(),
		kong.Vars{"version": version.Short()},
	}, options...)
	return kong.New(cli, opts...)
}

// Dispatch runs the command selected in kctx.
func Dispatch(kctx *kong.Context, cmdCtx *Context) error {
	node := kctx.Selected()
	if node == nil {
		return &InternalError{Reason: "no command selected"}
	}
	cmd, ok := commandFor(node)
	if !ok {
		return &InternalError{Command: node.FullPath(), Reason: "no handler for command"}
	}
	return cmd.Run(cmdCtx)
}

func commandFor(node *kong.Node) (Command, bool) {
	if !node.Target.IsValid() || !node.Target.CanAddr() {
		return nil, false
	}
	cmd, ok := node.Target.Addr().Interface().(Command)
	return cmd, ok
}

// Execute parses args, runs the selected command and returns the process
// exit status. Help, version and usage errors exit through kong.
func Execute(ctx context.Context, args []string, options ...kong.Option) (code int) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(exitSignal)
			if !ok {
				panic(r)
			}
			code = sig.code
		}
	}()

	var cli CLI
	opts := append([]kong.Option{
		kong.Exit(func(code int) { panic(exitSignal{code: code}) }),
	}, options...)
	parser, err := NewParser(&cli, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: internal error: %v\n", Name, err)
		return ExitInternal
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
		// Only reached when the caller replaced kong's Exit with one that returns.
		return ExitFailure
	}

	err = dispatch(kctx, &Context{
		Context:    ctx,
		Stdout:     parser.Stdout,
		Stderr:     parser.Stderr,
		ConfigPath: cli.Config,
	})
	if syncErr := logging.Sync(); syncErr != nil {
		fmt.Fprintf(parser.Stderr, "%s: warning: %v\n", Name, syncErr)
	}

	var internal *InternalError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &internal):
		parser.Errorf("internal error: %v", err)
		return ExitInternal
	default:
		parser.Errorf("%v", err)
		return ExitFailure
	}
}

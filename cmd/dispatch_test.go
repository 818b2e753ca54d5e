package cmd

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoply/autoply/internal/version"
)

func TestNoArgsPrintsHelp(t *testing.T) {
	isolate(t)
	calls := countDispatch(t)

	first := execute(t)
	assert.NotEqual(t, ExitOK, first.code)
	assert.Contains(t, first.stdout, "Usage: "+Name)
	assert.Contains(t, first.stdout, Description)
	assert.Zero(t, *calls)

	second := execute(t)
	assert.Equal(t, first, second)
}

func TestUnknownSubcommand(t *testing.T) {
	isolate(t)
	calls := countDispatch(t)

	res := execute(t, "frobnicate")
	assert.NotEqual(t, ExitOK, res.code)
	assert.Contains(t, res.stderr, "frobnicate")
	assert.Zero(t, *calls)
}

func TestUnknownFlag(t *testing.T) {
	isolate(t)
	calls := countDispatch(t)

	res := execute(t, "run", "--bogus")
	assert.NotEqual(t, ExitOK, res.code)
	assert.Contains(t, res.stderr, "--bogus")
	assert.Zero(t, *calls)
}

func TestVersionFlag(t *testing.T) {
	prev := version.Version
	t.Cleanup(func() { version.Version = prev })

	version.Version = "1.4.0"
	res := execute(t, "--version")
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, "1.4.0\n", res.stdout)
	assert.Equal(t, res, execute(t, "--version"))

	version.Version = ""
	res = execute(t, "--version")
	assert.Equal(t, ExitOK, res.code)
	assert.Equal(t, version.Short()+"\n", res.stdout)
}

func TestVersionCommand(t *testing.T) {
	prev := version.Version
	t.Cleanup(func() { version.Version = prev })
	version.Version = "1.4.0"

	res := execute(t, "version")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "autoply 1.4.0\n")
	assert.Contains(t, res.stdout, "commit: ")
}

func TestHelpFlag(t *testing.T) {
	calls := countDispatch(t)

	res := execute(t, "--help")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "Start Autoply")
	assert.Zero(t, *calls)

	res = execute(t, "run", "--help")
	assert.Equal(t, ExitOK, res.code)
	assert.Contains(t, res.stdout, "--verbose")
	assert.Contains(t, res.stdout, "-v")
}

func TestEveryLeafHasHandler(t *testing.T) {
	parser, err := NewParser(&CLI{})
	require.NoError(t, err)

	leaves := 0
	var walk func(n *kong.Node)
	walk = func(n *kong.Node) {
		sub := 0
		for _, child := range n.Children {
			if child.Type == kong.CommandNode {
				sub++
				walk(child)
			}
		}
		if n.Type == kong.CommandNode && sub == 0 {
			leaves++
			_, ok := commandFor(n)
			assert.True(t, ok, "%s has no handler", n.FullPath())
		}
	}
	walk(parser.Model.Node)
	assert.Positive(t, leaves)
}

type orphanCLI struct {
	Orphan struct{} `cmd:""`
}

func TestDispatchWithoutHandlerIsInternalError(t *testing.T) {
	parser, err := kong.New(&orphanCLI{}, kong.Name(Name))
	require.NoError(t, err)
	kctx, err := parser.Parse([]string{"orphan"})
	require.NoError(t, err)

	err = Dispatch(kctx, &Context{})
	var internal *InternalError
	require.ErrorAs(t, err, &internal)
	assert.Contains(t, internal.Command, "orphan")
}

func TestExecuteReportsInternalError(t *testing.T) {
	isolate(t)
	prev := dispatch
	t.Cleanup(func() { dispatch = prev })
	dispatch = func(*kong.Context, *Context) error {
		return &InternalError{Command: "autoply run", Reason: "no handler for command"}
	}

	res := execute(t, "run")
	assert.Equal(t, ExitInternal, res.code)
	assert.Contains(t, res.stderr, "internal error")
	assert.Contains(t, res.stderr, "autoply run")
}

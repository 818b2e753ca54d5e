package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autoply/autoply/internal/logging"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, kong.Writers(&stdout, &stderr))
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// isolate points HOME and AUTOPLY_CONFIG at a temp dir and returns the
// config path commands will use.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "cfg.toml")
	t.Setenv("AUTOPLY_CONFIG", path)
	return path
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

// sinkRecorder stands in for logging.Init. It builds a real, non-global
// logger so output still lands in the writer the command passes.
type sinkRecorder struct {
	calls []logging.Options
	err   error
}

func stubLogging(t *testing.T) *sinkRecorder {
	t.Helper()
	rec := &sinkRecorder{}
	prev := initLogging
	initLogging = func(opts logging.Options) (*zap.Logger, error) {
		rec.calls = append(rec.calls, opts)
		if rec.err != nil && !errors.Is(rec.err, logging.ErrAlreadyInitialized) {
			return nil, rec.err
		}
		logger, err := logging.New(opts)
		if err != nil {
			return nil, err
		}
		return logger, rec.err
	}
	t.Cleanup(func() { initLogging = prev })
	return rec
}

// countDispatch records how many times a handler was dispatched.
func countDispatch(t *testing.T) *int {
	t.Helper()
	n := 0
	prev := dispatch
	dispatch = func(kctx *kong.Context, cmdCtx *Context) error {
		n++
		return prev(kctx, cmdCtx)
	}
	t.Cleanup(func() { dispatch = prev })
	return &n
}

package release

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementFlags(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "--major", Major.Flag())
	assert.Equal(t, "--minor", Minor.Flag())
	assert.Equal(t, "--patch", Patch.Flag())
}

func TestParseIncrement(t *testing.T) {
	t.Parallel()

	for _, inc := range Increments {
		got, err := ParseIncrement(inc.String())
		require.NoError(t, err)
		assert.Equal(t, inc, got)
	}

	_, err := ParseIncrement("prerelease")
	assert.Error(t, err)

	_, err = ParseIncrement("")
	assert.Error(t, err)
}

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	b := New("goversion", "version.go", io.Discard, io.Discard)

	// The target file is constant across all three increments and the
	// flag string matches the command name exactly.
	assert.Equal(t, []string{"version.go", "--major"}, b.BuildArgs(Major))
	assert.Equal(t, []string{"version.go", "--minor"}, b.BuildArgs(Minor))
	assert.Equal(t, []string{"version.go", "--patch"}, b.BuildArgs(Patch))
}

// fakeRun records invocations and returns a canned error.
type fakeRun struct {
	calls [][]string
	tool  string
	err   error
}

func (f *fakeRun) run(_ context.Context, tool string, args []string, _, _ io.Writer) error {
	f.tool = tool
	f.calls = append(f.calls, args)
	return f.err
}

func TestDispatchInvokesToolOnce(t *testing.T) {
	t.Parallel()

	fake := &fakeRun{}
	b := New("goversion", "version.go", io.Discard, io.Discard)
	b.run = fake.run

	require.NoError(t, b.Dispatch(context.Background(), Patch))

	assert.Equal(t, "goversion", fake.tool)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, []string{"version.go", "--patch"}, fake.calls[0])
}

func TestDispatchNotIdempotent(t *testing.T) {
	t.Parallel()

	// Dispatching twice issues the same command twice; collapsing
	// repeated bumps is the external tool's business, not ours.
	fake := &fakeRun{}
	b := New("goversion", "version.go", io.Discard, io.Discard)
	b.run = fake.run

	require.NoError(t, b.Dispatch(context.Background(), Major))
	require.NoError(t, b.Dispatch(context.Background(), Major))

	require.Len(t, fake.calls, 2)
	assert.Equal(t, fake.calls[0], fake.calls[1])
}

func TestDispatchWrapsFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeRun{err: fmt.Errorf("boom")}
	b := New("goversion", "version.go", io.Discard, io.Discard)
	b.run = fake.run

	err := b.Dispatch(context.Background(), Minor)
	require.Error(t, err)

	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "goversion", ie.Tool)
	assert.Equal(t, []string{"version.go", "--minor"}, ie.Args)
	assert.Equal(t, -1, ie.ExitCode)
}

func TestDispatchMissingTool(t *testing.T) {
	t.Parallel()

	// A missing binary is still just an InvocationError; the target
	// file is never pre-checked either way.
	var out, errOut bytes.Buffer
	b := New("goreads-no-such-bumper", "does-not-exist.go", &out, &errOut)

	err := b.Dispatch(context.Background(), Patch)
	require.Error(t, err)

	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, -1, ie.ExitCode)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestDispatchPropagatesExitCode(t *testing.T) {
	t.Parallel()

	// Use a real child process so exec.ExitError handling is exercised.
	b := New("sh", "-c", io.Discard, io.Discard)
	b.run = func(ctx context.Context, tool string, _ []string, stdout, stderr io.Writer) error {
		cmd := exec.CommandContext(ctx, tool, "-c", "exit 3")
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		return cmd.Run()
	}

	err := b.Dispatch(context.Background(), Patch)
	require.Error(t, err)

	var ie *InvocationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 3, ie.ExitCode)
}

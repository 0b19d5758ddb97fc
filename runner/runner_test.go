package runner

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecCapturesOutput(t *testing.T) {
	sh := shell(t)
	r := New(zerolog.Nop())

	res, err := r.Run(context.Background(), Invocation{
		Path: sh,
		Args: []string{"-c", "echo out; echo err 1>&2"},
	})
	require.NoError(t, err)
	assert.True(t, res.Success())
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
	assert.Nil(t, res.Elapsed)
}

func TestExecNonZeroExitIsData(t *testing.T) {
	sh := shell(t)
	r := New(zerolog.Nop())

	res, err := r.Run(context.Background(), Invocation{
		Path: sh,
		Args: []string{"-c", "echo failing; exit 3"},
	})
	require.NoError(t, err)
	assert.False(t, res.Success())
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "failing\n", string(res.Stdout))
}

func TestExecTimed(t *testing.T) {
	sh := shell(t)
	r := New(zerolog.Nop())

	res, err := r.Run(context.Background(), Invocation{
		Path:  sh,
		Args:  []string{"-c", "true"},
		Timed: true,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Elapsed)
	assert.Greater(t, int64(*res.Elapsed), int64(0))
}

func TestExecWorkingDirectory(t *testing.T) {
	sh := shell(t)
	dir := t.TempDir()
	r := New(zerolog.Nop())

	res, err := r.Run(context.Background(), Invocation{
		Path: sh,
		Args: []string{"-c", "pwd -P"},
		Dir:  dir,
	})
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(string(res.Stdout)))
}

func TestExecLaunchError(t *testing.T) {
	r := New(zerolog.Nop())

	missing := filepath.Join(t.TempDir(), "no-such-binary")
	res, err := r.Run(context.Background(), Invocation{Path: missing})
	assert.Nil(t, res)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, missing, launchErr.Path)
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name string
		inv  Invocation
		want string
	}{
		{
			name: "plain",
			inv:  Invocation{Path: "/bin/erin", Args: []string{"run", "ex01.toml", "-e", "out.csv"}},
			want: "/bin/erin run ex01.toml -e out.csv",
		},
		{
			name: "quoted argument",
			inv:  Invocation{Path: "/bin/erin", Args: []string{"run", "my file.toml"}},
			want: "/bin/erin run 'my file.toml'",
		},
		{
			name: "with directory",
			inv:  Invocation{Path: "/bin/erin", Args: []string{"version"}, Dir: "ft-illinois"},
			want: "(cd ft-illinois && /bin/erin version)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Command(tt.inv))
		})
	}
}

package regress

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bigladder/erinreg/model"
	"github.com/bigladder/erinreg/runner"
)

// fakeRunner records every invocation and answers it with handle.
type fakeRunner struct {
	calls  []runner.Invocation
	handle func(inv runner.Invocation) (*runner.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, inv runner.Invocation) (*runner.Result, error) {
	f.calls = append(f.calls, inv)
	if f.handle == nil {
		return &runner.Result{}, nil
	}
	return f.handle(inv)
}

// engineCalls returns the engine invocations with the given subcommand.
func (f *fakeRunner) engineCalls(sub string) []runner.Invocation {
	var out []runner.Invocation
	for _, c := range f.calls {
		if c.Path == testExes.CLI && len(c.Args) > 0 && c.Args[0] == sub {
			out = append(out, c)
		}
	}
	return out
}

var testExes = model.ExecutableSet{
	BinDir:      "/opt/erin/bin",
	CLI:         "/opt/erin/bin/erin",
	Tests:       "/opt/erin/bin/erin_tests",
	RandomTests: "/opt/erin/bin/erin_next_random_tests",
	SwitchTests: "/opt/erin/bin/erin_switch_tests",
	Perf:        "/opt/erin/bin/erin_next_stress_test",
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// scenarioName extracts "01" from an invocation of "run ex01.toml ...".
func scenarioName(inv runner.Invocation) string {
	return strings.TrimSuffix(strings.TrimPrefix(inv.Args[1], "ex"), ".toml")
}

// engine simulates "erin run": it writes the tables returned by tables for
// the scenario into the invocation's directory.
func engine(tables func(name string) (out, stats string)) func(runner.Invocation) (*runner.Result, error) {
	return func(inv runner.Invocation) (*runner.Result, error) {
		if len(inv.Args) > 0 && inv.Args[0] == "run" {
			out, stats := tables(scenarioName(inv))
			if err := os.WriteFile(filepath.Join(inv.Dir, inv.Args[3]), []byte(out), 0644); err != nil {
				return nil, err
			}
			if err := os.WriteFile(filepath.Join(inv.Dir, inv.Args[5]), []byte(stats), 0644); err != nil {
				return nil, err
			}
		}
		return &runner.Result{}, nil
	}
}

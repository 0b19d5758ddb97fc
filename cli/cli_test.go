package cli

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/bigladder/erinreg/history"
	"github.com/bigladder/erinreg/model"
	"github.com/bigladder/erinreg/regress"
)

func TestParsePhases(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []regress.Phase
		wantErr bool
	}{
		{
			name: "none selects all",
			in:   nil,
			want: nil,
		},
		{
			name: "subset keeps given order",
			in:   []string{"bench", "unit"},
			want: []regress.Phase{regress.PhaseBench, regress.PhaseUnit},
		},
		{
			name:    "unknown phase",
			in:      []string{"unit", "fuzz"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePhases(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePhases() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parsePhases() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRootDir(t *testing.T) {
	tests := []struct {
		name        string
		examplesDir string
		root        string
		want        string
	}{
		{
			name:        "derived from examples dir",
			examplesDir: filepath.Join("repo", "docs", "examples"),
			want:        "repo",
		},
		{
			name:        "explicit root wins",
			examplesDir: filepath.Join("repo", "docs", "examples"),
			root:        "elsewhere",
			want:        "elsewhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := flag.NewFlagSet("test", flag.ContinueOnError)
			set.String("examples-dir", tt.examplesDir, "")
			set.String("root", tt.root, "")
			ctx := cli.NewContext(nil, set, nil)

			assert.Equal(t, tt.want, filepath.Clean(rootDir(ctx)))
		})
	}
}

func TestLoadCatalogDefault(t *testing.T) {
	cat, err := loadCatalog("")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Cases)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFormatRecord(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name   string
		record model.BenchmarkRecord
		want   string
	}{
		{
			name: "release build with short commit",
			record: model.BenchmarkRecord{
				Timestamp: ts,
				Commit:    "0123456789abcdef",
				Name:      "ft-illinois",
				Elapsed:   1500 * time.Millisecond,
			},
			want: "2024-03-01 09:30:00  ft-illinois      [1.5s]  release  commit=01234567",
		},
		{
			name: "debug build without revision",
			record: model.BenchmarkRecord{
				Timestamp: ts,
				Commit:    model.NoRevision,
				Debug:     true,
				Name:      "ft-illinois",
				Elapsed:   2 * time.Second,
			},
			want: "2024-03-01 09:30:00  ft-illinois      [2s]  debug    commit=<no-git-sha-detected>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatRecord(tt.record))
		})
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []history.Entry{
		{Record: model.BenchmarkRecord{Name: "ft-illinois"}, Line: 1},
		{Record: model.BenchmarkRecord{Name: "ex01"}, Line: 2},
		{Record: model.BenchmarkRecord{Name: "ft-illinois_packed"}, Line: 3},
	}

	assert.Len(t, filterEntries(entries, ""), 3)

	got := filterEntries(entries, "illinois")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, 3, got[1].Line)

	assert.Empty(t, filterEntries(entries, "nothing"))
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
	}{
		{name: "no commit", commit: "none", want: "1.0.0"},
		{name: "short commit ignored", commit: "abc", want: "1.0.0"},
		{name: "commit", commit: "0123456789abcdef", want: "1.0.0 (commit: 01234567, built: today)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := New()
			app.SetVersion("1.0.0", tt.commit, "today")
			assert.Equal(t, tt.want, app.cli.Version)
		})
	}
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	reference := filepath.Join(dir, "ref.csv")
	same := filepath.Join(dir, "same.csv")
	other := filepath.Join(dir, "other.csv")
	require.NoError(t, os.WriteFile(reference, []byte("time,power\n0,10\n"), 0644))
	require.NoError(t, os.WriteFile(same, []byte("time,power\n0,10\n"), 0644))
	require.NoError(t, os.WriteFile(other, []byte("time,power\n0,11\n"), 0644))

	t.Run("match", func(t *testing.T) {
		assert.NoError(t, New().Run([]string{AppName, "compare", reference, same}))
	})

	t.Run("mismatch", func(t *testing.T) {
		err := New().Run([]string{AppName, "compare", reference, other})
		var discrepancy *regress.DiscrepancyError
		require.ErrorAs(t, err, &discrepancy)
		require.NotNil(t, discrepancy.Report)
		assert.Len(t, discrepancy.Report.Discrepancies, 1)
	})

	t.Run("wrong argument count", func(t *testing.T) {
		assert.Error(t, New().Run([]string{AppName, "compare", reference}))
	})
}

func TestPathFlagsShareEnvVars(t *testing.T) {
	want := map[string]string{
		"examples-dir": "ERINREG_EXAMPLES_DIR",
		"root":         "ERINREG_ROOT",
	}

	app := New()
	for _, name := range []string{"run", "locate", "list"} {
		t.Run(name, func(t *testing.T) {
			cmd := app.cli.Command(name)
			require.NotNil(t, cmd)

			found := map[string][]string{}
			for _, f := range cmd.Flags {
				if sf, ok := f.(*cli.StringFlag); ok {
					found[sf.Name] = sf.EnvVars
				}
			}
			for flagName, env := range want {
				assert.Equal(t, []string{env}, found[flagName], "flag --%s", flagName)
			}
		})
	}
}

func TestListReadsRootFromEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ERINREG_ROOT", root)

	// A directory where the log should be makes loading fail, so the error
	// shows which path list resolved.
	require.NoError(t, os.MkdirAll(history.DefaultPath(root), 0755))

	err := New().Run([]string{AppName, "list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load benchmarks")
}

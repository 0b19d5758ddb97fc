package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigladder/erinreg/model"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.Len(t, c.Cases, 35)
	assert.Equal(t, "01", c.Cases[0].ID)
	assert.Equal(t, "36", c.Cases[len(c.Cases)-1].ID)

	var smoke []string
	for i, ec := range c.Cases {
		assert.NotEqual(t, "34", ec.ID)
		if i > 0 {
			assert.Less(t, c.Cases[i-1].ID, ec.ID, "catalog must stay ordered")
		}
		if ec.Mode == model.ModeSmoke {
			smoke = append(smoke, ec.ID)
		}
	}
	assert.Equal(t, []string{"28"}, smoke)

	assert.Equal(t, DefaultPack, c.Pack)
	assert.Equal(t, DefaultBench, c.Bench)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
cases:
  - id: "01"
  - id: "02"
    mode: smoke
  - id: ft-illinois
    mode: full-diff
    dir: ft-illinois
bench:
  case: "01"
`))
	require.NoError(t, err)

	assert.Equal(t, []model.ExampleCase{
		{ID: "01", Mode: model.ModeFullDiff},
		{ID: "02", Mode: model.ModeSmoke},
		{ID: "ft-illinois", Mode: model.ModeFullDiff, Dir: "ft-illinois"},
	}, c.Cases)
	assert.Equal(t, DefaultPack, c.Pack)
	assert.Equal(t, model.BenchCase{Name: "01"}, c.Bench)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unknown mode",
			in:   "cases:\n  - id: \"01\"\n    mode: fuzzy\n",
			want: "unknown example mode",
		},
		{
			name: "missing id",
			in:   "cases:\n  - mode: smoke\n",
			want: "missing id",
		},
		{
			name: "duplicate id",
			in:   "cases:\n  - id: \"01\"\n  - id: \"01\"\n",
			want: "duplicate id",
		},
		{
			name: "incomplete pack",
			in:   "pack:\n  name: a\n",
			want: "packed_name",
		},
		{
			name: "invalid yaml",
			in:   "cases: [",
			want: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cases:\n  - id: \"07\"\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Cases, 1)
	assert.Equal(t, "07", c.Cases[0].ID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

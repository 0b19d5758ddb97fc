// Package catalog holds the ordered list of example cases exercised by the
// regression run. Adding a case is a data change: extend Default or supply a
// YAML catalog file.
package catalog

import (
	"fmt"
	"os"

	"github.com/bigladder/erinreg/model"
	"gopkg.in/yaml.v3"
)

// Catalog is the ordered set of example cases plus the load-pack and
// benchmark scenarios.
type Catalog struct {
	Cases []model.ExampleCase `yaml:"cases"`
	Pack  model.PackCase      `yaml:"pack"`
	Bench model.BenchCase     `yaml:"bench"`
}

const illinois = "ft-illinois"

// DefaultPack is the packed/unpacked scenario pair used when none is given.
var DefaultPack = model.PackCase{
	Name:       illinois,
	Dir:        illinois,
	PackedName: illinois + "_packed",
	PackedDir:  illinois + "_packed",
}

// DefaultBench is the example timed by the benchmark phase.
var DefaultBench = model.BenchCase{
	Name: illinois,
	Dir:  illinois,
}

// Default returns the built-in catalog.
func Default() *Catalog {
	var cases []model.ExampleCase
	for i := 1; i <= 36; i++ {
		id := fmt.Sprintf("%02d", i)
		switch id {
		case "28":
			cases = append(cases, model.ExampleCase{ID: id, Mode: model.ModeSmoke})
		case "34":
			// TODO: re-enable once results on Windows match the reference.
			continue
		default:
			cases = append(cases, model.ExampleCase{ID: id, Mode: model.ModeFullDiff})
		}
	}
	return &Catalog{
		Cases: cases,
		Pack:  DefaultPack,
		Bench: DefaultBench,
	}
}

// Load reads a YAML catalog. Omitted pack and bench sections fall back to
// the defaults.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Cases))
	for i := range c.Cases {
		ec := &c.Cases[i]
		if ec.ID == "" {
			return nil, fmt.Errorf("catalog case %d: missing id", i)
		}
		key := ec.Dir + "/" + ec.ID
		if seen[key] {
			return nil, fmt.Errorf("catalog case %d: duplicate id %q", i, ec.ID)
		}
		seen[key] = true

		mode, err := model.ParseMode(string(ec.Mode))
		if err != nil {
			return nil, fmt.Errorf("catalog case %q: %w", ec.ID, err)
		}
		ec.Mode = mode
	}

	if c.Pack == (model.PackCase{}) {
		c.Pack = DefaultPack
	} else if c.Pack.Name == "" || c.Pack.PackedName == "" {
		return nil, fmt.Errorf("catalog pack: name and packed_name are required")
	}
	if c.Bench.Name == "" {
		c.Bench = DefaultBench
	}

	return &c, nil
}

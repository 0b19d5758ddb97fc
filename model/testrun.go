package model

import "fmt"

// Mode selects how an example case is verified.
type Mode string

const (
	// ModeFullDiff runs the example and diffs both output tables against
	// their references.
	ModeFullDiff Mode = "full-diff"
	// ModeSmoke runs the example and only requires a zero exit code.
	ModeSmoke Mode = "smoke"
)

// ParseMode converts a catalog string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeFullDiff, ModeSmoke:
		return Mode(s), nil
	case "":
		return ModeFullDiff, nil
	}
	return "", fmt.Errorf("unknown example mode %q (want %q or %q)", s, ModeFullDiff, ModeSmoke)
}

// ExampleCase is a single regression unit of the catalog.
type ExampleCase struct {
	// Identifier, e.g. "01" for ex01.toml
	ID string `yaml:"id"`
	// Verification mode
	Mode Mode `yaml:"mode"`
	// Working directory relative to the examples directory (optional)
	Dir string `yaml:"dir,omitempty"`
}

// Scenario returns the scenario file name for the case.
func (c ExampleCase) Scenario() string {
	return ScenarioFile(c.ID)
}

// ReferenceOut returns the reference output table file name.
func (c ExampleCase) ReferenceOut() string {
	return fmt.Sprintf("ex%s-out.csv", c.ID)
}

// ReferenceStats returns the reference stats table file name.
func (c ExampleCase) ReferenceStats() string {
	return fmt.Sprintf("ex%s-stats.csv", c.ID)
}

// ScenarioFile returns the scenario file name for an example name.
func ScenarioFile(name string) string {
	return fmt.Sprintf("ex%s.toml", name)
}

// PackCase describes the packed/unpacked load equivalence scenario pair.
type PackCase struct {
	// Unpacked scenario name and its directory
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
	// Packed scenario name and its directory
	PackedName string `yaml:"packed_name"`
	PackedDir  string `yaml:"packed_dir"`
}

// BenchCase names the example timed by the benchmark phase.
type BenchCase struct {
	Name string `yaml:"case"`
	Dir  string `yaml:"dir,omitempty"`
}

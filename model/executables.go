package model

// ExecutableSet holds the resolved paths of the engine under test and its
// auxiliary test binaries. It is resolved once and not modified afterwards.
type ExecutableSet struct {
	// Directory all executables were resolved in
	BinDir string
	// Engine command-line interface
	CLI string
	// Unit test binary
	Tests string
	// Randomized test binary
	RandomTests string
	// Lookup-table test binary (empty when not built)
	LookupTableTests string
	// Switch test binary (empty when not built)
	SwitchTests string
	// Performance test binary
	Perf string
}

// TestBinaries returns the test binaries scheduled for the unit-test phase,
// skipping optional ones that were not found.
func (s ExecutableSet) TestBinaries() []string {
	var out []string
	for _, p := range []string{s.Tests, s.RandomTests, s.LookupTableTests, s.SwitchTests} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

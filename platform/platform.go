// Package platform resolves the engine's build output for the host platform.
// The platform is detected once at startup and passed explicitly to Resolve.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bigladder/erinreg/model"
	"github.com/rs/zerolog"
)

// Supported operating systems.
const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
)

// Executable base names, without platform suffix.
const (
	cliName         = "erin"
	testsName       = "erin_tests"
	randomTestsName = "erin_next_random_tests"
	lookupTableName = "erin_lookup_table_tests"
	switchTestsName = "erin_switch_tests"
	perfName        = "erin_next_stress_test"
)

// ConfigurationError reports a missing binary or build directory. It is fatal
// and raised before any phase runs.
type ConfigurationError struct {
	Artifact string
	Path     string
	Msg      string
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("configuration error: %s not found at %s", e.Artifact, e.Path)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Artifact, e.Msg)
}

// Platform identifies the host the harness runs on.
type Platform struct {
	OS string
}

// Detect returns the platform of the running process.
func Detect() (Platform, error) {
	return New(runtime.GOOS)
}

// New validates an operating system name.
func New(goos string) (Platform, error) {
	switch goos {
	case Linux, Darwin, Windows:
		return Platform{OS: goos}, nil
	}
	return Platform{}, &ConfigurationError{
		Artifact: "platform",
		Msg:      fmt.Sprintf("unhandled platform %q", goos),
	}
}

// ExecutableName appends the platform's executable suffix.
func (p Platform) ExecutableName(base string) string {
	if p.OS == Windows {
		return base + ".exe"
	}
	return base
}

// CandidateDirs returns the build output directories to try, in order,
// relative to the repository root.
func (p Platform) CandidateDirs(root string) []string {
	if p.OS == Windows {
		return []string{
			filepath.Join(root, "build", "bin", "Release"),
			filepath.Join(root, "build", "bin", "Debug"),
			filepath.Join(root, "out", "build", "x64-Debug", "bin"),
			filepath.Join(root, "out", "build", "x64-Release", "bin"),
		}
	}
	return []string{filepath.Join(root, "build", "bin")}
}

// Options adjusts resolution.
type Options struct {
	// BinDir replaces the platform's candidate directories when set.
	BinDir string
}

// Resolve locates the executable set for the platform below root. The first
// candidate directory that exists is used for every executable.
func Resolve(logger zerolog.Logger, p Platform, root string, opts Options) (model.ExecutableSet, error) {
	candidates := p.CandidateDirs(root)
	if opts.BinDir != "" {
		candidates = []string{opts.BinDir}
	}

	binDir := ""
	for _, dir := range candidates {
		logger.Debug().Str("dir", dir).Msg("Checking build directory")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			binDir = dir
			break
		}
	}
	if binDir == "" {
		return model.ExecutableSet{}, &ConfigurationError{
			Artifact: "build directory",
			Msg:      "none of " + strings.Join(candidates, ", ") + " exist",
		}
	}

	if abs, err := filepath.Abs(binDir); err == nil {
		binDir = abs
	}

	set := model.ExecutableSet{BinDir: binDir}

	required := []struct {
		name string
		dst  *string
	}{
		{cliName, &set.CLI},
		{testsName, &set.Tests},
		{randomTestsName, &set.RandomTests},
		{perfName, &set.Perf},
	}
	for _, r := range required {
		path := filepath.Join(binDir, p.ExecutableName(r.name))
		if !isFile(path) {
			return model.ExecutableSet{}, &ConfigurationError{Artifact: r.name, Path: path}
		}
		*r.dst = path
	}

	optional := []struct {
		name string
		dst  *string
	}{
		{lookupTableName, &set.LookupTableTests},
		{switchTestsName, &set.SwitchTests},
	}
	for _, o := range optional {
		path := filepath.Join(binDir, p.ExecutableName(o.name))
		if isFile(path) {
			*o.dst = path
		} else {
			logger.Debug().Str("binary", o.name).Msg("Optional test binary not built, skipping")
		}
	}

	logger.Info().Str("dir", binDir).Msg("Resolved binary directory")
	return set, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

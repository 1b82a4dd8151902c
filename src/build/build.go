// Package build runs cargo for each resolved target, collects the produced
// binaries into a flat dist directory, and reports the outcome.
//
// Builds run one at a time in resolved order. Cargo shares incremental state
// and lock files under the build root, so concurrent invocations against the
// same project are not safe.
package build

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/sofmeright/crossfreight/src/config"
	"github.com/sofmeright/crossfreight/src/platform"
	"github.com/sofmeright/crossfreight/src/target"
)

var (
	// ErrNoTargets is returned when resolution leaves nothing to build.
	ErrNoTargets = errors.New("no valid targets specified")

	// ErrCrossToolchainMissing aborts a batch before any target builds.
	ErrCrossToolchainMissing = errors.New("cross toolchain missing")
)

// Gate reports and installs the toolchains a batch depends on.
type Gate interface {
	IsNativeToolchainInstalled() bool
	InstallNativeToolchain(ctx context.Context) bool
	IsCrossShimInstalled() bool
	IsCrossSdkInstalled() bool
	IsCrossBuildPluginInstalled() bool
	InstallCrossToolchain(ctx context.Context) bool
	InstallEverything(ctx context.Context) bool
	Environment() map[string]string
	RegisterTarget(ctx context.Context, triple string) bool
}

// Logger is the progress output used while building.
type Logger interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Debug(format string, args ...any)
	Step(i, n int, msg string)
	Target(friendly, triple string)
	Newline()
}

// Config is the immutable per-run build configuration.
type Config struct {
	Release bool
	Clean   bool
	Host    platform.Host

	ProjectRoot string
	TargetDir   string // cargo build root
	DistDir     string
	BinaryName  string

	// Cargo is the cargo executable. Empty means "cargo" from PATH.
	Cargo string
}

// Profile returns the cargo profile directory name.
func (c Config) Profile() string {
	if c.Release {
		return config.ProfileRelease
	}
	return config.ProfileDebug
}

func (c Config) cargo() string {
	if c.Cargo == "" {
		return "cargo"
	}
	return c.Cargo
}

func (c Config) buildRoot() string {
	if c.TargetDir != "" {
		return c.TargetDir
	}
	return filepath.Join(c.ProjectRoot, "target")
}

// Result is the outcome of one target's build. ArtifactPath is set only when
// the build succeeded and the binary was found; Diagnostic only on failure.
type Result struct {
	Target       target.Target
	Succeeded    bool
	ArtifactPath string
	Diagnostic   string
	Duration     time.Duration
}

// AllSucceeded reports whether results is non-empty and every build passed.
func AllSucceeded(results []Result) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Succeeded {
			return false
		}
	}
	return true
}

// AnySucceeded reports whether at least one build passed.
func AnySucceeded(results []Result) bool {
	for _, r := range results {
		if r.Succeeded {
			return true
		}
	}
	return false
}

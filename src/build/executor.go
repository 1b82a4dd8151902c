package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sofmeright/crossfreight/src/process"
	"github.com/sofmeright/crossfreight/src/target"
)

// maxDiagnosticLines caps how much cargo stderr a failed Result keeps.
const maxDiagnosticLines = 20

// Executor runs cargo builds through a process.Runner.
type Executor struct {
	cfg    Config
	gate   Gate
	runner process.Runner
	log    Logger
}

// NewExecutor creates an executor.
func NewExecutor(cfg Config, gate Gate, runner process.Runner, log Logger) *Executor {
	return &Executor{cfg: cfg, gate: gate, runner: runner, log: log}
}

// Config returns the executor's configuration.
func (e *Executor) Config() Config { return e.cfg }

// Args returns the cargo argument vector for a target:
//
//	build|zigbuild [--release] [--target <triple>]
//
// Native targets never pass --target so cargo uses its default host output
// layout.
func Args(t target.Target, release bool) []string {
	var args []string
	switch t.Strategy.Kind {
	case target.KindCross:
		args = append(args, t.Strategy.Shim)
	default:
		args = append(args, "build")
	}
	if release {
		args = append(args, "--release")
	}
	if !t.IsNative() {
		args = append(args, "--target", t.Triple)
	}
	return args
}

// Command returns the full invocation for a target.
func (e *Executor) Command(t target.Target) process.Command {
	return process.Command{
		Name: e.cfg.cargo(),
		Args: Args(t, e.cfg.Release),
		Env:  e.gate.Environment(),
		Dir:  e.cfg.ProjectRoot,
	}
}

// BinaryPath returns where cargo writes the binary for t:
// <root>/<profile>/<name> for native builds, <root>/<triple>/<profile>/<name>
// otherwise.
func BinaryPath(buildRoot, profile, name string, t target.Target) string {
	if t.IsNative() {
		return filepath.Join(buildRoot, profile, name)
	}
	return filepath.Join(buildRoot, t.Triple, profile, name)
}

// BuildOne builds a single target. Failures are reported in the Result.
func (e *Executor) BuildOne(ctx context.Context, t target.Target) Result {
	start := time.Now()
	cmd := e.Command(t)

	e.log.Info("Building for %s...", t.FriendlyName)
	e.log.Debug("Running: %s", cmd)

	res, err := e.runner.Run(ctx, cmd)
	elapsed := time.Since(start)
	if err != nil {
		e.log.Error("Build failed for %s: %v", t.FriendlyName, err)
		return Result{Target: t, Diagnostic: err.Error(), Duration: elapsed}
	}

	if res.ExitCode != 0 {
		diag := Diagnostic(res.Stderr)
		e.log.Error("Build failed for %s (exit %d)", t.FriendlyName, res.ExitCode)
		for _, line := range strings.Split(diag, "\n") {
			if line != "" {
				e.log.Debug("  %s", line)
			}
		}
		return Result{Target: t, Diagnostic: diag, Duration: elapsed}
	}

	result := Result{Target: t, Succeeded: true, Duration: elapsed}
	bin := BinaryPath(e.cfg.buildRoot(), e.cfg.Profile(), e.cfg.BinaryName, t)
	if _, err := os.Stat(bin); err == nil {
		result.ArtifactPath = bin
	} else {
		e.log.Warn("Built %s but no binary at %s", t.FriendlyName, bin)
	}
	e.log.Success("Built: %s", t.FriendlyName)
	return result
}

// Diagnostic keeps the first non-blank lines of stderr.
func Diagnostic(stderr string) string {
	var lines []string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxDiagnosticLines {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// EnsureToolchainSupport registers every non-native target with rustup. It
// keeps going past failures and returns true only if all succeeded.
func (e *Executor) EnsureToolchainSupport(ctx context.Context, targets []target.Target) bool {
	ok := true
	for _, t := range targets {
		if t.IsNative() {
			continue
		}
		e.log.Debug("Ensuring target %s is installed", t.Triple)
		if !e.gate.RegisterTarget(ctx, t.Triple) {
			e.log.Warn("Could not add target %s", t.Triple)
			ok = false
		}
	}
	return ok
}

// Preflight checks that the cross shim, the macOS SDK and the cargo plugin
// are present when any target needs them.
func (e *Executor) Preflight(targets []target.Target) error {
	if !target.AnyNeedsCrossToolchain(targets) {
		return nil
	}
	var missing []string
	if !e.gate.IsCrossShimInstalled() {
		missing = append(missing, "zig")
	}
	if !e.gate.IsCrossSdkInstalled() {
		missing = append(missing, "macOS SDK")
	}
	if !e.gate.IsCrossBuildPluginInstalled() {
		missing = append(missing, "cargo-zigbuild")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required for macOS cross-compilation (run setup first)",
			ErrCrossToolchainMissing, strings.Join(missing, ", "))
	}
	return nil
}

// BuildBatch builds targets sequentially, in order, one Result per target.
// A missing cross toolchain aborts the whole batch before anything builds.
// Cancelling ctx stops the batch with an error and no results.
func (e *Executor) BuildBatch(ctx context.Context, targets []target.Target) ([]Result, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	if !e.EnsureToolchainSupport(ctx, targets) {
		e.log.Warn("Some targets could not be installed")
	}

	if err := e.Preflight(targets); err != nil {
		e.log.Error("%v", err)
		return nil, err
	}

	results := make([]Result, 0, len(targets))
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build interrupted: %w", err)
		}
		e.log.Step(i+1, len(targets), "Building "+t.FriendlyName)
		res := e.BuildOne(ctx, t)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build interrupted: %w", err)
		}
		results = append(results, res)
	}
	return results, nil
}

// Clean runs cargo clean and removes the dist directory. A failing cargo
// clean is only a warning.
func (e *Executor) Clean(ctx context.Context) bool {
	e.log.Info("Cleaning build artifacts...")

	cmd := process.Command{
		Name: e.cfg.cargo(),
		Args: []string{"clean"},
		Env:  e.gate.Environment(),
		Dir:  e.cfg.ProjectRoot,
	}
	e.log.Debug("Running: %s", cmd)

	res, err := e.runner.Run(ctx, cmd)
	switch {
	case err != nil:
		e.log.Warn("cargo clean failed: %v", err)
	case res.ExitCode != 0:
		e.log.Warn("cargo clean failed: %s", strings.TrimSpace(res.Stderr))
	}

	if _, err := os.Stat(e.cfg.DistDir); err == nil {
		if err := os.RemoveAll(e.cfg.DistDir); err != nil {
			e.log.Error("Clean failed: %v", err)
			return false
		}
		e.log.Info("Removed %s", e.cfg.DistDir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		e.log.Error("Clean failed: %v", err)
		return false
	}

	e.log.Success("Clean complete")
	return true
}

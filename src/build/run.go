package build

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sofmeright/crossfreight/src/output"
	"github.com/sofmeright/crossfreight/src/process"
	"github.com/sofmeright/crossfreight/src/target"
)

// Run is one build invocation: clean, resolve, toolchain preflight, build,
// publish, report.
type Run struct {
	Config Config
	Gate   Gate
	Runner process.Runner
	Log    Logger

	// Out receives the framed Plan, Dist and Summary sections.
	Out   io.Writer
	Color bool

	// AutoSetup installs missing toolchains instead of failing.
	AutoSetup bool
	// DryRun prints the plan and stops before running anything.
	DryRun bool
	// JUnitDir, when set, receives build.xml.
	JUnitDir string
	// Project names the JUnit document.
	Project string
}

// RunBuild executes the batch for specs and reports whether every resolved
// target built. Resolution yielding nothing, an aborted preflight, or any
// failed target all return false.
func RunBuild(ctx context.Context, r Run, specs []string) bool {
	start := time.Now()
	if r.Out == nil {
		r.Out = io.Discard
	}
	exec := NewExecutor(r.Config, r.Gate, r.Runner, r.Log)

	if r.Config.Clean && !r.DryRun {
		exec.Clean(ctx)
	}

	targets, unknown := target.Resolve(specs, r.Config.Host)
	for _, spec := range unknown {
		r.Log.Warn("Unknown target: %s", spec)
	}
	if len(targets) == 0 {
		r.Log.Error("%v", ErrNoTargets)
		return false
	}

	r.Log.Info("Building for %d target(s):", len(targets))
	for _, t := range targets {
		r.Log.Target(t.FriendlyName, t.Triple)
	}
	r.Log.Newline()

	if r.DryRun {
		printPlan(r, exec, targets)
		return true
	}

	if !r.ensureToolchains(ctx, targets) {
		return false
	}

	results, err := exec.BuildBatch(ctx, targets)
	if err != nil {
		switch {
		case errors.Is(err, ErrCrossToolchainMissing):
			r.Log.Error("Batch aborted before building")
		case ctx.Err() != nil:
			r.Log.Error("%v", err)
		}
		return false
	}

	var published []Published
	if AnySucceeded(results) {
		published = Publish(results, r.Config.DistDir, r.Config.BinaryName, r.Log)
		printDist(r, published)
	}

	if r.JUnitDir != "" {
		path, err := output.WriteJUnit(r.JUnitDir, "build.xml", JUnitReport(r.Project, results, time.Since(start)))
		if err != nil {
			r.Log.Warn("Writing JUnit report: %v", err)
		} else {
			r.Log.Debug("JUnit report: %s", path)
		}
	}

	ok := AllSucceeded(results)
	printSummary(r, results, time.Since(start), ok)
	return ok
}

// ensureToolchains makes sure the native toolchain exists and, when any
// target needs it, the cross toolchain. With AutoSetup off anything missing
// fails the run before the batch starts.
func (r Run) ensureToolchains(ctx context.Context, targets []target.Target) bool {
	if !r.Gate.IsNativeToolchainInstalled() {
		if !r.AutoSetup {
			r.Log.Error("Rust toolchain not found. Run `crossfreight setup --rust` first.")
			return false
		}
		r.Log.Info("Rust toolchain not found; installing")
		if !r.Gate.InstallNativeToolchain(ctx) {
			return false
		}
	}

	if !target.AnyNeedsCrossToolchain(targets) {
		return true
	}
	if r.Gate.IsCrossShimInstalled() && r.Gate.IsCrossSdkInstalled() && r.Gate.IsCrossBuildPluginInstalled() {
		return true
	}
	if !r.AutoSetup {
		r.Log.Error("Cross-compilation tools missing. Run `crossfreight setup --cross` first.")
		return false
	}
	r.Log.Info("Cross-compilation setup required")
	return r.Gate.InstallCrossToolchain(ctx)
}

func printPlan(r Run, exec *Executor, targets []target.Target) {
	cfg := exec.Config()
	sec := output.NewSection(r.Out, "Plan", 0, r.Color)
	for i, t := range targets {
		if i > 0 {
			sec.Separator()
		}
		sec.KV("target", t.String())
		sec.KV("strategy", t.Strategy.Kind.String())
		sec.KV("command", exec.Command(t).String())
		sec.KV("artifact", BinaryPath(cfg.buildRoot(), cfg.Profile(), cfg.BinaryName, t))
	}
	sec.Close()
}

func printDist(r Run, published []Published) {
	artifacts := make([]output.Artifact, 0, len(published))
	for _, p := range published {
		artifacts = append(artifacts, output.Artifact{Path: p.Path, Size: p.SizeLabel})
	}
	sec := output.NewSection(r.Out, "Dist", 0, r.Color)
	output.ArtifactTable(sec, artifacts, r.Color)
	sec.Close()
}

func printSummary(r Run, results []Result, elapsed time.Duration, ok bool) {
	sec := output.NewSection(r.Out, "Summary", elapsed, r.Color)
	for _, res := range results {
		status, detail := "success", res.Target.Triple
		if !res.Succeeded {
			status = "failed"
		} else if res.ArtifactPath == "" {
			status, detail = "skipped", res.Target.Triple+" (binary not found)"
		}
		output.SummaryRow(r.Out, res.Target.FriendlyName, status, detail, r.Color)
		if !res.Succeeded && res.Diagnostic != "" {
			output.Plain(r.Out, res.Diagnostic)
		}
	}
	sec.Separator()
	total := "success"
	if !ok {
		total = "failed"
	}
	output.SummaryTotal(r.Out, elapsed, total, r.Color)
	sec.Close()
}

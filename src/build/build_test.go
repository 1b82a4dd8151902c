package build

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/crossfreight/src/output"
	"github.com/sofmeright/crossfreight/src/platform"
	"github.com/sofmeright/crossfreight/src/process"
	"github.com/sofmeright/crossfreight/src/target"
)

var linuxHost = platform.Host{OS: platform.OSLinux, Arch: platform.ArchX86_64}

type fakeRunner struct {
	calls []process.Command
	fn    func(process.Command) (process.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	f.calls = append(f.calls, cmd)
	if f.fn == nil {
		return process.Result{}, nil
	}
	return f.fn(cmd)
}

type fakeGate struct {
	native, shim, sdk, plugin bool
	failRegister              map[string]bool
	registered                []string
	installedNative           int
	installedCross            int
}

func (g *fakeGate) IsNativeToolchainInstalled() bool  { return g.native }
func (g *fakeGate) IsCrossShimInstalled() bool        { return g.shim }
func (g *fakeGate) IsCrossSdkInstalled() bool         { return g.sdk }
func (g *fakeGate) IsCrossBuildPluginInstalled() bool { return g.plugin }
func (g *fakeGate) Environment() map[string]string    { return map[string]string{"SDKROOT": "/sdk"} }

func (g *fakeGate) InstallNativeToolchain(context.Context) bool {
	g.installedNative++
	g.native = true
	return true
}

func (g *fakeGate) InstallCrossToolchain(context.Context) bool {
	g.installedCross++
	g.shim, g.sdk, g.plugin = true, true, true
	return true
}

func (g *fakeGate) InstallEverything(ctx context.Context) bool {
	return g.InstallNativeToolchain(ctx) && g.InstallCrossToolchain(ctx)
}

func (g *fakeGate) RegisterTarget(_ context.Context, triple string) bool {
	g.registered = append(g.registered, triple)
	return !g.failRegister[triple]
}

func readyGate() *fakeGate {
	return &fakeGate{native: true, shim: true, sdk: true, plugin: true}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	return Config{
		Release:     true,
		Host:        linuxHost,
		ProjectRoot: root,
		TargetDir:   filepath.Join(root, "target"),
		DistDir:     filepath.Join(root, "dist"),
		BinaryName:  "app",
	}
}

func resolve(t *testing.T, specs ...string) []target.Target {
	t.Helper()
	targets, unknown := target.Resolve(specs, linuxHost)
	require.Empty(t, unknown)
	return targets
}

func tripleOf(cmd process.Command) string {
	for i, a := range cmd.Args {
		if a == "--target" && i+1 < len(cmd.Args) {
			return cmd.Args[i+1]
		}
	}
	return ""
}

// cargoStub simulates cargo: it writes the binary where cargo would and
// fails for the listed triples.
func cargoStub(t *testing.T, cfg Config, fail ...string) func(process.Command) (process.Result, error) {
	failing := map[string]bool{}
	for _, f := range fail {
		failing[f] = true
	}
	return func(cmd process.Command) (process.Result, error) {
		triple := tripleOf(cmd)
		if failing[triple] {
			return process.Result{ExitCode: 101, Stderr: "\nerror[E0425]: cannot find value `x`\n\n --> src/main.rs:3:5\n"}, nil
		}
		dir := filepath.Join(cfg.TargetDir, cfg.Profile())
		if triple != "" {
			dir = filepath.Join(cfg.TargetDir, triple, cfg.Profile())
		}
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, cfg.BinaryName), []byte("ELF-"+triple), 0o644))
		return process.Result{}, nil
	}
}

func testLogger() (*output.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return output.NewLogger(&buf, false, true), &buf
}

func TestArgs(t *testing.T) {
	targets := resolve(t, "native", "linux-arm64", "macos-arm64")

	assert.Equal(t, []string{"build", "--release"}, Args(targets[0], true))
	assert.Equal(t, []string{"build"}, Args(targets[0], false))
	assert.Equal(t, []string{"build", "--target", "aarch64-unknown-linux-gnu"}, Args(targets[1], false))
	assert.Equal(t, []string{"zigbuild", "--release", "--target", "aarch64-apple-darwin"}, Args(targets[2], true))
}

func TestCommandUsesGateEnvironment(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cargo = "/tools/cargo/bin/cargo"
	log, _ := testLogger()
	exec := NewExecutor(cfg, readyGate(), &fakeRunner{}, log)

	cmd := exec.Command(resolve(t, "macos-x86_64")[0])
	assert.Equal(t, "/tools/cargo/bin/cargo", cmd.Name)
	assert.Equal(t, cfg.ProjectRoot, cmd.Dir)
	assert.Equal(t, "/sdk", cmd.Env["SDKROOT"])
	assert.Equal(t, "/tools/cargo/bin/cargo zigbuild --release --target x86_64-apple-darwin", cmd.String())
}

func TestBinaryPath(t *testing.T) {
	targets := resolve(t, "native", "macos-arm64")
	assert.Equal(t, filepath.Join("target", "release", "app"), BinaryPath("target", "release", "app", targets[0]))
	assert.Equal(t, filepath.Join("target", "aarch64-apple-darwin", "debug", "app"), BinaryPath("target", "debug", "app", targets[1]))
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.0B"},
		{500, "500.0B"},
		{1023, "1023.0B"},
		{1024, "1.0KB"},
		{1536, "1.5KB"},
		{1048576, "1.0MB"},
		{5 << 30, "5.0GB"},
		{1 << 40, "1.0TB"},
		{1 << 50, "1024.0TB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatSize(tc.in), "%d bytes", tc.in)
	}
}

func TestDiagnostic(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("line\n\n   \n")
	}
	diag := Diagnostic(b.String())
	assert.Len(t, strings.Split(diag, "\n"), 20)
	assert.Equal(t, "", Diagnostic("\n  \n"))
}

func TestBuildBatchContinuesPastFailures(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{fn: cargoStub(t, cfg, "aarch64-unknown-linux-gnu")}
	log, _ := testLogger()
	exec := NewExecutor(cfg, readyGate(), runner, log)

	targets := resolve(t, "native", "linux-arm64", "macos-arm64")
	results, err := exec.BuildBatch(context.Background(), targets)
	require.NoError(t, err)
	require.Len(t, results, 3)

	got := make([]bool, len(results))
	for i, r := range results {
		got[i] = r.Succeeded
		assert.Equal(t, targets[i].Triple, r.Target.Triple, "order preserved")
	}
	assert.Equal(t, []bool{true, false, true}, got)

	assert.Empty(t, results[1].ArtifactPath)
	assert.Contains(t, results[1].Diagnostic, "error[E0425]")
	assert.Empty(t, results[0].Diagnostic)
	assert.Equal(t, filepath.Join(cfg.TargetDir, "release", "app"), results[0].ArtifactPath)

	published := Publish(results, cfg.DistDir, cfg.BinaryName, log)
	require.Len(t, published, 2)
	assert.Equal(t, filepath.Join(cfg.DistDir, "app-linux-x86_64"), published[0].Path)
	assert.Equal(t, filepath.Join(cfg.DistDir, "app-macos-aarch64"), published[1].Path)

	fi, err := os.Stat(published[1].Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), fi.Mode().Perm())
	assert.Equal(t, FormatSize(fi.Size()), published[1].SizeLabel)

	assert.False(t, AllSucceeded(results))
	assert.True(t, AnySucceeded(results))
}

func TestBuildBatchAbortsWithoutCrossShim(t *testing.T) {
	cfg := testConfig(t)
	runner := &fakeRunner{fn: cargoStub(t, cfg)}
	gate := &fakeGate{native: true, plugin: true}
	log, buf := testLogger()
	exec := NewExecutor(cfg, gate, runner, log)

	results, err := exec.BuildBatch(context.Background(), resolve(t, "native", "macos-arm64"))
	require.ErrorIs(t, err, ErrCrossToolchainMissing)
	assert.Empty(t, results)
	assert.Empty(t, runner.calls, "nothing may build after an aborted preflight")
	assert.Contains(t, buf.String(), "zig")
}

func TestBuildBatchAbortsWithoutPlugin(t *testing.T) {
	cfg := testConfig(t)
	log, _ := testLogger()
	exec := NewExecutor(cfg, &fakeGate{native: true, shim: true, sdk: true}, &fakeRunner{}, log)

	err := exec.Preflight(resolve(t, "macos"))
	require.ErrorIs(t, err, ErrCrossToolchainMissing)
	assert.Contains(t, err.Error(), "cargo-zigbuild")
	assert.NotContains(t, err.Error(), "zig,")

	assert.NoError(t, exec.Preflight(resolve(t, "linux")), "linux targets never need the shim")
}

func TestBuildBatchAbortsWithoutSDK(t *testing.T) {
	cfg := testConfig(t)
	log, _ := testLogger()
	runner := &fakeRunner{}
	exec := NewExecutor(cfg, &fakeGate{native: true, shim: true, plugin: true}, runner, log)

	err := exec.Preflight(resolve(t, "macos-arm64"))
	require.ErrorIs(t, err, ErrCrossToolchainMissing)
	assert.Contains(t, err.Error(), "macOS SDK")
	assert.NotContains(t, err.Error(), "cargo-zigbuild")

	results, err := exec.BuildBatch(context.Background(), resolve(t, "macos-arm64", "linux-x86_64"))
	require.ErrorIs(t, err, ErrCrossToolchainMissing)
	assert.Nil(t, results)
	assert.Empty(t, runner.calls)
}

func TestBuildBatchStopsWhenCancelled(t *testing.T) {
	cfg := testConfig(t)
	log, buf := testLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stub := cargoStub(t, cfg)
	runner := &fakeRunner{fn: func(cmd process.Command) (process.Result, error) {
		cancel()
		return stub(cmd)
	}}
	exec := NewExecutor(cfg, readyGate(), runner, log)

	results, err := exec.BuildBatch(ctx, resolve(t, "linux-x86_64", "linux-arm64", "macos-arm64"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
	assert.Len(t, runner.calls, 1)
	assert.NotContains(t, buf.String(), "[2/3]")
}

func TestBuildBatchEmpty(t *testing.T) {
	log, _ := testLogger()
	exec := NewExecutor(testConfig(t), readyGate(), &fakeRunner{}, log)
	_, err := exec.BuildBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoTargets)
}

func TestEnsureToolchainSupport(t *testing.T) {
	gate := readyGate()
	gate.failRegister = map[string]bool{"aarch64-unknown-linux-gnu": true}
	log, _ := testLogger()
	exec := NewExecutor(testConfig(t), gate, &fakeRunner{}, log)

	ok := exec.EnsureToolchainSupport(context.Background(), resolve(t, "native", "linux-arm64", "macos-x86_64"))
	assert.False(t, ok)
	if diff := cmp.Diff([]string{"aarch64-unknown-linux-gnu", "x86_64-apple-darwin"}, gate.registered); diff != "" {
		t.Errorf("registered targets mismatch (-want +got):\n%s", diff)
	}

	gate.failRegister = nil
	assert.True(t, exec.EnsureToolchainSupport(context.Background(), resolve(t, "linux")))
}

func TestBuildOneSucceededWithoutArtifact(t *testing.T) {
	log, buf := testLogger()
	exec := NewExecutor(testConfig(t), readyGate(), &fakeRunner{}, log)

	res := exec.BuildOne(context.Background(), resolve(t, "native")[0])
	assert.True(t, res.Succeeded)
	assert.Empty(t, res.ArtifactPath)
	assert.Contains(t, buf.String(), "no binary at")
}

func TestBuildOneStartFailure(t *testing.T) {
	runner := &fakeRunner{fn: func(process.Command) (process.Result, error) {
		return process.Result{ExitCode: -1}, errors.New("running cargo: executable file not found in $PATH")
	}}
	log, _ := testLogger()
	exec := NewExecutor(testConfig(t), readyGate(), runner, log)

	res := exec.BuildOne(context.Background(), resolve(t, "native")[0])
	assert.False(t, res.Succeeded)
	assert.Contains(t, res.Diagnostic, "executable file not found")
}

func TestPublishSkipsUnreadableArtifact(t *testing.T) {
	cfg := testConfig(t)
	log, buf := testLogger()
	targets := resolve(t, "native", "linux-arm64")

	good := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.WriteFile(good, bytes.Repeat([]byte{1}, 1536), 0o644))

	published := Publish([]Result{
		{Target: targets[0], Succeeded: true, ArtifactPath: filepath.Join(t.TempDir(), "gone")},
		{Target: targets[1], Succeeded: true, ArtifactPath: good},
	}, cfg.DistDir, "app", log)

	require.Len(t, published, 1)
	assert.Equal(t, "linux-aarch64", published[0].Target)
	assert.Equal(t, "1.5KB", published[0].SizeLabel)
	assert.Contains(t, buf.String(), "Failed to copy")
}

func TestCleanToleratesCargoFailure(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DistDir, "app-linux-x86_64"), []byte("x"), 0o755))

	runner := &fakeRunner{fn: func(process.Command) (process.Result, error) {
		return process.Result{ExitCode: 101, Stderr: "error: could not find `Cargo.toml`"}, nil
	}}
	log, buf := testLogger()
	exec := NewExecutor(cfg, readyGate(), runner, log)

	assert.True(t, exec.Clean(context.Background()))
	assert.NoDirExists(t, cfg.DistDir)
	assert.Contains(t, buf.String(), "cargo clean failed")
	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"clean"}, runner.calls[0].Args)

	// Already clean.
	assert.True(t, exec.Clean(context.Background()))
}

func TestJUnitReport(t *testing.T) {
	targets := resolve(t, "native", "linux-arm64")
	report := JUnitReport("app", []Result{
		{Target: targets[0], Succeeded: true},
		{Target: targets[1], Diagnostic: "linker failed"},
	}, 0)

	assert.Equal(t, 2, report.Tests)
	assert.Equal(t, 1, report.Failures)
	require.Len(t, report.Suites, 1)
	cases := report.Suites[0].Cases
	require.Len(t, cases, 2)
	assert.Nil(t, cases[0].Failure)
	require.NotNil(t, cases[1].Failure)
	assert.Equal(t, "linker failed", cases[1].Failure.Body)
	assert.Equal(t, "crossfreight.build.aarch64-unknown-linux-gnu", cases[1].Classname)
}

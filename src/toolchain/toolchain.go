// Package toolchain detects, installs, and wires up the tools a cross build
// needs: rustup and cargo for native builds, and zig, cargo-zigbuild, and a
// macOS SDK for Apple targets built from other hosts.
//
// Locally installed tools live under a single tools directory:
//
//	<tools>/cargo/                      CARGO_HOME
//	<tools>/rustup/                     RUSTUP_HOME
//	<tools>/zig-<os>-<arch>-<version>/  zig compiler
//	<tools>/MacOSX<version>.sdk/        SDKROOT
//
// Presence checks prefer the tools directory and fall back to PATH.
package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sofmeright/crossfreight/src/config"
	"github.com/sofmeright/crossfreight/src/platform"
	"github.com/sofmeright/crossfreight/src/process"
)

// Logger is the progress output the installer writes to.
type Logger interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Debug(format string, args ...any)
}

// Installer is the toolchain gate used by the build executor.
type Installer struct {
	ToolsDir string
	Host     platform.Host
	Versions config.ToolchainConfig
	Runner   process.Runner
	Log      Logger

	// Downloader fetches tarballs and installers. Defaults to HTTP with an
	// on-disk cache.
	Downloader Downloader
}

// New creates an Installer rooted at toolsDir.
func New(toolsDir string, host platform.Host, versions config.ToolchainConfig, runner process.Runner, log Logger) *Installer {
	return &Installer{
		ToolsDir:   toolsDir,
		Host:       host,
		Versions:   versions,
		Runner:     runner,
		Log:        log,
		Downloader: NewHTTPDownloader(""),
	}
}

// CargoHome is the local CARGO_HOME.
func (in *Installer) CargoHome() string { return filepath.Join(in.ToolsDir, "cargo") }

// RustupHome is the local RUSTUP_HOME.
func (in *Installer) RustupHome() string { return filepath.Join(in.ToolsDir, "rustup") }

// ZigDir is the directory the zig tarball extracts to.
func (in *Installer) ZigDir() string {
	return filepath.Join(in.ToolsDir, zigArchiveName(in.Host, in.Versions.ZigVersion))
}

// SDKDir is the directory the macOS SDK tarball extracts to.
func (in *Installer) SDKDir() string {
	return filepath.Join(in.ToolsDir, "MacOSX"+in.Versions.MacOSSDKVersion+".sdk")
}

func zigArchiveName(host platform.Host, version string) string {
	return "zig-" + host.OS + "-" + host.Arch + "-" + version
}

func (in *Installer) cargoBin() string { return filepath.Join(in.CargoHome(), "bin") }

// findTool returns the local path for name under dir if it exists,
// otherwise the PATH lookup, otherwise "".
func findTool(dir, name string) string {
	if dir != "" {
		local := filepath.Join(dir, name)
		if isFile(local) {
			return local
		}
	}
	return process.Lookup(name)
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// Cargo returns the cargo executable path, or "cargo" if unresolved.
func (in *Installer) Cargo() string {
	if p := findTool(in.cargoBin(), "cargo"); p != "" {
		return p
	}
	return "cargo"
}

// IsNativeToolchainInstalled reports whether cargo and rustc are available.
func (in *Installer) IsNativeToolchainInstalled() bool {
	return findTool(in.cargoBin(), "cargo") != "" && findTool(in.cargoBin(), "rustc") != ""
}

// IsCrossShimInstalled reports whether zig is available.
func (in *Installer) IsCrossShimInstalled() bool {
	return findTool(in.ZigDir(), "zig") != ""
}

// IsCrossSdkInstalled reports whether a macOS SDK is available, either
// locally or through an existing SDKROOT.
func (in *Installer) IsCrossSdkInstalled() bool {
	if isDir(in.SDKDir()) {
		return true
	}
	if root := os.Getenv("SDKROOT"); root != "" && isDir(root) {
		return true
	}
	return false
}

// IsCrossBuildPluginInstalled reports whether cargo-zigbuild is available.
func (in *Installer) IsCrossBuildPluginInstalled() bool {
	return findTool(in.cargoBin(), "cargo-zigbuild") != ""
}

// Environment returns the entries merged over the host environment for every
// build subprocess.
func (in *Installer) Environment() map[string]string {
	env := map[string]string{}

	var bins []string
	if isDir(in.CargoHome()) {
		env["CARGO_HOME"] = in.CargoHome()
		bins = append(bins, in.cargoBin())
	}
	if isDir(in.RustupHome()) {
		env["RUSTUP_HOME"] = in.RustupHome()
	}
	if isDir(in.ZigDir()) {
		bins = append(bins, in.ZigDir())
	}
	if isDir(in.SDKDir()) {
		env["SDKROOT"] = in.SDKDir()
	}

	if len(bins) > 0 {
		path := strings.Join(bins, string(os.PathListSeparator))
		if cur := os.Getenv("PATH"); cur != "" {
			path += string(os.PathListSeparator) + cur
		}
		env["PATH"] = path
	}

	return env
}

// RegisterTarget installs the standard library for triple through rustup.
// It is idempotent: rustup succeeds when the target is already present.
func (in *Installer) RegisterTarget(ctx context.Context, triple string) bool {
	rustup := findTool(in.cargoBin(), "rustup")
	if rustup == "" {
		in.Log.Warn("rustup not found; cannot add target %s", triple)
		return false
	}

	cmd := process.Command{
		Name: rustup,
		Args: []string{"target", "add", triple},
		Env:  in.Environment(),
	}
	in.Log.Debug("Running: %s", cmd)

	res, err := in.Runner.Run(ctx, cmd)
	if err != nil {
		in.Log.Warn("rustup target add %s: %v", triple, err)
		return false
	}
	if res.ExitCode != 0 {
		in.Log.Warn("rustup target add %s exited %d: %s", triple, res.ExitCode, strings.TrimSpace(res.Stderr))
		return false
	}
	return true
}

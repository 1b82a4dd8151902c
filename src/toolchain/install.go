package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sofmeright/crossfreight/src/process"
)

const rustupDistURL = "https://static.rust-lang.org/rustup/dist"

// RustupInitURL returns the rustup-init download for a host triple.
func RustupInitURL(hostTriple string) string {
	return rustupDistURL + "/" + hostTriple + "/rustup-init"
}

// InstallNativeToolchain installs rustup, cargo, and rustc into the tools
// directory. It is a no-op when the toolchain is already available.
func (in *Installer) InstallNativeToolchain(ctx context.Context) bool {
	if in.IsNativeToolchainInstalled() {
		in.Log.Success("Rust toolchain already installed")
		return true
	}

	hostTriple := in.Host.Triple()
	in.Log.Info("Installing Rust toolchain (%s) for %s", in.Versions.RustToolchain, hostTriple)

	installer, err := in.Downloader.Download(ctx, RustupInitURL(hostTriple), "rustup-init-"+hostTriple)
	if err != nil {
		in.Log.Error("Downloading rustup-init: %v", err)
		return false
	}
	if err := os.Chmod(installer, 0o755); err != nil {
		in.Log.Error("Making rustup-init executable: %v", err)
		return false
	}

	if err := os.MkdirAll(in.ToolsDir, 0o755); err != nil {
		in.Log.Error("Creating tools dir: %v", err)
		return false
	}

	ok := in.run(ctx, process.Command{
		Name: installer,
		Args: []string{"-y", "--no-modify-path", "--default-toolchain", in.Versions.RustToolchain},
		Env: map[string]string{
			"CARGO_HOME":  in.CargoHome(),
			"RUSTUP_HOME": in.RustupHome(),
		},
	})
	if !ok {
		return false
	}

	if !in.IsNativeToolchainInstalled() {
		in.Log.Error("rustup-init finished but cargo/rustc are still missing")
		return false
	}
	in.Log.Success("Rust toolchain installed to %s", in.CargoHome())
	return true
}

// InstallCrossToolchain installs zig, the macOS SDK, and cargo-zigbuild.
// The native toolchain must already be present.
func (in *Installer) InstallCrossToolchain(ctx context.Context) bool {
	if !in.IsNativeToolchainInstalled() {
		in.Log.Error("Rust toolchain is required before installing cross tools")
		return false
	}

	ok := true
	if in.IsCrossShimInstalled() {
		in.Log.Success("zig already installed")
	} else if err := in.installZig(ctx); err != nil {
		in.Log.Error("Installing zig: %v", err)
		ok = false
	}

	switch {
	case in.Host.IsMacOS():
		in.Log.Debug("Host is macOS; skipping SDK download")
	case in.IsCrossSdkInstalled():
		in.Log.Success("macOS SDK already installed")
	default:
		if err := in.installSDK(ctx); err != nil {
			in.Log.Error("Installing macOS SDK: %v", err)
			ok = false
		}
	}

	if in.IsCrossBuildPluginInstalled() {
		in.Log.Success("cargo-zigbuild already installed")
	} else {
		in.Log.Info("Installing cargo-zigbuild")
		env := in.Environment()
		env["CARGO_HOME"] = in.CargoHome()
		if !in.run(ctx, process.Command{
			Name: in.Cargo(),
			Args: []string{"install", "--locked", "cargo-zigbuild"},
			Env:  env,
		}) {
			ok = false
		} else {
			in.Log.Success("cargo-zigbuild installed")
		}
	}

	return ok
}

// InstallEverything installs the native toolchain followed by the cross
// toolchain.
func (in *Installer) InstallEverything(ctx context.Context) bool {
	if !in.InstallNativeToolchain(ctx) {
		return false
	}
	return in.InstallCrossToolchain(ctx)
}

func (in *Installer) installZig(ctx context.Context) error {
	url := in.Versions.ZigURL(in.Host.OS, in.Host.Arch)
	in.Log.Info("Downloading zig %s", in.Versions.ZigVersion)

	archive, err := in.Downloader.Download(ctx, url, zigArchiveName(in.Host, in.Versions.ZigVersion)+".tar.xz")
	if err != nil {
		return err
	}
	if err := ExtractTarXZ(archive, in.ToolsDir); err != nil {
		return fmt.Errorf("extracting %s: %w", filepath.Base(archive), err)
	}
	if !isFile(filepath.Join(in.ZigDir(), "zig")) {
		return fmt.Errorf("zig binary not found in %s after extraction", in.ZigDir())
	}
	in.Log.Success("zig installed to %s", in.ZigDir())
	return nil
}

func (in *Installer) installSDK(ctx context.Context) error {
	in.Log.Info("Downloading macOS SDK %s", in.Versions.MacOSSDKVersion)

	archive, err := in.Downloader.Download(ctx, in.Versions.MacOSSDKURL(), "")
	if err != nil {
		return err
	}
	if err := ExtractTarXZ(archive, in.ToolsDir); err != nil {
		return fmt.Errorf("extracting %s: %w", filepath.Base(archive), err)
	}
	if !isDir(in.SDKDir()) {
		return fmt.Errorf("SDK directory %s not found after extraction", in.SDKDir())
	}
	in.Log.Success("macOS SDK installed to %s", in.SDKDir())
	return nil
}

func (in *Installer) run(ctx context.Context, cmd process.Command) bool {
	in.Log.Debug("Running: %s", cmd)
	res, err := in.Runner.Run(ctx, cmd)
	if err != nil {
		in.Log.Error("%v", err)
		return false
	}
	if res.ExitCode != 0 {
		in.Log.Error("%s exited %d", filepath.Base(cmd.Name), res.ExitCode)
		if msg := strings.TrimSpace(res.Stderr); msg != "" {
			in.Log.Error("%s", msg)
		}
		return false
	}
	return true
}

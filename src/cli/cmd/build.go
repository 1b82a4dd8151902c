package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sofmeright/crossfreight/src/build"
	"github.com/sofmeright/crossfreight/src/cargo"
	"github.com/sofmeright/crossfreight/src/gitver"
	"github.com/sofmeright/crossfreight/src/output"
	"github.com/sofmeright/crossfreight/src/platform"
	"github.com/sofmeright/crossfreight/src/process"
	"github.com/sofmeright/crossfreight/src/version"
)

var errBuildFailed = errors.New("build failed")

var (
	bSel         selection
	bRelease     bool
	bDebug       bool
	bClean       bool
	bDryRun      bool
	bJUnitDir    string
	bNoAutoSetup bool
)

var buildCmd = &cobra.Command{
	Use:   "build [targets...]",
	Short: "Build the project for one or more targets",
	Long: `Build the cargo project for each requested target and collect the
binaries into the dist directory as <binary>-<target>.

Targets are catalog aliases (macos-arm64, macos-x86_64, linux-arm64,
linux-x86_64), groups (all, macos, linux), native, or full target triples.
Without any selection the configured default targets are built.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.BoolVar(&bSel.native, "native", false, "build for the host platform")
	f.BoolVar(&bSel.all, "all", false, "build every catalog target")
	f.BoolVar(&bSel.macos, "macos", false, "build all macOS targets")
	f.BoolVar(&bSel.macosArm64, "macos-arm64", false, "build for macOS on Apple Silicon")
	f.BoolVar(&bSel.macosX86_64, "macos-x86_64", false, "build for macOS on Intel")
	f.BoolVar(&bSel.linux, "linux", false, "build all Linux targets")
	f.BoolVar(&bSel.linuxArm64, "linux-arm64", false, "build for Linux on ARM64")
	f.BoolVar(&bSel.linuxX86_64, "linux-x86_64", false, "build for Linux on x86_64")

	f.BoolVar(&bRelease, "release", false, "build with the release profile (default from config)")
	f.BoolVar(&bDebug, "debug", false, "build with the debug profile")
	buildCmd.MarkFlagsMutuallyExclusive("release", "debug")
	f.BoolVar(&bClean, "clean", false, "clean build artifacts first")

	f.BoolVar(&bDryRun, "dry-run", false, "show the plan without executing")
	f.StringVar(&bJUnitDir, "junit", "", "write a JUnit report (build.xml) to this directory")
	f.BoolVar(&bNoAutoSetup, "no-auto-setup", false, "fail instead of installing missing toolchains")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, err := projectRoot()
	if err != nil {
		return err
	}

	log := newLogger()
	color := useColor()
	w := cmd.OutOrStdout()

	bcfg, err := buildConfig(root, host)
	if err != nil {
		return err
	}

	installer := newInstaller(root, host, log)
	bcfg.Cargo = installer.Cargo()

	output.Banner(w, output.NewBannerInfo(bcfg.BinaryName, version.Version), color)
	output.ContextBlock(w, buildContextKV(root, host, installer.ToolsDir, bcfg))

	output.SectionStart(w, "cf_build", "Build")
	ok := build.RunBuild(ctx, build.Run{
		Config:    bcfg,
		Gate:      installer,
		Runner:    process.Exec{},
		Log:       log,
		Out:       w,
		Color:     color,
		AutoSetup: cfg.AutoSetup && !bNoAutoSetup,
		DryRun:    bDryRun,
		JUnitDir:  bJUnitDir,
		Project:   bcfg.BinaryName,
	}, bSel.specs(args, cfg.Targets))
	output.SectionEnd(w, "cf_build")
	if !ok {
		return errBuildFailed
	}
	return nil
}

// buildConfig assembles the per-run settings from file config, flags,
// the cargo manifest and the host.
func buildConfig(root string, host platform.Host) (build.Config, error) {
	release := cfg.Release()
	switch {
	case bDebug:
		release = false
	case bRelease:
		release = true
	}

	binary := cfg.Binary
	if binary == "" {
		m, err := cargo.ReadManifest(root)
		if err != nil {
			return build.Config{}, fmt.Errorf("determining binary name: %w", err)
		}
		binary = m.BinaryName()
	}

	targetDir := cfg.TargetDir
	if targetDir == "" {
		dir, err := cargo.TargetDir(root)
		if err != nil {
			return build.Config{}, err
		}
		targetDir = dir
	}

	return build.Config{
		Release:     release,
		Clean:       bClean,
		Host:        host,
		ProjectRoot: root,
		TargetDir:   absPath(root, targetDir),
		DistDir:     absPath(root, cfg.DistDir),
		BinaryName:  binary,
	}, nil
}

func buildContextKV(root string, host platform.Host, toolsDir string, bcfg build.Config) []output.KV {
	kv := []output.KV{
		{Key: "Host", Value: host.String()},
		{Key: "Profile", Value: bcfg.Profile()},
		{Key: "Project", Value: root},
		{Key: "Binary", Value: bcfg.BinaryName},
		{Key: "Tools", Value: toolsDir},
		{Key: "Dist", Value: bcfg.DistDir},
	}
	if info, err := gitver.Describe(root); err == nil {
		kv = append(kv, output.KV{Key: "Commit", Value: info.String()})
	}
	if output.IsCI() {
		kv = append(kv, output.KV{Key: "CI", Value: "yes"})
	}
	return kv
}

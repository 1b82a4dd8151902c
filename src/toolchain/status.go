package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/sofmeright/crossfreight/src/process"
)

// ToolStatus is one row of the status report.
type ToolStatus struct {
	Name      string
	Installed bool
	Path      string
	Version   string
	Note      string
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?(-[0-9A-Za-z.\-]+)?`)

// ParseToolVersion extracts the first version number from a tool's
// --version output.
func ParseToolVersion(out string) (*semver.Version, bool) {
	m := versionPattern.FindString(out)
	if m == "" {
		return nil, false
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return nil, false
	}
	return v, true
}

type probe struct {
	name    string
	dir     string
	args    []string
	require string // exact version expected, if pinned
}

// Status reports every tool the build may need. Probes run concurrently;
// rows come back in a fixed order.
func (in *Installer) Status(ctx context.Context) []ToolStatus {
	probes := []probe{
		{name: "cargo", dir: in.cargoBin(), args: []string{"--version"}},
		{name: "rustc", dir: in.cargoBin(), args: []string{"--version"}},
		{name: "rustup", dir: in.cargoBin(), args: []string{"--version"}},
		{name: "zig", dir: in.ZigDir(), args: []string{"version"}, require: in.Versions.ZigVersion},
		{name: "cargo-zigbuild", dir: in.cargoBin(), args: []string{"--version"}},
	}

	rows := make([]ToolStatus, len(probes)+1)
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		i, p := i, p
		g.Go(func() error {
			rows[i] = in.probeTool(gctx, p)
			return nil
		})
	}
	_ = g.Wait()

	rows[len(probes)] = in.sdkStatus()
	return rows
}

func (in *Installer) probeTool(ctx context.Context, p probe) ToolStatus {
	st := ToolStatus{Name: p.name}
	path := findTool(p.dir, p.name)
	if path == "" {
		st.Note = "not found"
		return st
	}
	st.Installed = true
	st.Path = path

	res, err := in.Runner.Run(ctx, process.Command{Name: path, Args: p.args, Env: in.Environment()})
	if err != nil || res.ExitCode != 0 {
		st.Note = "version check failed"
		return st
	}

	v, ok := ParseToolVersion(res.Stdout)
	if !ok {
		st.Note = "unrecognized version output"
		return st
	}
	st.Version = v.String()

	if p.require != "" {
		want, err := semver.NewVersion(p.require)
		if err == nil && !v.Equal(want) {
			st.Note = "expected " + want.String()
		}
	}
	return st
}

func (in *Installer) sdkStatus() ToolStatus {
	st := ToolStatus{Name: "macOS SDK"}
	switch {
	case isDir(in.SDKDir()):
		st.Installed = true
		st.Path = in.SDKDir()
		st.Version = in.Versions.MacOSSDKVersion
	case os.Getenv("SDKROOT") != "" && isDir(os.Getenv("SDKROOT")):
		st.Installed = true
		st.Path = os.Getenv("SDKROOT")
		st.Note = "from SDKROOT"
		if v, ok := ParseToolVersion(filepath.Base(st.Path)); ok {
			st.Version = v.String()
		}
	case in.Host.IsMacOS():
		st.Note = "not needed on macOS hosts"
	default:
		st.Note = "not found"
	}
	return st
}

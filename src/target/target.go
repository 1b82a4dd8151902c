// Package target turns human-facing target requests into concrete,
// deduplicated build targets and decides how each one must be built.
package target

import (
	"fmt"
	"strings"

	"github.com/sofmeright/crossfreight/src/platform"
)

// Kind is the closed set of build strategies.
type Kind int

const (
	// KindNative builds for the host with the toolchain's default target.
	KindNative Kind = iota
	// KindTargeted builds with the native front-end and an explicit --target.
	KindTargeted
	// KindCross builds through the cross-compilation shim.
	KindCross
)

// ShimZigbuild is the cargo subcommand provided by cargo-zigbuild.
const ShimZigbuild = "zigbuild"

// crossShimOS lists the OS families that need the shim when they differ
// from the host OS.
var crossShimOS = map[string]bool{
	platform.OSMacOS: true,
}

// Strategy describes how a target is built. It is chosen once, when the
// target is constructed.
type Strategy struct {
	Kind Kind
	Shim string // cargo subcommand; set only for KindCross
}

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindTargeted:
		return "targeted"
	case KindCross:
		return "cross"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Target is one resolved build job. Two targets are the same job iff their
// triples are equal.
type Target struct {
	Spec         string // requested alias or triple, for diagnostics
	FriendlyName string
	Triple       string
	OS           string
	Arch         string
	Strategy     Strategy
}

// IsNative reports whether the target is the host's own triple.
func (t Target) IsNative() bool {
	return t.Strategy.Kind == KindNative
}

// NeedsCrossToolchain reports whether the target must go through the shim.
func (t Target) NeedsCrossToolchain() bool {
	return t.Strategy.Kind == KindCross
}

// String returns "friendly (triple)".
func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.FriendlyName, t.Triple)
}

// New builds a Target for a parsed triple. The strategy is derived from the
// triple and the host only.
func New(spec string, tr Triple, friendly string, host platform.Host) Target {
	if friendly == "" {
		friendly = tr.FriendlyName()
	}
	return Target{
		Spec:         spec,
		FriendlyName: friendly,
		Triple:       tr.String(),
		OS:           tr.OS,
		Arch:         tr.Arch,
		Strategy:     StrategyFor(tr, host),
	}
}

// StrategyFor derives the build strategy for a triple on a host.
func StrategyFor(tr Triple, host platform.Host) Strategy {
	switch {
	case tr.String() == host.Triple():
		return Strategy{Kind: KindNative}
	case tr.OS != host.OS && crossShimOS[tr.OS]:
		return Strategy{Kind: KindCross, Shim: ShimZigbuild}
	default:
		return Strategy{Kind: KindTargeted}
	}
}

// Triple is a parsed <arch>-<vendor>-<os>[-<abi>] target triple.
type Triple struct {
	Arch   string
	Vendor string
	OS     string // normalized
	rawOS  string
	ABI    string
}

var knownArches = map[string]bool{
	"x86_64":      true,
	"aarch64":     true,
	"i686":        true,
	"armv7":       true,
	"riscv64gc":   true,
	"powerpc64le": true,
	"s390x":       true,
}

var knownOS = map[string]string{
	"darwin":  platform.OSMacOS,
	"linux":   platform.OSLinux,
	"freebsd": platform.OSFreeBSD,
	"netbsd":  platform.OSNetBSD,
}

// ParseTriple parses a well-formed target triple. It accepts three or four
// components with a known architecture and operating system.
func ParseTriple(s string) (Triple, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 && len(parts) != 4 {
		return Triple{}, false
	}
	for _, p := range parts {
		if p == "" {
			return Triple{}, false
		}
	}
	if !knownArches[parts[0]] {
		return Triple{}, false
	}
	osName, ok := knownOS[parts[2]]
	if !ok {
		return Triple{}, false
	}
	tr := Triple{
		Arch:   parts[0],
		Vendor: parts[1],
		OS:     osName,
		rawOS:  parts[2],
	}
	if len(parts) == 4 {
		tr.ABI = parts[3]
	}
	return tr, true
}

// String reassembles the canonical triple.
func (tr Triple) String() string {
	s := tr.Arch + "-" + tr.Vendor + "-" + tr.rawOS
	if tr.ABI != "" {
		s += "-" + tr.ABI
	}
	return s
}

// FriendlyName derives "<os>-<arch>" for triples outside the catalog. A
// non-default ABI is kept as a suffix so musl and gnu builds stay distinct.
func (tr Triple) FriendlyName() string {
	name := tr.OS + "-" + tr.Arch
	if tr.ABI != "" && tr.ABI != "gnu" {
		name += "-" + tr.ABI
	}
	return name
}

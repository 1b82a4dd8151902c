// Package platform normalizes raw host introspection into the (os, arch)
// pair used for every target identity comparison.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Normalized operating system names.
const (
	OSMacOS   = "macos"
	OSLinux   = "linux"
	OSFreeBSD = "freebsd"
	OSNetBSD  = "netbsd"
)

// Normalized architecture names. These match the first component of a
// target triple.
const (
	ArchX86_64  = "x86_64"
	ArchAArch64 = "aarch64"
)

// Host is the normalized platform the build runs on. It is computed once at
// startup and passed explicitly to everything that compares against it.
type Host struct {
	OS   string
	Arch string
}

// Detect returns the normalized host for the running process.
func Detect() Host {
	return Normalize(runtime.GOOS, runtime.GOARCH)
}

// Normalize maps raw OS and CPU names (as reported by Go, uname, or Python's
// platform module) onto the normalized vocabulary.
func Normalize(osName, archName string) Host {
	return Host{
		OS:   NormalizeOS(osName),
		Arch: NormalizeArch(archName),
	}
}

// NormalizeOS maps an operating system name to its normalized form.
func NormalizeOS(osName string) string {
	name := strings.ToLower(strings.TrimSpace(osName))
	switch name {
	case "darwin", "macos", "macosx", "osx":
		return OSMacOS
	default:
		return name
	}
}

// NormalizeArch maps a CPU architecture name to its normalized form.
// Unknown names pass through lowercased.
func NormalizeArch(archName string) string {
	name := strings.ToLower(strings.TrimSpace(archName))
	switch name {
	case "x86_64", "amd64", "x64":
		return ArchX86_64
	case "aarch64", "arm64":
		return ArchAArch64
	default:
		return name
	}
}

// String returns "os-arch", the same shape as a catalog friendly name.
func (h Host) String() string {
	return fmt.Sprintf("%s-%s", h.OS, h.Arch)
}

// IsMacOS reports whether the host runs an Apple operating system.
func (h Host) IsMacOS() bool {
	return h.OS == OSMacOS
}

// Triple returns the canonical target triple for the host.
func (h Host) Triple() string {
	return TripleFor(h.OS, h.Arch)
}

// TripleFor returns the canonical triple for a normalized (os, arch) pair.
func TripleFor(osName, arch string) string {
	switch osName {
	case OSMacOS:
		return arch + "-apple-darwin"
	case OSLinux:
		return arch + "-unknown-linux-gnu"
	default:
		return arch + "-unknown-" + osName
	}
}

package cmd

import "github.com/sofmeright/crossfreight/src/target"

// selection holds the per-OS target flags of the build command.
type selection struct {
	native      bool
	all         bool
	macos       bool
	macosArm64  bool
	macosX86_64 bool
	linux       bool
	linuxArm64  bool
	linuxX86_64 bool
}

// specs turns the flags and positional arguments into resolver input.
// A group flag wins over its own members: --all drops every per-OS flag,
// --macos drops --macos-arm64/--macos-x86_64, --linux likewise. --native
// always comes first. With nothing selected the configured defaults apply.
func (s selection) specs(positional, defaults []string) []string {
	var specs []string
	if s.native {
		specs = append(specs, target.NativeSpec)
	}

	if s.all {
		specs = append(specs, "all")
	} else {
		specs = append(specs, pick(s.macos, "macos", s.macosArm64, "macos-arm64", s.macosX86_64, "macos-x86_64")...)
		specs = append(specs, pick(s.linux, "linux", s.linuxArm64, "linux-arm64", s.linuxX86_64, "linux-x86_64")...)
	}

	specs = append(specs, positional...)

	if len(specs) == 0 {
		return append([]string(nil), defaults...)
	}
	return specs
}

func pick(group bool, groupSpec string, arm bool, armSpec string, x86 bool, x86Spec string) []string {
	if group {
		return []string{groupSpec}
	}
	var out []string
	if arm {
		out = append(out, armSpec)
	}
	if x86 {
		out = append(out, x86Spec)
	}
	return out
}

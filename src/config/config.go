// Package config loads the optional .crossfreight.yml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".crossfreight.yml"

// Build profiles.
const (
	ProfileRelease = "release"
	ProfileDebug   = "debug"
)

// Config is the top-level crossfreight configuration.
type Config struct {
	// Binary is the artifact base name. Default: read from Cargo.toml.
	Binary string `yaml:"binary"`

	// DistDir is where published artifacts are collected.
	DistDir string `yaml:"dist_dir"`

	// ToolsDir holds locally installed toolchains.
	ToolsDir string `yaml:"tools_dir"`

	// TargetDir overrides the build root. Default: cargo's own resolution.
	TargetDir string `yaml:"target_dir"`

	// Profile is "release" or "debug".
	Profile string `yaml:"profile"`

	// Targets are the specs built when none are given on the command line.
	Targets TargetList `yaml:"targets"`

	// AutoSetup installs missing toolchains instead of failing.
	AutoSetup bool `yaml:"auto_setup"`

	Toolchain ToolchainConfig `yaml:"toolchain"`
}

// ToolchainConfig pins the versions of locally installed tools.
type ToolchainConfig struct {
	ZigVersion      string `yaml:"zig_version"`
	MacOSSDKVersion string `yaml:"macos_sdk_version"`
	RustToolchain   string `yaml:"rust_toolchain"`
}

// TargetList accepts either a single spec or a list of specs:
//
//	targets: all
//	targets: [native, linux-arm64]
type TargetList []string

// UnmarshalYAML implements the scalar-or-sequence form.
func (t *TargetList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return fmt.Errorf("targets: %w", err)
		}
		*t = TargetList{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return fmt.Errorf("targets: %w", err)
		}
		*t = list
		return nil
	}
	return fmt.Errorf("targets: expected string or list, got YAML kind %d", value.Kind)
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Defaults(), nil
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when no file is present.
func Defaults() *Config {
	return &Config{
		DistDir:   "dist",
		ToolsDir:  "builder/tools",
		Profile:   ProfileRelease,
		Targets:   TargetList{"native"},
		AutoSetup: true,
		Toolchain: DefaultToolchainConfig(),
	}
}

// DefaultToolchainConfig returns the pinned tool versions.
func DefaultToolchainConfig() ToolchainConfig {
	return ToolchainConfig{
		ZigVersion:      "0.13.0",
		MacOSSDKVersion: "14.0",
		RustToolchain:   "stable",
	}
}

// Release reports whether the configured profile is release.
func (c *Config) Release() bool {
	return c.Profile != ProfileDebug
}

// ZigURL returns the zig tarball URL for a normalized host.
func (t ToolchainConfig) ZigURL(hostOS, hostArch string) string {
	return fmt.Sprintf("https://ziglang.org/download/%s/zig-%s-%s-%s.tar.xz",
		t.ZigVersion, hostOS, hostArch, t.ZigVersion)
}

// MacOSSDKURL returns the macOS SDK tarball URL.
func (t ToolchainConfig) MacOSSDKURL() string {
	return fmt.Sprintf("https://github.com/joseluisq/macosx-sdks/releases/download/%s/MacOSX%s.sdk.tar.xz",
		t.MacOSSDKVersion, t.MacOSSDKVersion)
}

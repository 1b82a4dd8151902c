package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/sofmeright/crossfreight/src/platform"
	"github.com/sofmeright/crossfreight/src/target"
)

// Validate checks a loaded Config. Relative paths are resolved against root,
// and target specs are resolved for host.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config, host platform.Host, root string) (warnings []string, err error) {
	var errs []string

	// ── Profile ───────────────────────────────────────────────────────────

	switch cfg.Profile {
	case ProfileRelease, ProfileDebug:
	default:
		errs = append(errs, fmt.Sprintf("profile: must be %q or %q, got %q", ProfileRelease, ProfileDebug, cfg.Profile))
	}

	// ── Paths ─────────────────────────────────────────────────────────────

	if strings.ContainsAny(cfg.Binary, `/\`) {
		errs = append(errs, fmt.Sprintf("binary: %q must be a file name, not a path", cfg.Binary))
	}
	if strings.TrimSpace(cfg.DistDir) == "" {
		errs = append(errs, "dist_dir: must not be empty")
	}
	if strings.TrimSpace(cfg.ToolsDir) == "" {
		errs = append(errs, "tools_dir: must not be empty")
	}
	errs = append(errs, distDirErrors(cfg, root)...)

	// ── Toolchain ─────────────────────────────────────────────────────────

	if _, verr := semver.StrictNewVersion(cfg.Toolchain.ZigVersion); verr != nil {
		errs = append(errs, fmt.Sprintf("toolchain.zig_version: %q is not a semantic version: %v", cfg.Toolchain.ZigVersion, verr))
	}
	if _, verr := semver.NewVersion(cfg.Toolchain.MacOSSDKVersion); verr != nil {
		errs = append(errs, fmt.Sprintf("toolchain.macos_sdk_version: %q is not a version: %v", cfg.Toolchain.MacOSSDKVersion, verr))
	}
	if strings.TrimSpace(cfg.Toolchain.RustToolchain) == "" {
		errs = append(errs, "toolchain.rust_toolchain: must not be empty")
	}

	// ── Targets ───────────────────────────────────────────────────────────

	for i, spec := range cfg.Targets {
		if strings.TrimSpace(spec) == "" {
			errs = append(errs, fmt.Sprintf("targets[%d]: must not be empty", i))
		}
	}
	if len(cfg.Targets) > 0 {
		_, unknown := target.Resolve(cfg.Targets, host)
		for _, spec := range unknown {
			if strings.TrimSpace(spec) == "" {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("targets: %q is not a known target and will be skipped", spec))
		}
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return warnings, nil
}

// distDirErrors rejects a dist_dir that clean would be unsafe to remove: the
// project root, one of its ancestors, or a directory shared with tools or
// cargo output.
func distDirErrors(cfg *Config, root string) []string {
	if strings.TrimSpace(cfg.DistDir) == "" {
		return nil
	}
	root = filepath.Clean(root)
	dist := resolveDir(root, cfg.DistDir)

	var errs []string
	if rel, err := filepath.Rel(dist, root); err == nil && !escapes(rel) {
		errs = append(errs, fmt.Sprintf("dist_dir: %q resolves to the project root or one of its parents", cfg.DistDir))
	}
	if strings.TrimSpace(cfg.ToolsDir) != "" && resolveDir(root, cfg.ToolsDir) == dist {
		errs = append(errs, fmt.Sprintf("dist_dir: %q is the same directory as tools_dir", cfg.DistDir))
	}
	if strings.TrimSpace(cfg.TargetDir) != "" && resolveDir(root, cfg.TargetDir) == dist {
		errs = append(errs, fmt.Sprintf("dist_dir: %q is the same directory as target_dir", cfg.DistDir))
	}
	return errs
}

func resolveDir(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// escapes reports whether a relative path leaves its base directory.
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

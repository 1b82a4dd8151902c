// Package cargo reads the parts of a Cargo project the build needs: the
// binary name, the package version, and where cargo writes its output.
package cargo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Manifest is the subset of Cargo.toml used here.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Bins []struct {
		Name string `toml:"name"`
	} `toml:"bin"`
}

// ReadManifest parses <root>/Cargo.toml.
func ReadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, "Cargo.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cargo: parse %s: %w", path, err)
	}
	return &m, nil
}

// BinaryName returns the first [[bin]] name, falling back to the package
// name, which is cargo's own default.
func (m *Manifest) BinaryName() string {
	for _, b := range m.Bins {
		if b.Name != "" {
			return b.Name
		}
	}
	return m.Package.Name
}

// TargetDir resolves cargo's output directory for a project, in cargo's own
// precedence: CARGO_TARGET_DIR, then [build] target-dir in
// <root>/.cargo/config.toml, then <root>/target.
func TargetDir(root string) (string, error) {
	if dir := os.Getenv("CARGO_TARGET_DIR"); dir != "" {
		return absFrom(root, dir), nil
	}

	for _, name := range []string{"config.toml", "config"} {
		path := filepath.Join(root, ".cargo", name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", err
		}

		var cfg struct {
			Build struct {
				TargetDir string `toml:"target-dir"`
			} `toml:"build"`
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return "", fmt.Errorf("cargo: parse %s: %w", path, err)
		}
		if cfg.Build.TargetDir != "" {
			return absFrom(root, cfg.Build.TargetDir), nil
		}
		break
	}

	return filepath.Join(root, "target"), nil
}

func absFrom(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Published is one artifact copied into the dist directory.
type Published struct {
	Target    string // friendly name
	Path      string
	Size      int64
	SizeLabel string
}

// DistName returns the published file name: <binary>-<friendly>.
func DistName(binary, friendly string) string {
	return binary + "-" + friendly
}

// Publish copies each successful artifact into distDir as an executable.
// A failed copy is logged and skipped.
func Publish(results []Result, distDir, binary string, log Logger) []Published {
	if err := os.MkdirAll(distDir, 0o755); err != nil {
		log.Error("Creating %s: %v", distDir, err)
		return nil
	}

	var out []Published
	for _, r := range results {
		if !r.Succeeded || r.ArtifactPath == "" {
			continue
		}

		dest := filepath.Join(distDir, DistName(binary, r.Target.FriendlyName))
		size, err := copyExecutable(r.ArtifactPath, dest)
		if err != nil {
			log.Error("Failed to copy %s: %v", r.ArtifactPath, err)
			continue
		}

		p := Published{
			Target:    r.Target.FriendlyName,
			Path:      dest,
			Size:      size,
			SizeLabel: FormatSize(size),
		}
		log.Debug("Copied %s (%s)", filepath.Base(dest), p.SizeLabel)
		out = append(out, p)
	}
	return out
}

func copyExecutable(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	// Remove first so a running binary from a previous publish is not
	// truncated in place.
	_ = os.Remove(dest)

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	if err := os.Chmod(dest, 0o755); err != nil {
		return 0, err
	}

	if fi, err := in.Stat(); err == nil {
		_ = os.Chtimes(dest, fi.ModTime(), fi.ModTime())
	}
	return n, nil
}

// FormatSize renders a byte count with base-1024 units and one decimal:
// 500 → "500.0B", 1536 → "1.5KB".
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f%s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1fTB", size)
}

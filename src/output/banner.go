package output

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// BannerInfo holds the identity fields printed in the banner.
type BannerInfo struct {
	Project string
	Version string
	Date    string
}

// NewBannerInfo creates a BannerInfo stamped with today's date.
func NewBannerInfo(project, version string) BannerInfo {
	return BannerInfo{
		Project: project,
		Version: version,
		Date:    time.Now().UTC().Format("2006-01-02"),
	}
}

// Banner prints the run banner.
func Banner(w io.Writer, info BannerInfo, color bool) {
	rule := strings.Repeat("═", 50)
	title := "crossfreight"
	if info.Project != "" {
		title = info.Project + " · crossfreight"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, colorize(rule, colorCyan, color))
	fmt.Fprintf(w, "  %s\n", colorize(title, colorBold+colorCyan, color))
	var meta []string
	if info.Version != "" {
		meta = append(meta, info.Version)
	}
	meta = append(meta, "cross-compilation build")
	if info.Date != "" {
		meta = append(meta, info.Date)
	}
	fmt.Fprintf(w, "  %s\n", Dimmed(strings.Join(meta, " · "), color))
	fmt.Fprintln(w, colorize(rule, colorCyan, color))
}

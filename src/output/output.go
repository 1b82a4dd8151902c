package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

func colorize(text, color string, enabled bool) string {
	if !enabled {
		return text
	}
	return color + text + colorReset
}

// Artifact is one published file shown in the results table.
type Artifact struct {
	Path string
	Size string
}

// ArtifactTable renders published artifacts inside a section, name then size.
func ArtifactTable(sec *Section, artifacts []Artifact, color bool) {
	if len(artifacts) == 0 {
		sec.Row("%s", Dimmed("no artifacts", color))
		return
	}
	width := 0
	for _, a := range artifacts {
		if len(a.Path) > width {
			width = len(a.Path)
		}
	}
	for _, a := range artifacts {
		sec.Row("%-*s  %8s  %s", width, a.Path, a.Size, StatusIcon("success", color))
	}
}

// Plain writes pre-formatted lines indented to section depth.
func Plain(w io.Writer, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "      %s\n", line)
	}
}

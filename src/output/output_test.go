package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, false, false)

	l.Info("hello %s", "world")
	l.Warn("careful")
	l.Error("broken")
	l.Success("done")
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "[INFO] hello world\n")
	assert.Contains(t, out, "[WARN] careful\n")
	assert.Contains(t, out, "[FAIL] broken\n")
	assert.Contains(t, out, "[ OK ] done\n")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\033[")
}

func TestLoggerVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, false, true)
	l.Debug("shown %d", 1)
	l.Step(2, 3, "Building linux-x86_64")
	l.Target("linux-x86_64", "x86_64-unknown-linux-gnu")
	l.Newline()

	out := buf.String()
	assert.Contains(t, out, "[DBUG] shown 1")
	assert.Contains(t, out, "[2/3] Building linux-x86_64")
	assert.Contains(t, out, "linux-x86_64 (x86_64-unknown-linux-gnu)")
	assert.True(t, strings.HasSuffix(out, "(x86_64-unknown-linux-gnu)\n\n"))
}

func TestSectionFrame(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Build", 1500*time.Millisecond, false)
	sec.KV("targets", "2")
	sec.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "── Build "))
	assert.True(t, strings.HasSuffix(lines[0], " 1.5s ──"))
	assert.Equal(t, "    │ targets         2", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "    └─"))
}

func TestStatusIconPlain(t *testing.T) {
	assert.Equal(t, "✓", StatusIcon("success", false))
	assert.Equal(t, "✗", StatusIcon("failed", false))
	assert.Equal(t, "⊘", StatusIcon("skipped", false))
	assert.Equal(t, "\033[32m✓\033[0m", StatusIcon("success", true))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "<1ms", formatElapsed(10*time.Microsecond))
	assert.Equal(t, "250ms", formatElapsed(250*time.Millisecond))
	assert.Equal(t, "2.0s", formatElapsed(2*time.Second))
	assert.Equal(t, "1m30.0s", formatElapsed(90*time.Second))
}

func TestWriteJUnit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	report := JUnitTestSuites{
		Name:  "crossfreight-build",
		Tests: 1,
		Suites: []JUnitTestSuite{{
			Name:  "crossfreight/build",
			Tests: 1,
			Cases: []JUnitTestCase{{
				Name:      "linux-x86_64",
				Classname: "crossfreight.build",
				Failure:   &JUnitFailure{Message: "failed", Type: "build", Body: "error[E0425]"},
			}},
		}},
	}

	path, err := WriteJUnit(dir, "build.xml", report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(data)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, `<testcase name="linux-x86_64" classname="crossfreight.build" time="">`)
	assert.Contains(t, s, "error[E0425]")
}

func TestArtifactTable(t *testing.T) {
	var buf bytes.Buffer
	sec := NewSection(&buf, "Dist", 0, false)
	ArtifactTable(sec, []Artifact{{Path: "dist/app-linux-x86_64", Size: "1.5KB"}}, false)
	sec.Close()
	assert.Contains(t, buf.String(), "dist/app-linux-x86_64     1.5KB  ✓")
}

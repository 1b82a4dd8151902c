package process

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/root", "EMPTY="}
	got := MergeEnv(base, map[string]string{
		"PATH":    "/opt/zig:/usr/bin",
		"SDKROOT": "/sdk",
		"A":       "1",
	})

	assert.Equal(t, []string{
		"PATH=/opt/zig:/usr/bin",
		"HOME=/root",
		"EMPTY=",
		"A=1",
		"SDKROOT=/sdk",
	}, got)
}

func TestMergeEnvNoOverrides(t *testing.T) {
	base := []string{"X=1"}
	assert.Equal(t, base, MergeEnv(base, nil))
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "cargo", Args: []string{"build", "--release"}}
	assert.Equal(t, "cargo build --release", c.String())
	assert.Equal(t, "cargo", Command{Name: "cargo"}.String())
}

func TestExecCapturesOutputAndExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	res, err := Exec{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; echo $CF_TEST; exit 3"},
		Env:  map[string]string{"CF_TEST": "merged"},
		Dir:  t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\nmerged\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestExecMissingBinary(t *testing.T) {
	res, err := Exec{}.Run(context.Background(), Command{Name: "crossfreight-does-not-exist"})
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

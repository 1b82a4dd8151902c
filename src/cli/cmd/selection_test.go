package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectionSpecs(t *testing.T) {
	defaults := []string{"native"}
	cases := []struct {
		name       string
		sel        selection
		positional []string
		want       []string
	}{
		{"defaults", selection{}, nil, []string{"native"}},
		{"native only", selection{native: true}, nil, []string{"native"}},
		{"all suppresses per-os", selection{all: true, macos: true, linuxArm64: true}, nil, []string{"all"}},
		{"native first", selection{native: true, all: true}, nil, []string{"native", "all"}},
		{"macos group wins", selection{macos: true, macosArm64: true}, nil, []string{"macos"}},
		{"individual flags", selection{macosX86_64: true, linuxArm64: true, linuxX86_64: true}, nil,
			[]string{"macos-x86_64", "linux-arm64", "linux-x86_64"}},
		{"linux group wins", selection{linux: true, linuxX86_64: true, macosArm64: true}, nil,
			[]string{"macos-arm64", "linux"}},
		{"positional appended", selection{linux: true}, []string{"x86_64-unknown-freebsd"},
			[]string{"linux", "x86_64-unknown-freebsd"}},
		{"positional replaces defaults", selection{}, []string{"macos"}, []string{"macos"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, tc.sel.specs(tc.positional, defaults)); diff != "" {
				t.Errorf("specs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectionDefaultsAreCopied(t *testing.T) {
	defaults := []string{"linux"}
	got := selection{}.specs(nil, defaults)
	got[0] = "mutated"
	if defaults[0] != "linux" {
		t.Fatalf("defaults mutated: %v", defaults)
	}
}

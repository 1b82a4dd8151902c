package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sofmeright/crossfreight/src/output"
	"github.com/sofmeright/crossfreight/src/target"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List known target aliases and how they build on this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		color := useColor()
		w := cmd.OutOrStdout()

		sec := output.NewSection(w, "Targets", 0, color)
		native := target.Native(host)
		sec.Row("%-14s%-28s%-16s%s", target.NativeSpec, native.Triple, native.FriendlyName, native.Strategy.Kind)
		sec.Separator()
		for _, e := range target.Catalog() {
			t, _ := target.Resolve([]string{e.Alias}, host)
			kind := ""
			if len(t) == 1 {
				kind = t[0].Strategy.Kind.String()
			}
			sec.Row("%-14s%-28s%-16s%s", e.Alias, e.Triple, e.FriendlyName, kind)
		}
		sec.Separator()
		for _, g := range target.Groups() {
			sec.KV(g.Name, strings.Join(g.Members(), ", "))
		}
		sec.Close()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/crossfreight/src/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which build tools are installed",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		installer := newInstaller(root, host, newLogger())
		color := useColor()
		w := cmd.OutOrStdout()

		start := time.Now()
		rows := installer.Status(context.Background())

		output.ContextBlock(w, []output.KV{
			{Key: "Host", Value: host.String()},
			{Key: "Triple", Value: host.Triple()},
			{Key: "Tools", Value: installer.ToolsDir},
		})

		sec := output.NewSection(w, "Toolchain", time.Since(start), color)
		for _, r := range rows {
			status := "failed"
			if r.Installed {
				status = "success"
			}
			detail := r.Version
			if r.Path != "" {
				detail = joinDetail(detail, r.Path)
			}
			if r.Note != "" {
				detail = joinDetail(detail, output.Dimmed(r.Note, color))
			}
			output.SummaryRow(w, r.Name, status, detail, color)
		}
		sec.Close()
		return nil
	},
}

func joinDetail(a, b string) string {
	if a == "" {
		return b
	}
	return a + "  " + b
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

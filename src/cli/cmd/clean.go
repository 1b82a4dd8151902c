package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/sofmeright/crossfreight/src/build"
	"github.com/sofmeright/crossfreight/src/process"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run cargo clean and remove the dist directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		log := newLogger()
		installer := newInstaller(root, host, log)

		exec := build.NewExecutor(build.Config{
			Host:        host,
			ProjectRoot: root,
			DistDir:     absPath(root, cfg.DistDir),
			Cargo:       installer.Cargo(),
		}, installer, process.Exec{}, log)

		if !exec.Clean(context.Background()) {
			return errors.New("clean failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

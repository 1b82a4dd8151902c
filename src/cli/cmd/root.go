package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sofmeright/crossfreight/src/config"
	"github.com/sofmeright/crossfreight/src/output"
	"github.com/sofmeright/crossfreight/src/platform"
	"github.com/sofmeright/crossfreight/src/process"
	"github.com/sofmeright/crossfreight/src/toolchain"
)

var (
	cfgFile    string
	verbose    bool
	noColor    bool
	projectDir string
	cfg        *config.Config
	host       platform.Host
)

var rootCmd = &cobra.Command{
	Use:   "crossfreight",
	Short: "Cross-compile Rust binaries",
	Long:  "crossfreight — builds a cargo project for macOS and Linux targets from one host and collects the binaries into dist/.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it.
		if cmd.Name() == "version" {
			return nil
		}

		if cfgFile != "" {
			abs, err := filepath.Abs(cfgFile)
			if err != nil {
				return err
			}
			cfgFile = abs
		}
		if projectDir != "" {
			if err := os.Chdir(projectDir); err != nil {
				return fmt.Errorf("changing to project dir: %w", err)
			}
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		root, err := projectRoot()
		if err != nil {
			return err
		}
		host = platform.Detect()
		warnings, err := config.Validate(cfg, host, root)
		if err != nil {
			return err
		}
		log := newLogger()
		for _, w := range warnings {
			log.Warn("config: %s", w)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .crossfreight.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "project", "C", "", "project root (default: current directory)")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func useColor() bool {
	return !noColor && output.UseColor()
}

func newLogger() *output.Logger {
	return output.NewLogger(os.Stderr, useColor(), verbose)
}

// projectRoot returns the absolute working directory after --project.
func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return dir, nil
}

// absPath resolves a configured path against the project root.
func absPath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func newInstaller(root string, host platform.Host, log *output.Logger) *toolchain.Installer {
	return toolchain.New(absPath(root, cfg.ToolsDir), host, cfg.Toolchain, process.Exec{}, log)
}

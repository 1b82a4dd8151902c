package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	setupRust  bool
	setupCross bool
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Install build toolchains into the tools directory",
	Long: `Install the toolchains crossfreight builds with.

  --rust    rustup, cargo and rustc only
  --cross   zig, cargo-zigbuild and the macOS SDK (requires --rust first)

Without flags everything is installed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		root, err := projectRoot()
		if err != nil {
			return err
		}
		log := newLogger()
		installer := newInstaller(root, host, log)

		var ok bool
		switch {
		case setupRust && setupCross:
			ok = installer.InstallEverything(ctx)
		case setupRust:
			log.Header("Rust Toolchain Setup")
			ok = installer.InstallNativeToolchain(ctx)
		case setupCross:
			log.Header("Cross-compilation Setup")
			ok = installer.InstallCrossToolchain(ctx)
		default:
			log.Header("Full Setup")
			ok = installer.InstallEverything(ctx)
		}
		if !ok {
			return errors.New("setup failed")
		}
		log.Success("Setup complete")
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&setupRust, "rust", false, "install the Rust toolchain only")
	setupCmd.Flags().BoolVar(&setupCross, "cross", false, "install cross-compilation tools only")
	rootCmd.AddCommand(setupCmd)
}

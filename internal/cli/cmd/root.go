// Package cmd provides Cobra CLI commands for tabtile.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tabtile/tabtile/internal/cli"
	"github.com/tabtile/tabtile/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "tabtile",
		Short: "Tile browser tabs into side-by-side windows",
		Long: `Tabtile arranges the tabs of a running browser into tiled windows.

The browser must expose a DevTools endpoint (start it with
--remote-debugging-port=9222). Tabtile attaches to it and drives the
window layout from there.

Commands:
  split      Tile two tabs side by side
  quick      Tile the active tab next to its neighbor
  ref        Manage floating reference windows
  tabs       List tabs in the focused window
  journal    Show recent arrangement operations
  serve      Run as a native-messaging host for the browser extension

Use 'tabtile doctor' to verify the browser endpoint is reachable.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

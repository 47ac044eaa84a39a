package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tabtile/tabtile/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("tabtile %s\n", buildInfo.Version)
		fmt.Printf("  commit:  %s\n", buildInfo.Commit)
		fmt.Printf("  built:   %s\n", buildInfo.BuildDate)
		fmt.Printf("  go:      %s\n", runtime.Version())
		fmt.Printf("  source:  %s\n", build.RepoURL())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

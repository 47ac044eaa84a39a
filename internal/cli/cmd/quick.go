package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quickJSON bool

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Tile the active tab next to its neighbor",
	Long: `Quick split tiles the focused window without naming tabs: the active tab
takes the left half and the next tab in order takes the right half,
wrapping around at the end of the tab strip. The window needs at least
two tabs.`,
	Args: cobra.NoArgs,
	RunE: runQuick,
}

func init() {
	rootCmd.AddCommand(quickCmd)
	quickCmd.Flags().BoolVar(&quickJSON, "json", false, "output as JSON")
}

func runQuick(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	arrange, err := app.Arrange()
	if err != nil {
		return err
	}

	out, err := arrange.QuickSplit(app.Ctx())
	if err != nil {
		return err
	}
	return printSplit(out)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tabsJSON bool

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "List tabs in the focused window",
	Long: `Tabs lists the focused window's tabs with the ids used by 'split' and
'ref add'. The active tab is marked with an asterisk.`,
	Args: cobra.NoArgs,
	RunE: runTabs,
}

func init() {
	rootCmd.AddCommand(tabsCmd)
	tabsCmd.Flags().BoolVar(&tabsJSON, "json", false, "output as JSON")
}

func runTabs(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	arrange, err := app.Arrange()
	if err != nil {
		return err
	}

	tabs, err := arrange.CurrentTabs(app.Ctx())
	if err != nil {
		return err
	}

	if tabsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(tabs)
	}

	for _, tab := range tabs {
		marker := " "
		if tab.Active {
			marker = "*"
		}
		title := tab.Title
		if title == "" {
			title = tab.URL
		}
		fmt.Printf("%s %4d  %s\n", marker, tab.ID, title)
	}
	return nil
}

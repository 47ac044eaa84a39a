package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	journalJSON bool
	journalMax  int
)

const defaultJournalMax = 20

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent arrangement operations",
	Long: `Journal lists recent splits and reference window operations, newest
first. The journal can be disabled in the config file.`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().BoolVar(&journalJSON, "json", false, "output as JSON")
	journalCmd.Flags().IntVar(&journalMax, "max", defaultJournalMax, "maximum entries to show")
}

func runJournal(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	repo := app.Journal()
	if repo == nil {
		return fmt.Errorf("journal is disabled or unavailable")
	}

	entries, err := repo.Recent(app.Ctx(), journalMax)
	if err != nil {
		return err
	}

	if journalJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("journal is empty")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("%s  %-16s  tabs %v  windows %v\n",
			entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			entry.Op, entry.TabIDs, entry.WindowIDs)
	}
	return nil
}
